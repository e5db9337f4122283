package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastShowAndExpire(t *testing.T) {
	toast := NewToast()
	assert.Empty(t, toast.View())

	cmd := toast.Show(ToastError, "Create Market failed", "mint account not found")
	require.NotNil(t, cmd)
	assert.True(t, toast.Visible())
	assert.Equal(t, ToastError, toast.Level())
	assert.Contains(t, toast.View(), "mint account not found")

	// A newer toast is not hidden by the older timer
	toast.Show(ToastSuccess, "Create Token succeeded", "")
	toast.Update(toastExpiredMsg{seq: 1})
	assert.True(t, toast.Visible())

	toast.Update(toastExpiredMsg{seq: 2})
	assert.False(t, toast.Visible())
	assert.Empty(t, toast.View())
}

// internal/transaction/errors.go
package transaction

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrTransactionTooLarge is returned when a batch does not fit one packet.
	ErrTransactionTooLarge = errors.New("transaction too large")
	// ErrConfirmationTimeout is returned when confirm_timeout elapses before the target commitment.
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

// Error is a failed submission. Signature is zero when the failure happened before send.
type Error struct {
	Signature solana.Signature
	Logs      []string
	Err       error
}

func (e *Error) Error() string {
	if e.Signature == (solana.Signature{}) {
		return fmt.Sprintf("transaction failed: %v", e.Err)
	}
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

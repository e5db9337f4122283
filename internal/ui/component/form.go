package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// FieldType represents the type of form field
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumber
	// FieldTypePath holds a local file path
	FieldTypePath
)

const defaultInputWidth = 40

// FormField represents a single form field
type FormField struct {
	Name       string
	Label      string
	Type       FieldType
	Required   bool
	Validation func(string) error
	Error      string

	input textinput.Model
}

// Value returns the trimmed input.
func (f *FormField) Value() string {
	return strings.TrimSpace(f.input.Value())
}

// Form is a vertical list of text inputs with per-field validation.
type Form struct {
	fields     []FormField
	focusIndex int
	disabled   bool
	width      int

	labelStyle   lipgloss.Style
	hintStyle    lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewForm creates a new form component
func NewForm() *Form {
	palette := style.DefaultPalette()

	return &Form{
		labelStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error),
	}
}

// AddField adds a field to the form
func (f *Form) AddField(name string, fieldType FieldType, label string, required bool, placeholder string) *Form {
	ti := textinput.New()
	ti.Width = defaultInputWidth
	ti.Placeholder = placeholder
	if fieldType == FieldTypeNumber && placeholder == "" {
		ti.Placeholder = "0"
	}

	f.fields = append(f.fields, FormField{
		Name:     name,
		Label:    label,
		Type:     fieldType,
		Required: required,
		input:    ti,
	})

	// Focus first field
	if len(f.fields) == 1 {
		f.fields[0].input.Focus()
	}
	return f
}

// SetFieldValue sets the value of a field
func (f *Form) SetFieldValue(name, value string) *Form {
	if field := f.field(name); field != nil {
		field.input.SetValue(value)
	}
	return f
}

// SetFieldValidation sets a validation function for a field
func (f *Form) SetFieldValidation(name string, validation func(string) error) *Form {
	if field := f.field(name); field != nil {
		field.Validation = validation
	}
	return f
}

// SetFieldError marks a field as invalid. It reports whether the field exists.
func (f *Form) SetFieldError(name, message string) bool {
	field := f.field(name)
	if field == nil {
		return false
	}
	field.Error = message
	return true
}

// SetDisabled freezes input while a submission is in flight.
func (f *Form) SetDisabled(disabled bool) {
	f.disabled = disabled
}

// Disabled reports whether input is frozen.
func (f *Form) Disabled() bool {
	return f.disabled
}

// Update handles form input and updates
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 || f.disabled {
		return f, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down", "enter":
			f.focus(f.focusIndex + 1)
			return f, nil
		case "shift+tab", "up":
			f.focus(f.focusIndex - 1)
			return f, nil
		}
	}

	field := &f.fields[f.focusIndex]
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	// Clear error when user types
	if _, ok := msg.(tea.KeyMsg); ok {
		field.Error = ""
	}
	return f, cmd
}

// View renders the form
func (f *Form) View() string {
	if len(f.fields) == 0 {
		return "No fields defined"
	}

	var content strings.Builder
	for i := range f.fields {
		field := &f.fields[i]

		label := field.Label
		if field.Required {
			label += " *"
		}
		content.WriteString(f.labelStyle.Render(label))
		if field.Type == FieldTypePath {
			content.WriteString(f.hintStyle.Render("  (file path)"))
		}
		content.WriteString("\n")

		fieldStyle := f.inputStyle
		if i == f.focusIndex && !f.disabled {
			fieldStyle = f.focusedStyle
		}
		content.WriteString(fieldStyle.Render(field.input.View()))
		content.WriteString("\n")

		if field.Error != "" {
			content.WriteString(f.errorStyle.Render("⚠ " + field.Error))
			content.WriteString("\n")
		}
	}
	return content.String()
}

// Validate checks every field and records the first problem of each.
func (f *Form) Validate() bool {
	valid := true
	for i := range f.fields {
		field := &f.fields[i]
		field.Error = ""

		value := field.Value()
		if value == "" {
			if field.Required {
				field.Error = "This field is required"
				valid = false
			}
			continue
		}
		if field.Validation != nil {
			if err := field.Validation(value); err != nil {
				field.Error = err.Error()
				valid = false
			}
		}
	}
	return valid
}

// GetValues returns all form field values as a map
func (f *Form) GetValues() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i := range f.fields {
		values[f.fields[i].Name] = f.fields[i].Value()
	}
	return values
}

// GetValue returns the value of a specific field
func (f *Form) GetValue(name string) string {
	if field := f.field(name); field != nil {
		return field.Value()
	}
	return ""
}

// Error returns the error recorded for a field.
func (f *Form) Error(name string) string {
	if field := f.field(name); field != nil {
		return field.Error
	}
	return ""
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focusIndex].Name
}

// Reset clears all form fields
func (f *Form) Reset() *Form {
	for i := range f.fields {
		f.fields[i].Error = ""
		f.fields[i].input.SetValue("")
	}
	f.focus(0)
	return f
}

// SetSize sets the form width
func (f *Form) SetSize(width, _ int) *Form {
	f.width = width
	// Account for padding and borders
	inputWidth := width - 6
	if inputWidth > 10 {
		for i := range f.fields {
			f.fields[i].input.Width = inputWidth
		}
	}
	return f
}

func (f *Form) field(name string) *FormField {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// focus moves focus to index i, wrapping around.
func (f *Form) focus(i int) {
	n := len(f.fields)
	if n == 0 {
		return
	}
	f.fields[f.focusIndex].input.Blur()
	f.focusIndex = ((i % n) + n) % n
	f.fields[f.focusIndex].input.Focus()
}

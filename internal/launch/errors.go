// internal/launch/errors.go
package launch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

// ErrFlowInFlight is returned when the same flow is triggered again before
// the previous invocation finished.
var ErrFlowInFlight = errors.New("flow already in flight")

// Error kinds reported to the API, the TUI and notifications.
const (
	KindValidation = "validation"
	KindResolution = "resolution"
	KindUpload     = "upload"
	KindSubmission = "submission"
	KindWallet     = "wallet"
	KindInFlight   = "in_flight"
	KindCanceled   = "canceled"
	KindInternal   = "internal"
)

// Upload stages.
const (
	StageImage    = "image"
	StageMetadata = "metadata"
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ResolutionError reports a referenced account that is missing or of the wrong type.
type ResolutionError struct {
	Address solana.PublicKey
	Reason  string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %s: %s: %v", e.Address, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolve %s: %s", e.Address, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// UploadError reports a storage failure. Nothing was submitted.
type UploadError struct {
	Stage string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s upload failed: %v", e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// SubmissionError reports a batch the network or a program rejected.
// Signature is set when the transaction reached the network. Created lists
// accounts that earlier batches of the same flow already created.
type SubmissionError struct {
	Step      string
	Signature solana.Signature
	Logs      []string
	Created   []solana.PublicKey
	Err       error
}

func (e *SubmissionError) Error() string {
	msg := fmt.Sprintf("%s transaction failed: %v", e.Step, e.Err)
	if e.Signature != (solana.Signature{}) {
		msg = fmt.Sprintf("%s transaction %s failed: %v", e.Step, e.Signature, e.Err)
	}
	if len(e.Created) > 0 {
		created := make([]string, len(e.Created))
		for i, key := range e.Created {
			created[i] = key.String()
		}
		msg += " (already created: " + strings.Join(created, ", ") + ")"
	}
	return msg
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// WalletError reports a missing or unusable signing identity.
type WalletError struct {
	Err error
}

func (e *WalletError) Error() string {
	if e.Err == nil {
		return "no signing wallet"
	}
	return fmt.Sprintf("wallet: %v", e.Err)
}

func (e *WalletError) Unwrap() error { return e.Err }

func submissionError(step string, err error) *SubmissionError {
	serr := &SubmissionError{Step: step, Err: err}
	var txErr *transaction.Error
	if errors.As(err, &txErr) {
		serr.Signature = txErr.Signature
		serr.Logs = txErr.Logs
	}
	return serr
}

// Kind classifies err. Unknown errors are KindInternal.
func Kind(err error) string {
	var (
		validation *ValidationError
		resolution *ResolutionError
		uploadErr  *UploadError
		submission *SubmissionError
		walletErr  *WalletError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFlowInFlight):
		return KindInFlight
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &walletErr):
		return KindWallet
	case errors.As(err, &resolution):
		return KindResolution
	case errors.As(err, &uploadErr):
		return KindUpload
	case errors.As(err, &submission):
		return KindSubmission
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}

// Logs returns the program logs carried by a submission failure.
func Logs(err error) []string {
	var submission *SubmissionError
	if errors.As(err, &submission) {
		return submission.Logs
	}
	return nil
}

// internal/upload/bundlr/fund.go
package bundlr

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

// SenderFunder pays node deposits with a plain system transfer.
type SenderFunder struct {
	Sender *transaction.Sender
	Signer transaction.Signer
}

func (f *SenderFunder) Transfer(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error) {
	ix := system.NewTransferInstruction(lamports, f.Signer.PublicKey(), to).Build()
	return f.Sender.Send(ctx, f.Signer, []solana.Instruction{ix}, nil)
}

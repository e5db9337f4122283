// internal/transaction/sender.go
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc"
)

// MaxTransactionSize is the wire limit of one transaction packet.
const MaxTransactionSize = 1232

const (
	defaultConfirmTimeout = 60 * time.Second
	signatureLength       = 64
)

// Signer is the wallet a batch is paid and signed by.
type Signer interface {
	PublicKey() solana.PublicKey
	SignTransaction(tx *solana.Transaction, coSigners ...solana.PrivateKey) error
}

// Options configures a Sender.
type Options struct {
	Priority       PriorityConfig
	ConfirmTimeout time.Duration
}

// Sender assembles, signs, submits and confirms one transaction per call.
type Sender struct {
	client   blockchain.Client
	analyzer *solbc.ErrorAnalyzer
	opts     Options
	logger   *zap.Logger
}

func NewSender(client blockchain.Client, opts Options, logger *zap.Logger) *Sender {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaultConfirmTimeout
	}
	return &Sender{
		client:   client,
		analyzer: solbc.NewErrorAnalyzer(logger),
		opts:     opts,
		logger:   logger.Named("sender"),
	}
}

// Send submits instructions as one atomic transaction paid by signer and
// waits for confirmation. It never resends.
func (s *Sender) Send(ctx context.Context, signer Signer, instructions []solana.Instruction, coSigners []solana.PrivateKey) (solana.Signature, error) {
	if len(instructions) == 0 {
		return solana.Signature{}, &Error{Err: errors.New("empty batch")}
	}

	blockhash, err := s.client.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, &Error{Err: fmt.Errorf("failed to get latest blockhash: %w", err)}
	}

	tx, err := s.build(signer.PublicKey(), instructions, blockhash)
	if err != nil {
		return solana.Signature{}, &Error{Err: err}
	}

	if err := signer.SignTransaction(tx, coSigners...); err != nil {
		return solana.Signature{}, &Error{Err: fmt.Errorf("failed to sign transaction: %w", err)}
	}

	sig, err := s.client.SendTransaction(ctx, tx, blockchain.TransactionOptions{})
	if err != nil {
		logs := solbc.ProgramLogs(err)
		if len(logs) > 0 {
			s.logger.Debug("Simulation failed", zap.String("analysis", s.analyzer.FormatErrorAnalysis(s.analyzer.AnalyzeRPCError(err))))
		}
		return solana.Signature{}, &Error{Logs: logs, Err: fmt.Errorf("failed to send transaction: %w", err)}
	}
	s.logger.Info("Transaction sent", zap.String("signature", sig.String()))

	if err := s.confirm(ctx, sig); err != nil {
		return sig, &Error{Signature: sig, Err: err}
	}
	s.logger.Info("Transaction confirmed", zap.String("signature", sig.String()))
	return sig, nil
}

// build assembles the transaction, prepending the compute budget only when
// the result still fits one packet.
func (s *Sender) build(payer solana.PublicKey, instructions []solana.Instruction, blockhash solana.Hash) (*solana.Transaction, error) {
	if budget := s.opts.Priority.Instructions(); len(budget) > 0 {
		withBudget := append(append([]solana.Instruction{}, budget...), instructions...)
		tx, err := solana.NewTransaction(withBudget, blockhash, solana.TransactionPayer(payer))
		if err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}
		size, err := EncodedSize(tx)
		if err != nil {
			return nil, err
		}
		if size <= MaxTransactionSize {
			return tx, nil
		}
		s.logger.Warn("Compute budget dropped, transaction would not fit",
			zap.Int("size", size),
			zap.Int("limit", MaxTransactionSize))
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	size, err := EncodedSize(tx)
	if err != nil {
		return nil, err
	}
	if size > MaxTransactionSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTransactionTooLarge, size, MaxTransactionSize)
	}
	return tx, nil
}

func (s *Sender) confirm(ctx context.Context, sig solana.Signature) error {
	confirmCtx, cancel := context.WithTimeout(ctx, s.opts.ConfirmTimeout)
	defer cancel()

	err := s.client.WaitForConfirmation(confirmCtx, sig)
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && confirmCtx.Err() != nil {
		return fmt.Errorf("%w after %s", ErrConfirmationTimeout, s.opts.ConfirmTimeout)
	}
	return err
}

// EncodedSize returns the wire size of tx once every required signature is present.
func EncodedSize(tx *solana.Transaction) (int, error) {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("failed to encode message: %w", err)
	}
	sigs := int(tx.Message.Header.NumRequiredSignatures)
	return compactU16Len(sigs) + sigs*signatureLength + len(msg), nil
}

func compactU16Len(n int) int {
	switch {
	case n < 0x80:
		return 1
	case n < 0x4000:
		return 2
	default:
		return 3
	}
}

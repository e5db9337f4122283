// internal/launch/token.go
package launch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/programs/metadata"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

// Token batch steps.
const (
	StepCreateMintAccount  = "create-mint-account"
	StepInitializeMint     = "initialize-mint"
	StepCreateTokenAccount = "create-token-account"
	StepMintTo             = "mint-to"
	StepCreateMetadata     = "create-metadata"

	batchToken = "token"
)

// CreateToken uploads the token image and metadata, then mints the full
// supply to the signer and attaches metadata in one transaction.
// Nothing is submitted when an upload fails.
func (s *Service) CreateToken(ctx context.Context, signer transaction.Signer, spec TokenSpec) (result *TokenResult, err error) {
	r, err := s.start(ctx, models.FlowToken, &s.tokenGuard, signer, spec.Validate)
	if err != nil {
		return nil, err
	}
	defer func() { s.finish(ctx, r, result, err) }()

	var imageURL string
	if len(spec.Image) > 0 {
		imageURL, err = s.upload(ctx, r, StageImage, spec.Image, spec.imageContentType())
		if err != nil {
			return nil, err
		}
		r.receipt.ImageURL = imageURL
	}

	doc, err := json.Marshal(NewMetadataDocument(spec, imageURL))
	if err != nil {
		return nil, &UploadError{Stage: StageMetadata, Err: fmt.Errorf("failed to encode metadata: %w", err)}
	}
	metadataURI, err := s.upload(ctx, r, StageMetadata, doc, metadataContentType)
	if err != nil {
		return nil, err
	}
	r.receipt.MetadataURI = metadataURI

	batch, out, err := s.buildTokenBatch(ctx, r.payer, spec, metadataURI)
	if err != nil {
		return nil, err
	}
	out.ImageURL = imageURL
	r.receipt.Address = out.Mint.String()
	r.logger.Info("Token batch built",
		zap.String("mint", out.Mint.String()),
		zap.Int("instructions", len(batch.Steps)))

	out.Signature, err = s.submit(ctx, r, signer, batch)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildTokenBatch generates a fresh mint keypair and assembles the mint batch.
func (s *Service) buildTokenBatch(ctx context.Context, payer solana.PublicKey, spec TokenSpec, metadataURI string) (*Batch, *TokenResult, error) {
	mintKey, err := s.newKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate mint keypair: %w", err)
	}
	mint := mintKey.PublicKey()

	tokenAccount, _, err := solana.FindAssociatedTokenAddress(payer, mint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive token account: %w", err)
	}
	metadataAccount, err := metadata.FindMetadataAddress(mint)
	if err != nil {
		return nil, nil, err
	}
	supply, err := ToRaw(spec.Supply, spec.Decimals)
	if err != nil {
		return nil, nil, &ValidationError{Field: "supply", Reason: err.Error(), Err: err}
	}
	mintRent, err := s.rent(ctx, mintAccountSize)
	if err != nil {
		return nil, nil, err
	}

	createMetadata, err := metadata.NewCreateMetadataAccountV3Instruction(
		metadata.Data{Name: spec.Name, Symbol: spec.Symbol, URI: metadataURI},
		metadata.CreateAccounts{
			Mint:            mint,
			MintAuthority:   payer,
			Payer:           payer,
			UpdateAuthority: payer,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	batch := &Batch{Label: batchToken, Signers: []solana.PrivateKey{mintKey}}
	if err := s.addFee(batch, payer, s.settings.Fees.Token); err != nil {
		return nil, nil, err
	}
	batch.add(StepCreateMintAccount,
		system.NewCreateAccountInstruction(mintRent, mintAccountSize, solana.TokenProgramID, payer, mint).Build())
	batch.add(StepInitializeMint,
		token.NewInitializeMint2Instruction(spec.Decimals, payer, payer, mint).Build())
	batch.add(StepCreateTokenAccount,
		associatedtokenaccount.NewCreateInstruction(payer, payer, mint).Build())
	batch.add(StepMintTo,
		token.NewMintToInstruction(supply, mint, tokenAccount, payer, nil).Build())
	batch.add(StepCreateMetadata, createMetadata)

	return batch, &TokenResult{
		Mint:            mint,
		TokenAccount:    tokenAccount,
		MetadataAccount: metadataAccount,
		MetadataURI:     metadataURI,
	}, nil
}

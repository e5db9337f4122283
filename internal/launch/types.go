// internal/launch/types.go
package launch

import (
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-launchpad/internal/programs/metadata"
)

const (
	maxDecimals             = 9
	defaultImageContentType = "image/png"
	metadataContentType     = "application/json"
)

// SocialLinks are optional project links embedded in the metadata document.
type SocialLinks struct {
	Website  string `json:"website,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Discord  string `json:"discord,omitempty"`
}

func (l SocialLinks) empty() bool {
	return l == SocialLinks{}
}

// TokenSpec describes a fungible token to mint.
type TokenSpec struct {
	Name             string
	Symbol           string
	Description      string
	Decimals         uint8
	Supply           decimal.Decimal
	Image            []byte
	ImageContentType string
	Socials          SocialLinks
}

// Validate checks the token fields before anything is uploaded.
func (s TokenSpec) Validate() error {
	if s.Name == "" || len(s.Name) > metadata.MaxNameLength {
		return invalid("name", "must be 1-%d bytes", metadata.MaxNameLength)
	}
	if s.Symbol == "" || len(s.Symbol) > metadata.MaxSymbolLength {
		return invalid("symbol", "must be 1-%d bytes", metadata.MaxSymbolLength)
	}
	if s.Decimals > maxDecimals {
		return invalid("decimals", "must be between 0 and %d", maxDecimals)
	}
	if _, err := ToRaw(s.Supply, s.Decimals); err != nil {
		return &ValidationError{Field: "supply", Reason: err.Error(), Err: err}
	}
	// Checked in a fixed order so the first bad link is always the one reported.
	links := []struct{ field, link string }{
		{"socials.website", s.Socials.Website},
		{"socials.twitter", s.Socials.Twitter},
		{"socials.telegram", s.Socials.Telegram},
		{"socials.discord", s.Socials.Discord},
	}
	for _, l := range links {
		if l.link == "" {
			continue
		}
		u, err := url.Parse(l.link)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return invalid(l.field, "must be an absolute http(s) URL")
		}
	}
	return nil
}

func (s TokenSpec) imageContentType() string {
	if s.ImageContentType == "" {
		return defaultImageContentType
	}
	return s.ImageContentType
}

// MetadataDocument is the off-chain JSON the metadata account points at.
type MetadataDocument struct {
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Description string       `json:"description"`
	Image       string       `json:"image,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Decimals    uint8        `json:"decimals"`
	Supply      string       `json:"supply"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
}

// NewMetadataDocument builds the document for spec. imageURL may be empty.
func NewMetadataDocument(spec TokenSpec, imageURL string) MetadataDocument {
	doc := MetadataDocument{
		Name:        spec.Name,
		Symbol:      spec.Symbol,
		Description: spec.Description,
		Image:       imageURL,
		ImageURL:    imageURL,
		Decimals:    spec.Decimals,
		Supply:      spec.Supply.String(),
	}
	if !spec.Socials.empty() {
		socials := spec.Socials
		doc.SocialLinks = &socials
	}
	return doc
}

// MarketSpec describes an order book market. Decimals are read from the mints.
type MarketSpec struct {
	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey
	LotSize   decimal.Decimal
	TickSize  decimal.Decimal
}

func (s MarketSpec) Validate() error {
	if s.BaseMint.IsZero() {
		return invalid("base_mint", "is required")
	}
	if s.QuoteMint.IsZero() {
		return invalid("quote_mint", "is required")
	}
	if s.BaseMint.Equals(s.QuoteMint) {
		return invalid("quote_mint", "must differ from base_mint")
	}
	if s.LotSize.Sign() <= 0 {
		return invalid("lot_size", "must be greater than zero")
	}
	if s.TickSize.Sign() <= 0 {
		return invalid("tick_size", "must be greater than zero")
	}
	return nil
}

// PoolSpec describes an AMM pool on an existing market. Amounts are UI units.
type PoolSpec struct {
	MarketID    solana.PublicKey
	BaseAmount  decimal.Decimal
	QuoteAmount decimal.Decimal
	// StartTime is when trading opens. Zero means now.
	StartTime time.Time
}

func (s PoolSpec) Validate() error {
	if s.MarketID.IsZero() {
		return invalid("market_id", "is required")
	}
	if s.BaseAmount.Sign() <= 0 {
		return invalid("base_amount", "must be greater than zero")
	}
	if s.QuoteAmount.Sign() <= 0 {
		return invalid("quote_amount", "must be greater than zero")
	}
	return nil
}

// Step is one labelled instruction of a batch.
type Step struct {
	Label       string
	Instruction solana.Instruction
}

// Batch is an ordered set of steps submitted as one atomic transaction.
type Batch struct {
	Label   string
	Steps   []Step
	Signers []solana.PrivateKey
}

func (b *Batch) add(label string, ix solana.Instruction) {
	b.Steps = append(b.Steps, Step{Label: label, Instruction: ix})
}

// Instructions returns the instructions in submission order.
func (b *Batch) Instructions() []solana.Instruction {
	ixs := make([]solana.Instruction, len(b.Steps))
	for i, step := range b.Steps {
		ixs[i] = step.Instruction
	}
	return ixs
}

// Labels returns the step labels in submission order.
func (b *Batch) Labels() []string {
	labels := make([]string, len(b.Steps))
	for i, step := range b.Steps {
		labels[i] = step.Label
	}
	return labels
}

// TokenResult holds the artifacts of a created token.
type TokenResult struct {
	Signature       solana.Signature `json:"signature"`
	Mint            solana.PublicKey `json:"mint"`
	TokenAccount    solana.PublicKey `json:"token_account"`
	MetadataAccount solana.PublicKey `json:"metadata_account"`
	MetadataURI     string           `json:"metadata_uri"`
	ImageURL        string           `json:"image_url,omitempty"`
}

// MarketResult holds the artifacts of a created market. Signature is the
// market transaction; Signatures lists every transaction in order.
type MarketResult struct {
	Signature    solana.Signature   `json:"signature"`
	Signatures   []solana.Signature `json:"signatures"`
	MarketID     solana.PublicKey   `json:"market_id"`
	BaseVault    solana.PublicKey   `json:"base_vault"`
	QuoteVault   solana.PublicKey   `json:"quote_vault"`
	VaultSigner  solana.PublicKey   `json:"vault_signer"`
	BaseLotSize  uint64             `json:"base_lot_size"`
	QuoteLotSize uint64             `json:"quote_lot_size"`
}

// PoolResult holds the artifacts of a created pool. Amounts are raw units.
type PoolResult struct {
	Signature   solana.Signature `json:"signature"`
	PoolID      solana.PublicKey `json:"pool_id"`
	LPMint      solana.PublicKey `json:"lp_mint"`
	OpenTime    int64            `json:"open_time"`
	BaseAmount  uint64           `json:"base_amount"`
	QuoteAmount uint64           `json:"quote_amount"`
}

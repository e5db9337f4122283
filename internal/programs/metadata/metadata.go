// Package metadata builds instructions for the Metaplex Token Metadata program.
package metadata

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProgramID is the Token Metadata program.
var ProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	createMetadataAccountV3 = 33
)

// Data is the on-chain metadata a mint is created with.
type Data struct {
	Name   string
	Symbol string
	URI    string
	// SellerFeeBasisPoints is 0 for fungible launches.
	SellerFeeBasisPoints uint16
}

// CreateAccounts lists the accounts of CreateMetadataAccountV3.
type CreateAccounts struct {
	Mint            solana.PublicKey
	MintAuthority   solana.PublicKey
	Payer           solana.PublicKey
	UpdateAuthority solana.PublicKey
}

// FindMetadataAddress derives the metadata PDA of mint.
func FindMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), ProgramID.Bytes(), mint.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return addr, nil
}

// NewCreateMetadataAccountV3Instruction builds a mutable metadata account with
// no creators, collection or uses.
func NewCreateMetadataAccountV3Instruction(data Data, accounts CreateAccounts) (solana.Instruction, error) {
	if len(data.Name) > MaxNameLength {
		return nil, fmt.Errorf("name is %d bytes, max %d", len(data.Name), MaxNameLength)
	}
	if len(data.Symbol) > MaxSymbolLength {
		return nil, fmt.Errorf("symbol is %d bytes, max %d", len(data.Symbol), MaxSymbolLength)
	}
	if len(data.URI) > MaxURILength {
		return nil, fmt.Errorf("uri is %d bytes, max %d", len(data.URI), MaxURILength)
	}

	metadataAccount, err := FindMetadataAddress(accounts.Mint)
	if err != nil {
		return nil, err
	}

	buf := []byte{createMetadataAccountV3}
	buf = appendString(buf, data.Name)
	buf = appendString(buf, data.Symbol)
	buf = appendString(buf, data.URI)
	buf = binary.LittleEndian.AppendUint16(buf, data.SellerFeeBasisPoints)
	buf = append(buf,
		0, // creators: None
		0, // collection: None
		0, // uses: None
		1, // is_mutable
		0, // collection_details: None
	)

	insAccounts := []*solana.AccountMeta{
		{PublicKey: metadataAccount, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.MintAuthority, IsSigner: true, IsWritable: false},
		{PublicKey: accounts.Payer, IsSigner: true, IsWritable: true},
		{PublicKey: accounts.UpdateAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(ProgramID, insAccounts, buf), nil
}

// appendString writes a borsh string: u32 LE length then bytes.
func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

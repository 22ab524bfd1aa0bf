package svm

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// CompressedMintParams describes a compressed NFT mint into a pre-existing
// merkle tree. The leaf owner is the requester; the payer and tree delegate
// are the relayer that builds and signs the transaction.
type CompressedMintParams struct {
	Requester  solana.PublicKey
	MerkleTree solana.PublicKey
	Payer      solana.PublicKey
	Name       string
	Symbol     string
	URI        string
}

// BuildCompressedMint assembles the single Bubblegum mint_v1 instruction.
// Compressed assets have no independent on-chain account, so no account
// creation precedes it; the asset id surfaces later in the transaction logs.
func BuildCompressedMint(p CompressedMintParams) (*solana.GenericInstruction, error) {
	treeAuthority, err := DeriveTreeAuthority(p.MerkleTree)
	if err != nil {
		return nil, err
	}

	data := anchorDiscriminator("mint_v1")
	data = append(data, encodeMetadataArgs(p.Requester, p.Name, p.Symbol, p.URI)...)

	return solana.NewInstruction(
		BubblegumProgramID,
		[]*solana.AccountMeta{
			{PublicKey: treeAuthority, IsWritable: true, IsSigner: false},
			{PublicKey: p.Requester, IsWritable: false, IsSigner: false}, // leaf owner
			{PublicKey: p.Requester, IsWritable: false, IsSigner: false}, // leaf delegate
			{PublicKey: p.MerkleTree, IsWritable: true, IsSigner: false},
			{PublicKey: p.Payer, IsWritable: false, IsSigner: true},
			{PublicKey: p.Payer, IsWritable: false, IsSigner: true}, // tree delegate
			{PublicKey: NoopProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: AccountCompressionProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
		},
		data,
	), nil
}

// anchorDiscriminator returns the 8-byte Anchor instruction discriminator:
// sha256("global:<method>")[:8].
func anchorDiscriminator(method string) []byte {
	sum := sha256.Sum256([]byte("global:" + method))
	out := make([]byte, 8, 256)
	copy(out, sum[:8])
	return out
}

// encodeMetadataArgs Borsh-encodes Bubblegum MetadataArgs: inline metadata
// with zero royalty, no collection, and a single unverified creator holding
// the full share.
func encodeMetadataArgs(creator solana.PublicKey, name, symbol, uri string) []byte {
	var data []byte
	data = appendBorshString(data, name)
	data = appendBorshString(data, symbol)
	data = appendBorshString(data, uri)

	sfbp := make([]byte, 2)
	binary.LittleEndian.PutUint16(sfbp, 0) // seller_fee_basis_points
	data = append(data, sfbp...)

	data = append(data, 0)    // primary_sale_happened: false
	data = append(data, 1)    // is_mutable: true
	data = append(data, 0)    // edition_nonce: None
	data = append(data, 1, 0) // token_standard: Some(NonFungible)
	data = append(data, 0)    // collection: None
	data = append(data, 0)    // uses: None
	data = append(data, 0)    // token_program_version: Original

	// creators: vec![{creator, verified: false, share: 100}]
	count := make([]byte, 4)
	binary.LittleEndian.PutUint32(count, 1)
	data = append(data, count...)
	data = append(data, creator.Bytes()...)
	data = append(data, 0)   // verified
	data = append(data, 100) // share

	return data
}

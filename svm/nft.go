package svm

import (
	"context"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	werrors "github.com/solstice-labs/swallet-node/errors"
)

// StandardMintParams describes a 1-of-1 NFT mint with an on-chain metadata
// account and a master edition capped at zero further prints.
type StandardMintParams struct {
	Requester solana.PublicKey
	Seed      string // seed for the deterministically derived mint account
	Name      string
	Symbol    string
	URI       string
}

// RentLookupFunc returns the minimum lamport balance for rent exemption of an
// account of the given size. Injected so assembly stays free of RPC internals.
type RentLookupFunc func(ctx context.Context, dataSize uint64) (uint64, error)

// BuildStandardMint assembles the six-instruction standard NFT mint in fixed
// order: create the seeded mint account, initialize it as a zero-decimal mint,
// create the requester's associated token account, mint exactly one unit,
// create the metadata record, create the master edition. The metadata and
// edition instructions reference PDAs of the mint, so they must stay after
// the first four even inside the same atomic transaction.
//
// Returns the instruction list and the predicted mint address.
func BuildStandardMint(ctx context.Context, p StandardMintParams, rentLookup RentLookupFunc) ([]*solana.GenericInstruction, solana.PublicKey, error) {
	mint, err := DeriveSeededAddress(p.Requester, p.Seed, solana.TokenProgramID)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	rentLamports, err := rentLookup(ctx, MintAccountSize)
	if err != nil {
		return nil, solana.PublicKey{}, werrors.Wrap(err, "failed to look up rent exemption")
	}

	ata, err := DeriveAssociatedTokenAddress(p.Requester, mint, solana.TokenProgramID, solana.SPLAssociatedTokenAccountProgramID)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	metadataPDA, err := DeriveMetadataAddress(mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	editionPDA, err := DeriveMasterEditionAddress(mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	instructions := []*solana.GenericInstruction{
		buildCreateAccountWithSeed(p.Requester, mint, p.Seed, rentLamports, MintAccountSize, solana.TokenProgramID),
		buildInitializeMint2(mint, p.Requester),
		buildCreateATA(p.Requester, ata, p.Requester, mint),
		buildMintTo(mint, ata, p.Requester, 1),
		buildCreateMetadataV3(metadataPDA, mint, p.Requester, p.Name, p.Symbol, p.URI),
		buildCreateMasterEditionV3(editionPDA, metadataPDA, mint, p.Requester),
	}
	return instructions, mint, nil
}

// buildCreateAccountWithSeed encodes a system-program CreateAccountWithSeed.
// Data: [u32 LE index 3][base 32][seed: u64 LE len + bytes][u64 LE lamports]
// [u64 LE space][owner 32].
func buildCreateAccountWithSeed(base, newAccount solana.PublicKey, seed string, lamports, space uint64, owner solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 0, 4+32+8+len(seed)+8+8+32)

	idx := make([]byte, 4)
	binary.LittleEndian.PutUint32(idx, systemInstructionCreateAccountWithSeed)
	data = append(data, idx...)
	data = append(data, base.Bytes()...)

	seedLen := make([]byte, 8)
	binary.LittleEndian.PutUint64(seedLen, uint64(len(seed)))
	data = append(data, seedLen...)
	data = append(data, []byte(seed)...)

	lamportsBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamportsBytes, lamports)
	data = append(data, lamportsBytes...)

	spaceBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(spaceBytes, space)
	data = append(data, spaceBytes...)

	data = append(data, owner.Bytes()...)

	// base doubles as the funding account, so it is the only signer
	return solana.NewInstruction(
		solana.SystemProgramID,
		[]*solana.AccountMeta{
			{PublicKey: base, IsWritable: true, IsSigner: true},
			{PublicKey: newAccount, IsWritable: true, IsSigner: false},
		},
		data,
	)
}

// buildInitializeMint2 encodes an SPL InitializeMint2 for a zero-decimal mint
// with the requester as mint authority and no freeze authority.
// Data: [u8 index 20][u8 decimals][mint_authority 32][u8 freeze option = 0].
func buildInitializeMint2(mint, mintAuthority solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 0, 1+1+32+1)
	data = append(data, tokenInstructionInitializeMint2)
	data = append(data, 0) // zero decimals, NFT semantics
	data = append(data, mintAuthority.Bytes()...)
	data = append(data, 0) // freeze authority: None

	return solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: mint, IsWritable: true, IsSigner: false},
		},
		data,
	)
}

// buildMintTo encodes an SPL MintTo.
// Data: [u8 index 7][u64 LE amount].
func buildMintTo(mint, dest, authority solana.PublicKey, amount uint64) *solana.GenericInstruction {
	data := make([]byte, 9)
	data[0] = tokenInstructionMintTo
	binary.LittleEndian.PutUint64(data[1:9], amount)

	return solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: mint, IsWritable: true, IsSigner: false},
			{PublicKey: dest, IsWritable: true, IsSigner: false},
			{PublicKey: authority, IsWritable: false, IsSigner: true},
		},
		data,
	)
}

// buildCreateMetadataV3 encodes a Token Metadata CreateMetadataAccountV3 with
// zero royalties and a single unverified creator at 100% share.
// Data: [u8 33][DataV2][u8 is_mutable][u8 collection_details option = 0].
func buildCreateMetadataV3(metadataPDA, mint, requester solana.PublicKey, name, symbol, uri string) *solana.GenericInstruction {
	data := []byte{metadataInstructionCreateMetadataAccountV3}
	data = appendBorshString(data, name)
	data = appendBorshString(data, symbol)
	data = appendBorshString(data, uri)

	sfbp := make([]byte, 2)
	binary.LittleEndian.PutUint16(sfbp, 0) // royalty basis points
	data = append(data, sfbp...)

	// creators: Some(vec![{requester, verified: false, share: 100}])
	data = append(data, 1)
	count := make([]byte, 4)
	binary.LittleEndian.PutUint32(count, 1)
	data = append(data, count...)
	data = append(data, requester.Bytes()...)
	data = append(data, 0)   // verified
	data = append(data, 100) // share

	data = append(data, 0) // collection: None
	data = append(data, 0) // uses: None
	data = append(data, 1) // is_mutable
	data = append(data, 0) // collection_details: None

	return solana.NewInstruction(
		TokenMetadataProgramID,
		[]*solana.AccountMeta{
			{PublicKey: metadataPDA, IsWritable: true, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: requester, IsWritable: false, IsSigner: true}, // mint authority
			{PublicKey: requester, IsWritable: true, IsSigner: true},  // payer
			{PublicKey: requester, IsWritable: false, IsSigner: false}, // update authority
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		data,
	)
}

// buildCreateMasterEditionV3 encodes a Token Metadata CreateMasterEditionV3
// with max_supply = Some(0): a true 1-of-1, no further prints.
// Data: [u8 17][u8 max_supply option = 1][u64 LE 0].
func buildCreateMasterEditionV3(editionPDA, metadataPDA, mint, requester solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 10)
	data[0] = metadataInstructionCreateMasterEditionV3
	data[1] = 1 // Some
	// max_supply itself stays zero

	return solana.NewInstruction(
		TokenMetadataProgramID,
		[]*solana.AccountMeta{
			{PublicKey: editionPDA, IsWritable: true, IsSigner: false},
			{PublicKey: mint, IsWritable: true, IsSigner: false},
			{PublicKey: requester, IsWritable: false, IsSigner: true}, // update authority
			{PublicKey: requester, IsWritable: false, IsSigner: true}, // mint authority
			{PublicKey: requester, IsWritable: true, IsSigner: true},  // payer
			{PublicKey: metadataPDA, IsWritable: true, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		data,
	)
}

// appendBorshString appends a Borsh-encoded string: u32 LE length + bytes.
func appendBorshString(data []byte, s string) []byte {
	length := make([]byte, 4)
	binary.LittleEndian.PutUint32(length, uint32(len(s)))
	data = append(data, length...)
	return append(data, []byte(s)...)
}

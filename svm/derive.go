package svm

import (
	"github.com/gagliardetto/solana-go"

	werrors "github.com/solstice-labs/swallet-node/errors"
)

// ParseAddress parses a base58 address string. Malformed input maps to the
// invalid-address cause so callers can fail fast before any network call.
func ParseAddress(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, werrors.Wrapf(werrors.ErrInvalidAddress, "%q", s)
	}
	return pk, nil
}

// DeriveAssociatedTokenAddress computes the associated token account for the
// (owner, mint) pair under the given programs. Pure and deterministic: both
// the client and the relay recompute this independently and must agree.
func DeriveAssociatedTokenAddress(
	owner solana.PublicKey,
	mint solana.PublicKey,
	tokenProgram solana.PublicKey,
	associatedProgram solana.PublicKey,
) (solana.PublicKey, error) {
	seeds := [][]byte{
		owner.Bytes(),
		tokenProgram.Bytes(),
		mint.Bytes(),
	}
	addr, _, err := solana.FindProgramAddress(seeds, associatedProgram)
	if err != nil {
		return solana.PublicKey{}, werrors.Wrap(err, "failed to derive associated token address")
	}
	return addr, nil
}

// DeriveSeededAddress computes the address of an account created with
// CreateAccountWithSeed from a base key, a seed string, and the owning
// program. This lets a mint account's address be known client-side before
// the creating transaction is ever submitted.
func DeriveSeededAddress(base solana.PublicKey, seed string, owningProgram solana.PublicKey) (solana.PublicKey, error) {
	addr, err := solana.CreateWithSeed(base, seed, owningProgram)
	if err != nil {
		return solana.PublicKey{}, werrors.Wrap(err, "failed to derive seeded address")
	}
	return addr, nil
}

// DeriveMetadataAddress derives the Token Metadata PDA for a mint.
// Seeds: ["metadata", metadata_program, mint].
func DeriveMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{
		[]byte("metadata"),
		TokenMetadataProgramID.Bytes(),
		mint.Bytes(),
	}
	addr, _, err := solana.FindProgramAddress(seeds, TokenMetadataProgramID)
	if err != nil {
		return solana.PublicKey{}, werrors.Wrap(err, "failed to derive metadata PDA")
	}
	return addr, nil
}

// DeriveMasterEditionAddress derives the master edition PDA for a mint.
// Seeds: ["metadata", metadata_program, mint, "edition"].
func DeriveMasterEditionAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{
		[]byte("metadata"),
		TokenMetadataProgramID.Bytes(),
		mint.Bytes(),
		[]byte("edition"),
	}
	addr, _, err := solana.FindProgramAddress(seeds, TokenMetadataProgramID)
	if err != nil {
		return solana.PublicKey{}, werrors.Wrap(err, "failed to derive master edition PDA")
	}
	return addr, nil
}

// DeriveTreeAuthority derives the Bubblegum tree authority PDA for a merkle tree.
// Seeds: [merkle_tree].
func DeriveTreeAuthority(merkleTree solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{merkleTree.Bytes()}
	addr, _, err := solana.FindProgramAddress(seeds, BubblegumProgramID)
	if err != nil {
		return solana.PublicKey{}, werrors.Wrap(err, "failed to derive tree authority PDA")
	}
	return addr, nil
}

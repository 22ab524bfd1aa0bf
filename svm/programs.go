package svm

import (
	"github.com/gagliardetto/solana-go"
)

// Well-known program addresses not exported by solana-go.
var (
	// TokenMetadataProgramID is the Metaplex Token Metadata program.
	TokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	// BubblegumProgramID is the Metaplex Bubblegum compressed NFT program.
	BubblegumProgramID = solana.MustPublicKeyFromBase58("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")

	// NoopProgramID is the SPL noop program used as a log wrapper by compression.
	NoopProgramID = solana.MustPublicKeyFromBase58("noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV")

	// AccountCompressionProgramID is the SPL account compression program.
	AccountCompressionProgramID = solana.MustPublicKeyFromBase58("cmtDvXumGCrqC1Age74AVPhSRVXJMd8PJS91L8KbNCK")

	// ComputeBudgetProgramID is the native compute budget program.
	ComputeBudgetProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

	// MemoProgramID is the SPL memo program.
	MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMUWRzHtSCvb6snr")
)

const (
	// MintAccountSize is the byte size of an SPL token mint account.
	MintAccountSize = 82

	// SPL token program instruction indexes used by the assemblers.
	tokenInstructionTransfer        = 3
	tokenInstructionMintTo          = 7
	tokenInstructionInitializeMint2 = 20

	// System program instruction indexes (u32, little-endian).
	systemInstructionCreateAccountWithSeed = 3
	systemInstructionTransfer              = 2

	// Token Metadata program instruction discriminators (Borsh enum index).
	metadataInstructionCreateMetadataAccountV3 = 33
	metadataInstructionCreateMasterEditionV3   = 17

	// Compute budget program instruction types.
	computeBudgetSetUnitLimit = 2
	computeBudgetSetUnitPrice = 3
)

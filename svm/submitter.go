package svm

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
)

// ComputeBudget carries the compute hints attached ahead of a submission.
// Zero values mean "no hint" and emit no instruction.
type ComputeBudget struct {
	UnitLimit uint32 // compute units the transaction may consume
	UnitPrice uint64 // priority fee in micro-lamports per compute unit
}

// SubmitterRPC is the slice of RPC surface the submitter needs.
type SubmitterRPC interface {
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Submitter turns a final instruction list into a relayed transaction. The
// relayer keypair is the fee payer, so the end user never holds SOL for gas.
// Signer accounts that belong to the smart wallet are authorized by the relay
// program on-chain; the submitter only signs with the relayer key.
type Submitter struct {
	rpc     SubmitterRPC
	relayer solana.PrivateKey
	logger  zerolog.Logger
}

// NewSubmitter creates a new Submitter around the relayer keypair.
func NewSubmitter(rpcClient SubmitterRPC, relayer solana.PrivateKey, logger zerolog.Logger) (*Submitter, error) {
	if rpcClient == nil {
		return nil, fmt.Errorf("rpcClient is required")
	}
	if relayer == nil {
		return nil, fmt.Errorf("relayer keypair is required")
	}
	return &Submitter{
		rpc:     rpcClient,
		relayer: relayer,
		logger:  logger.With().Str("component", "svm_submitter").Logger(),
	}, nil
}

// LoadRelayerKeypair loads the relayer keypair from a standard Solana keygen
// file (JSON array of 64 bytes).
func LoadRelayerKeypair(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read relayer key file %s: %w", path, err)
	}
	return key, nil
}

// Relayer returns the relayer's public key.
func (s *Submitter) Relayer() solana.PublicKey {
	return s.relayer.PublicKey()
}

// Submit sends the instruction list as a single transaction. Compute-budget
// instructions go first, then the payload instructions in their assembled
// order, which is preserved exactly.
func (s *Submitter) Submit(ctx context.Context, instructions []*solana.GenericInstruction, budget ComputeBudget) (solana.Signature, error) {
	if len(instructions) == 0 {
		return solana.Signature{}, fmt.Errorf("no instructions to submit")
	}

	final := make([]solana.Instruction, 0, len(instructions)+2)
	if budget.UnitLimit > 0 {
		final = append(final, buildSetComputeUnitLimit(budget.UnitLimit))
	}
	if budget.UnitPrice > 0 {
		final = append(final, buildSetComputeUnitPrice(budget.UnitPrice))
	}
	for _, ix := range instructions {
		final = append(final, ix)
	}

	recentBlockhash, err := s.rpc.GetRecentBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		final,
		recentBlockhash,
		solana.TransactionPayer(s.relayer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.relayer.PublicKey()) {
			privKey := s.relayer
			return &privKey
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := s.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}

	s.logger.Info().
		Str("signature", sig.String()).
		Int("instructions", len(final)).
		Msg("transaction submitted")

	return sig, nil
}

// buildSetComputeUnitLimit encodes a SetComputeUnitLimit instruction.
// Data: [u8 type 2][u32 LE units].
func buildSetComputeUnitLimit(units uint32) *solana.GenericInstruction {
	data := make([]byte, 5)
	data[0] = computeBudgetSetUnitLimit
	binary.LittleEndian.PutUint32(data[1:], units)

	return solana.NewInstruction(ComputeBudgetProgramID, []*solana.AccountMeta{}, data)
}

// buildSetComputeUnitPrice encodes a SetComputeUnitPrice instruction.
// Data: [u8 type 3][u64 LE micro-lamports].
func buildSetComputeUnitPrice(microLamports uint64) *solana.GenericInstruction {
	data := make([]byte, 9)
	data[0] = computeBudgetSetUnitPrice
	binary.LittleEndian.PutUint64(data[1:], microLamports)

	return solana.NewInstruction(ComputeBudgetProgramID, []*solana.AccountMeta{}, data)
}

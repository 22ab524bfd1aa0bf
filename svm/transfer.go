package svm

import (
	"context"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	werrors "github.com/solstice-labs/swallet-node/errors"
)

// TransferRequest describes a SOL or SPL token transfer. A zero Mint means
// the native asset.
type TransferRequest struct {
	Sender    solana.PublicKey
	Recipient solana.PublicKey
	Amount    string // human decimal amount, e.g. "1.5"
	Mint      solana.PublicKey
	Decimals  uint8
}

// Native reports whether the request moves the native asset.
func (r TransferRequest) Native() bool {
	return r.Mint.IsZero()
}

// AccountExistsFunc reports whether the account at the address exists
// on-chain. Injected so assembly stays free of RPC internals.
type AccountExistsFunc func(ctx context.Context, address solana.PublicKey) (bool, error)

// BuildTransfer assembles the ordered instruction list for a transfer.
//
// Native transfers are a single system-program transfer. SPL transfers move
// between the sender's and recipient's associated token accounts; when the
// recipient's account does not exist yet, a creation instruction is placed
// before the transfer. Creation is not deduplicated here: if two callers race
// on the same account, the loser's create fails harmlessly on-chain.
//
// The returned list order is the on-chain execution order.
func BuildTransfer(ctx context.Context, req TransferRequest, accountExists AccountExistsFunc) ([]*solana.GenericInstruction, error) {
	if req.Native() {
		lamports, err := ToBaseUnits(req.Amount, NativeDecimals)
		if err != nil {
			return nil, err
		}
		return []*solana.GenericInstruction{
			buildSystemTransfer(req.Sender, req.Recipient, lamports),
		}, nil
	}

	amount, err := ToBaseUnits(req.Amount, req.Decimals)
	if err != nil {
		return nil, err
	}

	sourceATA, err := DeriveAssociatedTokenAddress(req.Sender, req.Mint, solana.TokenProgramID, solana.SPLAssociatedTokenAccountProgramID)
	if err != nil {
		return nil, err
	}
	destATA, err := DeriveAssociatedTokenAddress(req.Recipient, req.Mint, solana.TokenProgramID, solana.SPLAssociatedTokenAccountProgramID)
	if err != nil {
		return nil, err
	}

	var instructions []*solana.GenericInstruction

	exists, err := accountExists(ctx, destATA)
	if err != nil {
		return nil, werrors.Wrap(err, "failed to check destination token account")
	}
	if !exists {
		instructions = append(instructions, buildCreateATA(req.Sender, destATA, req.Recipient, req.Mint))
	}

	instructions = append(instructions, buildTokenTransfer(sourceATA, destATA, req.Sender, amount))
	return instructions, nil
}

// buildSystemTransfer encodes a system-program lamport transfer.
// Data: [u32 LE instruction index 2][u64 LE lamports].
func buildSystemTransfer(from, to solana.PublicKey, lamports uint64) *solana.GenericInstruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], systemInstructionTransfer)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return solana.NewInstruction(
		solana.SystemProgramID,
		[]*solana.AccountMeta{
			{PublicKey: from, IsWritable: true, IsSigner: true},
			{PublicKey: to, IsWritable: true, IsSigner: false},
		},
		data,
	)
}

// buildCreateATA encodes an associated-token-account creation.
// The ATA program takes no instruction data; everything is in the accounts.
func buildCreateATA(payer, ata, owner, mint solana.PublicKey) *solana.GenericInstruction {
	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		[]byte{},
	)
}

// buildTokenTransfer encodes an SPL token transfer.
// Data: [u8 instruction index 3][u64 LE amount].
func buildTokenTransfer(source, dest, owner solana.PublicKey, amount uint64) *solana.GenericInstruction {
	data := make([]byte, 9)
	data[0] = tokenInstructionTransfer
	binary.LittleEndian.PutUint64(data[1:9], amount)

	return solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: source, IsWritable: true, IsSigner: false},
			{PublicKey: dest, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: true},
		},
		data,
	)
}

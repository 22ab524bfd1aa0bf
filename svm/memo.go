package svm

import (
	"github.com/gagliardetto/solana-go"
)

// BuildMemo encodes a memo-program instruction carrying the given text. The
// memo program takes no required accounts; the data is the raw UTF-8 bytes.
func BuildMemo(memo string) *solana.GenericInstruction {
	return solana.NewInstruction(MemoProgramID, []*solana.AccountMeta{}, []byte(memo))
}

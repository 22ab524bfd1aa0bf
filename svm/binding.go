package svm

import (
	"github.com/gagliardetto/solana-go"
)

// InjectWalletAccount ensures the smart-wallet address appears in every
// instruction's account list, appending it as a non-signer, non-writable
// reference where missing. The relay's program-side validation requires the
// wallet's presence in each instruction to authorize gasless execution;
// omitting it surfaces as an on-chain rejection, not a build-time error.
//
// Idempotent: instructions already carrying the wallet are left untouched,
// so repeated application never duplicates entries. Instruction order is
// preserved.
func InjectWalletAccount(instructions []*solana.GenericInstruction, wallet solana.PublicKey) {
	for _, ix := range instructions {
		if hasAccount(ix, wallet) {
			continue
		}
		ix.AccountValues = append(ix.AccountValues, &solana.AccountMeta{
			PublicKey:  wallet,
			IsWritable: false,
			IsSigner:   false,
		})
	}
}

func hasAccount(ix *solana.GenericInstruction, key solana.PublicKey) bool {
	for _, meta := range ix.AccountValues {
		if meta.PublicKey.Equals(key) {
			return true
		}
	}
	return false
}

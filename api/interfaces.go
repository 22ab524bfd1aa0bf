package api

import (
	"context"

	"github.com/solstice-labs/swallet-node/store"
	"github.com/solstice-labs/swallet-node/wallet"
)

// WalletServiceInterface defines the wallet operations the API server exposes.
type WalletServiceInterface interface {
	Transfer(ctx context.Context, in wallet.TransferInput) (wallet.TransferResult, error)
	MintNFT(ctx context.Context, in wallet.MintInput) (wallet.MintResult, error)
	MintCompressedNFT(ctx context.Context, in wallet.MintInput) (wallet.MintResult, error)
	Checkout(ctx context.Context, in wallet.CheckoutInput) (wallet.TransferResult, error)
	Balance(ctx context.Context, address string) (uint64, error)
}

// ActivityReader lists recently recorded wallet actions.
type ActivityReader interface {
	RecentActions(limit int) ([]store.ActionRecord, error)
}

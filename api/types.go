package api

import "time"

// TransferRequest is the body of POST /api/v1/transfer.
type TransferRequest struct {
	Wallet    string `json:"wallet"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Mint      string `json:"mint,omitempty"`
	Decimals  uint8  `json:"decimals,omitempty"`
}

// MintRequest is the body of POST /api/v1/nft/mint and /api/v1/cnft/mint.
type MintRequest struct {
	Wallet      string `json:"wallet"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol,omitempty"`
	Description string `json:"description,omitempty"`
}

// CheckoutRequest is the body of POST /api/v1/checkout.
type CheckoutRequest struct {
	Wallet   string `json:"wallet"`
	Amount   string `json:"amount"`
	OrderRef string `json:"orderRef"`
}

// ActionResponse is the success response for all submission endpoints.
type ActionResponse struct {
	Signature string `json:"signature"`
	Mint      string `json:"mint,omitempty"`
	AssetID   string `json:"assetId,omitempty"`
}

// ActivityEntry is one row of GET /api/v1/activity.
type ActivityEntry struct {
	Kind         string    `json:"kind"`
	Signature    string    `json:"signature,omitempty"`
	Mint         string    `json:"mint,omitempty"`
	AssetID      string    `json:"assetId,omitempty"`
	Status       string    `json:"status"`
	FailureCause string    `json:"failureCause,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BalanceResponse is the body of GET /api/v1/balance.
type BalanceResponse struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

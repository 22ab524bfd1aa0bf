// Package store contains the GORM-backed SQLite models recording wallet
// activity: transfers, mints, and checkouts, with their final outcome.
package store

import (
	"gorm.io/gorm"
)

// Action kinds.
const (
	ActionTransfer       = "transfer"
	ActionMintNFT        = "mint_nft"
	ActionMintCompressed = "mint_cnft"
	ActionCheckout       = "checkout"
)

// Action statuses.
const (
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// ActionRecord is one submitted wallet action and its outcome.
type ActionRecord struct {
	gorm.Model
	Kind         string `gorm:"index;not null"` // "transfer", "mint_nft", "mint_cnft", "checkout"
	Signature    string `gorm:"index"`          // Transaction signature (empty when submission never reached the chain)
	Mint         string // Mint address for NFT actions
	AssetID      string // Compressed asset id extracted from logs (empty until found)
	Status       string `gorm:"index;not null"` // "confirmed" or "failed"
	FailureCause string // Classified cause when Status is "failed"
	Detail       string `gorm:"type:text"` // Human-readable failure message
}

// TableName specifies the table name for ActionRecord.
func (ActionRecord) TableName() string {
	return "actions"
}

// Package wallet orchestrates user actions against the chain: it derives the
// required addresses, assembles and normalizes the instruction list, submits
// through the relayer with retries, and records the outcome.
package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/solstice-labs/swallet-node/config"
	werrors "github.com/solstice-labs/swallet-node/errors"
	"github.com/solstice-labs/swallet-node/store"
	"github.com/solstice-labs/swallet-node/svm"
)

const (
	maxNameLength        = 32
	maxDescriptionLength = 200

	defaultSymbol = "SWAL"
)

// ChainReader is the read-only RPC surface the service needs.
type ChainReader interface {
	AccountExists(ctx context.Context, address solana.PublicKey) (bool, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)
	GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error)
}

// TxSubmitter signs and relays a finished instruction list.
type TxSubmitter interface {
	Submit(ctx context.Context, instructions []*solana.GenericInstruction, budget svm.ComputeBudget) (solana.Signature, error)
	Relayer() solana.PublicKey
}

// AssetExtractor recovers identifiers surfaced only in transaction logs.
type AssetExtractor interface {
	ExtractLeafAssetID(ctx context.Context, signature solana.Signature) (string, bool, error)
}

// MetadataUploader stores NFT metadata off-chain and returns its URI.
type MetadataUploader interface {
	Upload(ctx context.Context, mintID, name, description string) (string, error)
}

// ActionRecorder persists the outcome of a wallet action.
type ActionRecorder interface {
	RecordAction(record *store.ActionRecord) error
}

// Service executes wallet actions end to end.
type Service struct {
	rpc       ChainReader
	submitter TxSubmitter
	extractor AssetExtractor
	metadata  MetadataUploader
	recorder  ActionRecorder
	network   config.NetworkConfig
	policy    werrors.RetryPolicy
	budget    svm.ComputeBudget
	logger    zerolog.Logger
}

// NewService wires the collaborators together. recorder may be nil when no
// activity log is wanted.
func NewService(
	rpc ChainReader,
	submitter TxSubmitter,
	extractor AssetExtractor,
	metadata MetadataUploader,
	recorder ActionRecorder,
	network config.NetworkConfig,
	policy werrors.RetryPolicy,
	budget svm.ComputeBudget,
	logger zerolog.Logger,
) (*Service, error) {
	if rpc == nil {
		return nil, werrors.New("rpc reader is required")
	}
	if submitter == nil {
		return nil, werrors.New("submitter is required")
	}
	return &Service{
		rpc:       rpc,
		submitter: submitter,
		extractor: extractor,
		metadata:  metadata,
		recorder:  recorder,
		network:   network,
		policy:    policy,
		budget:    budget,
		logger:    logger.With().Str("component", "wallet_service").Logger(),
	}, nil
}

// TransferInput describes a token or native transfer out of the smart wallet.
type TransferInput struct {
	Wallet    string // smart wallet address, also the sender
	Recipient string
	Amount    string // human decimal amount, e.g. "1.5"
	Mint      string // empty means native SOL
	Decimals  uint8
}

// TransferResult carries the confirmed signature.
type TransferResult struct {
	Signature solana.Signature
}

// Transfer moves funds from the smart wallet to the recipient. Validation runs
// before any network call.
func (s *Service) Transfer(ctx context.Context, in TransferInput) (TransferResult, error) {
	walletAddr, err := svm.ParseAddress(in.Wallet)
	if err != nil {
		return TransferResult{}, err
	}
	recipient, err := svm.ParseAddress(in.Recipient)
	if err != nil {
		return TransferResult{}, err
	}

	req := svm.TransferRequest{
		Sender:    walletAddr,
		Recipient: recipient,
		Amount:    in.Amount,
		Decimals:  in.Decimals,
	}
	if in.Mint != "" {
		mint, err := svm.ParseAddress(in.Mint)
		if err != nil {
			return TransferResult{}, err
		}
		req.Mint = mint
	}
	if _, err := svm.ToBaseUnits(in.Amount, transferDecimals(req)); err != nil {
		return TransferResult{}, err
	}

	instructions, err := svm.BuildTransfer(ctx, req, s.rpc.AccountExists)
	if err != nil {
		return TransferResult{}, s.fail(store.ActionTransfer, "transfer", "", err)
	}
	svm.InjectWalletAccount(instructions, walletAddr)

	sig, err := s.submitWithRetry(ctx, "transfer", instructions)
	if err != nil {
		return TransferResult{}, s.fail(store.ActionTransfer, "transfer", "", err)
	}

	s.record(&store.ActionRecord{
		Kind:      store.ActionTransfer,
		Signature: sig.String(),
		Status:    store.StatusConfirmed,
	})
	return TransferResult{Signature: sig}, nil
}

// MintInput describes an NFT mint requested by the smart wallet.
type MintInput struct {
	Wallet      string
	Name        string // ≤ 32 characters
	Symbol      string // optional, defaults applied
	Description string // ≤ 200 characters
}

// MintResult carries the confirmed signature and the derived identifiers.
type MintResult struct {
	Signature solana.Signature
	Mint      solana.PublicKey
	AssetID   string // compressed mints only; empty when the logs never surfaced it
}

// MintNFT mints a standard 1-of-1 NFT owned by the smart wallet. Metadata is
// uploaded to the storage service first, then the six-instruction mint is
// assembled and relayed atomically.
func (s *Service) MintNFT(ctx context.Context, in MintInput) (MintResult, error) {
	walletAddr, err := s.validateMintInput(in)
	if err != nil {
		return MintResult{}, err
	}

	seed := newMintSeed()
	mint, err := svm.DeriveSeededAddress(walletAddr, seed, solana.TokenProgramID)
	if err != nil {
		return MintResult{}, err
	}

	uri, err := s.metadata.Upload(ctx, mint.String(), in.Name, in.Description)
	if err != nil {
		return MintResult{}, s.fail(store.ActionMintNFT, "mint", mint.String(), err)
	}

	instructions, _, err := svm.BuildStandardMint(ctx, svm.StandardMintParams{
		Requester: walletAddr,
		Seed:      seed,
		Name:      in.Name,
		Symbol:    symbolOrDefault(in.Symbol),
		URI:       uri,
	}, s.rpc.GetMinimumBalanceForRentExemption)
	if err != nil {
		return MintResult{}, s.fail(store.ActionMintNFT, "mint", mint.String(), err)
	}
	svm.InjectWalletAccount(instructions, walletAddr)

	sig, err := s.submitWithRetry(ctx, "mint", instructions)
	if err != nil {
		return MintResult{}, s.fail(store.ActionMintNFT, "mint", mint.String(), err)
	}

	s.record(&store.ActionRecord{
		Kind:      store.ActionMintNFT,
		Signature: sig.String(),
		Mint:      mint.String(),
		Status:    store.StatusConfirmed,
	})
	return MintResult{Signature: sig, Mint: mint}, nil
}

// MintCompressedNFT mints a compressed NFT into the configured merkle tree.
// The asset id lives only in the transaction logs, so after confirmation the
// extractor polls for it; a missing id is not a failure.
func (s *Service) MintCompressedNFT(ctx context.Context, in MintInput) (MintResult, error) {
	walletAddr, err := s.validateMintInput(in)
	if err != nil {
		return MintResult{}, err
	}
	merkleTree, err := svm.ParseAddress(s.network.MerkleTree)
	if err != nil {
		return MintResult{}, werrors.Wrap(err, "invalid merkle tree in network config")
	}

	uri, err := s.metadata.Upload(ctx, newMintSeed(), in.Name, in.Description)
	if err != nil {
		return MintResult{}, s.fail(store.ActionMintCompressed, "mint", "", err)
	}

	instruction, err := svm.BuildCompressedMint(svm.CompressedMintParams{
		Requester:  walletAddr,
		MerkleTree: merkleTree,
		Payer:      s.submitter.Relayer(),
		Name:       in.Name,
		Symbol:     symbolOrDefault(in.Symbol),
		URI:        uri,
	})
	if err != nil {
		return MintResult{}, s.fail(store.ActionMintCompressed, "mint", "", err)
	}
	instructions := []*solana.GenericInstruction{instruction}
	svm.InjectWalletAccount(instructions, walletAddr)

	sig, err := s.submitWithRetry(ctx, "mint", instructions)
	if err != nil {
		return MintResult{}, s.fail(store.ActionMintCompressed, "mint", "", err)
	}

	result := MintResult{Signature: sig}
	if s.extractor != nil {
		assetID, found, err := s.extractor.ExtractLeafAssetID(ctx, sig)
		if err != nil {
			// Extraction was cut short, but the signature is still valid
			// proof of the mint. Record the confirmed action first.
			s.record(&store.ActionRecord{
				Kind:      store.ActionMintCompressed,
				Signature: sig.String(),
				Status:    store.StatusConfirmed,
			})
			return result, err
		}
		if found {
			result.AssetID = assetID
		} else {
			s.logger.Warn().
				Str("signature", sig.String()).
				Msg("asset id not found in transaction logs")
		}
	}

	s.record(&store.ActionRecord{
		Kind:      store.ActionMintCompressed,
		Signature: sig.String(),
		AssetID:   result.AssetID,
		Status:    store.StatusConfirmed,
	})
	return result, nil
}

// CheckoutInput describes a store purchase paid from the smart wallet.
type CheckoutInput struct {
	Wallet   string
	Amount   string // human decimal amount in the checkout token
	OrderRef string // opaque order reference recorded on-chain in a memo
}

// Checkout pays the configured merchant in the checkout token and attaches
// the order reference as a memo instruction after the transfer.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (TransferResult, error) {
	walletAddr, err := svm.ParseAddress(in.Wallet)
	if err != nil {
		return TransferResult{}, err
	}
	if in.OrderRef == "" {
		return TransferResult{}, werrors.New("order reference is required")
	}
	merchant, err := svm.ParseAddress(s.network.MerchantAddress)
	if err != nil {
		return TransferResult{}, werrors.Wrap(err, "invalid merchant address in network config")
	}

	req := svm.TransferRequest{
		Sender:    walletAddr,
		Recipient: merchant,
		Amount:    in.Amount,
		Decimals:  s.network.CheckoutDecimals,
	}
	if s.network.CheckoutMint != "" {
		mint, err := svm.ParseAddress(s.network.CheckoutMint)
		if err != nil {
			return TransferResult{}, werrors.Wrap(err, "invalid checkout mint in network config")
		}
		req.Mint = mint
	}
	if _, err := svm.ToBaseUnits(in.Amount, transferDecimals(req)); err != nil {
		return TransferResult{}, err
	}

	instructions, err := svm.BuildTransfer(ctx, req, s.rpc.AccountExists)
	if err != nil {
		return TransferResult{}, s.fail(store.ActionCheckout, "checkout", "", err)
	}
	instructions = append(instructions, svm.BuildMemo(in.OrderRef))
	svm.InjectWalletAccount(instructions, walletAddr)

	sig, err := s.submitWithRetry(ctx, "checkout", instructions)
	if err != nil {
		return TransferResult{}, s.fail(store.ActionCheckout, "checkout", "", err)
	}

	s.record(&store.ActionRecord{
		Kind:      store.ActionCheckout,
		Signature: sig.String(),
		Status:    store.StatusConfirmed,
	})
	return TransferResult{Signature: sig}, nil
}

// Balance returns the native lamport balance of the address.
func (s *Service) Balance(ctx context.Context, address string) (uint64, error) {
	addr, err := svm.ParseAddress(address)
	if err != nil {
		return 0, err
	}
	return s.rpc.GetBalance(ctx, addr)
}

func (s *Service) validateMintInput(in MintInput) (solana.PublicKey, error) {
	if in.Name == "" {
		return solana.PublicKey{}, werrors.NewClassifiedError(werrors.CauseInvalidMetadata, "name is required", nil)
	}
	// Limits are in characters, not bytes.
	if utf8.RuneCountInString(in.Name) > maxNameLength {
		return solana.PublicKey{}, werrors.ErrNameTooLong
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLength {
		return solana.PublicKey{}, werrors.ErrDescTooLong
	}
	return svm.ParseAddress(in.Wallet)
}

// submitWithRetry relays the instruction list, retrying transient failures
// with exponential backoff. The final error is returned as classified.
func (s *Service) submitWithRetry(ctx context.Context, operation string, instructions []*solana.GenericInstruction) (solana.Signature, error) {
	onRetry := func(attempt int, err error) {
		s.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Str("operation", operation).
			Msg("submission failed, retrying")
	}

	sig, err := werrors.WithRetry(ctx, s.policy, onRetry, func(ctx context.Context) (solana.Signature, error) {
		return s.submitter.Submit(ctx, instructions, s.budget)
	})
	if err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

// fail classifies the error, records the outcome, and returns the classified
// error for the caller to surface.
func (s *Service) fail(kind, operation, mint string, err error) error {
	classified := werrors.Classify(err)

	s.logger.Error().
		Err(err).
		Str("operation", operation).
		Str("cause", string(classified.Cause)).
		Msg("wallet action failed")

	s.record(&store.ActionRecord{
		Kind:         kind,
		Mint:         mint,
		Status:       store.StatusFailed,
		FailureCause: string(classified.Cause),
		Detail:       werrors.FormatFailure(operation, classified),
	})
	return classified
}

func (s *Service) record(record *store.ActionRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordAction(record); err != nil {
		s.logger.Error().Err(err).Msg("failed to record action")
	}
}

func transferDecimals(req svm.TransferRequest) uint8 {
	if req.Native() {
		return svm.NativeDecimals
	}
	return req.Decimals
}

func symbolOrDefault(symbol string) string {
	if symbol == "" {
		return defaultSymbol
	}
	return symbol
}

// newMintSeed returns a fresh random seed for seeded mint derivation.
func newMintSeed() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return "mint-" + hex.EncodeToString(b[:])
}

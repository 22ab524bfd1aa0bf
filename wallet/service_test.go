package wallet

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solstice-labs/swallet-node/config"
	werrors "github.com/solstice-labs/swallet-node/errors"
	"github.com/solstice-labs/swallet-node/store"
	"github.com/solstice-labs/swallet-node/svm"
)

type fakeReader struct {
	existsCalls atomic.Int32
	rentCalls   atomic.Int32
	exists      bool
	rent        uint64
	balance     uint64
}

func (f *fakeReader) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	f.existsCalls.Add(1)
	return f.exists, nil
}

func (f *fakeReader) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	f.rentCalls.Add(1)
	return f.rent, nil
}

func (f *fakeReader) GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	return f.balance, nil
}

type fakeSubmitter struct {
	relayer solana.PublicKey
	sig     solana.Signature
	err     error
	calls   int
	got     [][]*solana.GenericInstruction
}

func (f *fakeSubmitter) Submit(ctx context.Context, instructions []*solana.GenericInstruction, budget svm.ComputeBudget) (solana.Signature, error) {
	f.calls++
	f.got = append(f.got, instructions)
	if f.err != nil {
		return solana.Signature{}, f.err
	}
	return f.sig, nil
}

func (f *fakeSubmitter) Relayer() solana.PublicKey {
	return f.relayer
}

type fakeUploader struct {
	uri     string
	err     error
	calls   int
	gotMint string
	gotName string
	gotDesc string
}

func (f *fakeUploader) Upload(ctx context.Context, mintID, name, description string) (string, error) {
	f.calls++
	f.gotMint = mintID
	f.gotName = name
	f.gotDesc = description
	if f.err != nil {
		return "", f.err
	}
	return f.uri, nil
}

type fakeExtractor struct {
	id    string
	found bool
	err   error
}

func (f *fakeExtractor) ExtractLeafAssetID(ctx context.Context, signature solana.Signature) (string, bool, error) {
	return f.id, f.found, f.err
}

type fakeRecorder struct {
	records []*store.ActionRecord
}

func (f *fakeRecorder) RecordAction(record *store.ActionRecord) error {
	f.records = append(f.records, record)
	return nil
}

type harness struct {
	service   *Service
	reader    *fakeReader
	submitter *fakeSubmitter
	uploader  *fakeUploader
	extractor *fakeExtractor
	recorder  *fakeRecorder
	wallet    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	var sig solana.Signature
	sig[0] = 1

	reader := &fakeReader{exists: true, rent: 1461600}
	submitter := &fakeSubmitter{relayer: solana.NewWallet().PublicKey(), sig: sig}
	uploader := &fakeUploader{uri: "https://meta.example.com/1.json"}
	extractor := &fakeExtractor{}
	recorder := &fakeRecorder{}

	network := config.NetworkConfig{
		MerkleTree:       solana.NewWallet().PublicKey().String(),
		MerchantAddress:  solana.NewWallet().PublicKey().String(),
		CheckoutMint:     solana.NewWallet().PublicKey().String(),
		CheckoutDecimals: 6,
	}
	policy := werrors.RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     4 * time.Millisecond,
	}

	service, err := NewService(reader, submitter, extractor, uploader, recorder, network, policy, svm.ComputeBudget{}, zerolog.Nop())
	require.NoError(t, err)

	return &harness{
		service:   service,
		reader:    reader,
		submitter: submitter,
		uploader:  uploader,
		extractor: extractor,
		recorder:  recorder,
		wallet:    solana.NewWallet().PublicKey().String(),
	}
}

func instructionsContainAccount(instructions []*solana.GenericInstruction, key solana.PublicKey) bool {
	for _, ix := range instructions {
		found := false
		for _, meta := range ix.AccountValues {
			if meta.PublicKey.Equals(key) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestTransfer_Native(t *testing.T) {
	h := newHarness(t)

	result, err := h.service.Transfer(context.Background(), TransferInput{
		Wallet:    h.wallet,
		Recipient: solana.NewWallet().PublicKey().String(),
		Amount:    "1.5",
	})
	require.NoError(t, err)
	assert.NotEqual(t, solana.Signature{}, result.Signature)

	require.Len(t, h.submitter.got, 1)
	instructions := h.submitter.got[0]
	require.Len(t, instructions, 1)

	walletKey := solana.MustPublicKeyFromBase58(h.wallet)
	assert.True(t, instructionsContainAccount(instructions, walletKey))

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, store.ActionTransfer, h.recorder.records[0].Kind)
	assert.Equal(t, store.StatusConfirmed, h.recorder.records[0].Status)
}

func TestTransfer_InvalidRecipientFailsBeforeNetwork(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Transfer(context.Background(), TransferInput{
		Wallet:    h.wallet,
		Recipient: "not-an-address",
		Amount:    "1",
	})
	require.Error(t, err)
	assert.True(t, werrors.IsCause(err, werrors.CauseInvalidAddress))
	assert.Zero(t, h.reader.existsCalls.Load())
	assert.Zero(t, h.submitter.calls)
}

func TestTransfer_ZeroAmountFailsBeforeNetwork(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Transfer(context.Background(), TransferInput{
		Wallet:    h.wallet,
		Recipient: solana.NewWallet().PublicKey().String(),
		Amount:    "0",
	})
	require.Error(t, err)
	assert.Zero(t, h.reader.existsCalls.Load())
	assert.Zero(t, h.submitter.calls)
}

func TestTransfer_RetriesThenClassifies(t *testing.T) {
	h := newHarness(t)
	h.submitter.err = werrors.New("Blockhash not found")

	_, err := h.service.Transfer(context.Background(), TransferInput{
		Wallet:    h.wallet,
		Recipient: solana.NewWallet().PublicKey().String(),
		Amount:    "1",
	})
	require.Error(t, err)
	assert.Equal(t, 3, h.submitter.calls)
	assert.True(t, werrors.IsCause(err, werrors.CauseBlockhashExpired))

	require.Len(t, h.recorder.records, 1)
	record := h.recorder.records[0]
	assert.Equal(t, store.StatusFailed, record.Status)
	assert.Equal(t, string(werrors.CauseBlockhashExpired), record.FailureCause)
	assert.Contains(t, record.Detail, "transfer failed:")
}

func TestMintNFT_NameTooLongFailsBeforeAnyCall(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.MintNFT(context.Background(), MintInput{
		Wallet: h.wallet,
		Name:   "012345678901234567890123456789012", // 33 chars
	})
	require.ErrorIs(t, err, werrors.ErrNameTooLong)
	assert.Zero(t, h.uploader.calls)
	assert.Zero(t, h.reader.rentCalls.Load())
	assert.Zero(t, h.submitter.calls)
}

func TestMintNFT_NameLimitCountsCharactersNotBytes(t *testing.T) {
	h := newHarness(t)

	// 20 characters, 60 bytes.
	_, err := h.service.MintNFT(context.Background(), MintInput{
		Wallet: h.wallet,
		Name:   strings.Repeat("桜", 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, h.submitter.calls)

	// 33 characters is still over the limit.
	_, err = h.service.MintNFT(context.Background(), MintInput{
		Wallet: h.wallet,
		Name:   strings.Repeat("桜", 33),
	})
	require.ErrorIs(t, err, werrors.ErrNameTooLong)
}

func TestMintNFT_DescriptionTooLongFailsBeforeAnyCall(t *testing.T) {
	h := newHarness(t)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	_, err := h.service.MintNFT(context.Background(), MintInput{
		Wallet:      h.wallet,
		Name:        "ok",
		Description: string(long),
	})
	require.ErrorIs(t, err, werrors.ErrDescTooLong)
	assert.Zero(t, h.uploader.calls)
	assert.Zero(t, h.submitter.calls)
}

func TestMintNFT_Success(t *testing.T) {
	h := newHarness(t)

	result, err := h.service.MintNFT(context.Background(), MintInput{
		Wallet:      h.wallet,
		Name:        "My NFT",
		Description: "first mint",
	})
	require.NoError(t, err)
	assert.False(t, result.Mint.IsZero())

	assert.Equal(t, 1, h.uploader.calls)
	assert.Equal(t, result.Mint.String(), h.uploader.gotMint)
	assert.Equal(t, "My NFT", h.uploader.gotName)

	require.Len(t, h.submitter.got, 1)
	assert.Len(t, h.submitter.got[0], 6)

	walletKey := solana.MustPublicKeyFromBase58(h.wallet)
	assert.True(t, instructionsContainAccount(h.submitter.got[0], walletKey))

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, store.ActionMintNFT, h.recorder.records[0].Kind)
	assert.Equal(t, result.Mint.String(), h.recorder.records[0].Mint)
}

func TestMintNFT_UploadFailureIsHard(t *testing.T) {
	h := newHarness(t)
	h.uploader.err = werrors.New("metadata upload failed with status 500")

	_, err := h.service.MintNFT(context.Background(), MintInput{
		Wallet: h.wallet,
		Name:   "My NFT",
	})
	require.Error(t, err)
	assert.Zero(t, h.submitter.calls)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, store.StatusFailed, h.recorder.records[0].Status)
}

func TestMintCompressedNFT_ExtractsAssetID(t *testing.T) {
	h := newHarness(t)
	h.extractor.id = "7dHcy3Mn3rkFt1TYtsBFRWXPjnUo3rmMbMwPwaNyvGqf"
	h.extractor.found = true

	result, err := h.service.MintCompressedNFT(context.Background(), MintInput{
		Wallet: h.wallet,
		Name:   "Leafy",
	})
	require.NoError(t, err)
	assert.Equal(t, h.extractor.id, result.AssetID)

	require.Len(t, h.submitter.got, 1)
	assert.Len(t, h.submitter.got[0], 1)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, store.ActionMintCompressed, h.recorder.records[0].Kind)
	assert.Equal(t, h.extractor.id, h.recorder.records[0].AssetID)
}

func TestMintCompressedNFT_ExtractionCutShortStillRecordsConfirmed(t *testing.T) {
	h := newHarness(t)
	h.extractor.err = context.Canceled

	_, err := h.service.MintCompressedNFT(context.Background(), MintInput{
		Wallet: h.wallet,
		Name:   "Leafy",
	})
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, h.recorder.records, 1)
	record := h.recorder.records[0]
	assert.Equal(t, store.ActionMintCompressed, record.Kind)
	assert.Equal(t, store.StatusConfirmed, record.Status)
	assert.NotEmpty(t, record.Signature)
	assert.Empty(t, record.AssetID)
}

func TestMintCompressedNFT_MissingAssetIDIsNotAFailure(t *testing.T) {
	h := newHarness(t)
	h.extractor.found = false

	result, err := h.service.MintCompressedNFT(context.Background(), MintInput{
		Wallet: h.wallet,
		Name:   "Leafy",
	})
	require.NoError(t, err)
	assert.Empty(t, result.AssetID)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, store.StatusConfirmed, h.recorder.records[0].Status)
}

func TestCheckout_AppendsMemoWithOrderRef(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Checkout(context.Background(), CheckoutInput{
		Wallet:   h.wallet,
		Amount:   "9.99",
		OrderRef: "order-1234",
	})
	require.NoError(t, err)

	require.Len(t, h.submitter.got, 1)
	instructions := h.submitter.got[0]
	require.NotEmpty(t, instructions)

	memo := instructions[len(instructions)-1]
	assert.Equal(t, svm.MemoProgramID, memo.ProgID)
	assert.Equal(t, []byte("order-1234"), []byte(memo.DataBytes))

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, store.ActionCheckout, h.recorder.records[0].Kind)
}

func TestBalance(t *testing.T) {
	h := newHarness(t)
	h.reader.balance = 5_000_000_000

	balance, err := h.service.Balance(context.Background(), h.wallet)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000_000), balance)

	_, err = h.service.Balance(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, werrors.IsCause(err, werrors.CauseInvalidAddress))
}

func TestCheckout_RequiresOrderRef(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Checkout(context.Background(), CheckoutInput{
		Wallet: h.wallet,
		Amount: "1",
	})
	require.Error(t, err)
	assert.Zero(t, h.submitter.calls)
}

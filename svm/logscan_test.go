package svm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	results []*rpc.GetTransactionResult
	errs    []error
	calls   int
}

func (f *fakeFetcher) GetTransaction(ctx context.Context, signature solana.Signature) (*rpc.GetTransactionResult, error) {
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i], f.errs[i]
}

func newTestExtractor(fetcher TransactionFetcher) *ResultExtractor {
	return &ResultExtractor{
		rpc:          fetcher,
		settleDelay:  time.Millisecond,
		pollInterval: time.Millisecond,
		maxPolls:     3,
		logger:       zerolog.Nop(),
	}
}

func txWithLogs(logs ...string) *rpc.GetTransactionResult {
	return &rpc.GetTransactionResult{
		Meta: &rpc.TransactionMeta{LogMessages: logs},
	}
}

func TestExtractLeafAssetID_Found(t *testing.T) {
	assetID := solana.NewWallet().PublicKey().String()
	fetcher := &fakeFetcher{
		results: []*rpc.GetTransactionResult{txWithLogs(
			"Program BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY invoke [1]",
			fmt.Sprintf("Program log: Leaf asset ID: %s", assetID),
			"Program BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY success",
		)},
		errs: []error{nil},
	}

	id, found, err := newTestExtractor(fetcher).ExtractLeafAssetID(context.Background(), solana.Signature{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, assetID, id)
}

func TestExtractLeafAssetID_FirstMatchWins(t *testing.T) {
	first := solana.NewWallet().PublicKey().String()
	second := solana.NewWallet().PublicKey().String()
	fetcher := &fakeFetcher{
		results: []*rpc.GetTransactionResult{txWithLogs(
			"Program log: Leaf asset ID: "+first,
			"Program log: Leaf asset ID: "+second,
		)},
		errs: []error{nil},
	}

	id, found, err := newTestExtractor(fetcher).ExtractLeafAssetID(context.Background(), solana.Signature{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first, id)
}

func TestExtractLeafAssetID_NoMarkerIsSentinelNotError(t *testing.T) {
	fetcher := &fakeFetcher{
		results: []*rpc.GetTransactionResult{txWithLogs(
			"Program 11111111111111111111111111111111 invoke [1]",
			"Program 11111111111111111111111111111111 success",
		)},
		errs: []error{nil},
	}

	id, found, err := newTestExtractor(fetcher).ExtractLeafAssetID(context.Background(), solana.Signature{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, id)
}

func TestExtractLeafAssetID_PollsUntilAvailable(t *testing.T) {
	assetID := solana.NewWallet().PublicKey().String()
	fetcher := &fakeFetcher{
		results: []*rpc.GetTransactionResult{
			nil,
			nil,
			txWithLogs("Program log: Leaf asset ID: " + assetID),
		},
		errs: []error{errors.New("not found"), errors.New("not found"), nil},
	}

	id, found, err := newTestExtractor(fetcher).ExtractLeafAssetID(context.Background(), solana.Signature{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, assetID, id)
	assert.Equal(t, 3, fetcher.calls)
}

func TestExtractLeafAssetID_GivesUpSilently(t *testing.T) {
	fetcher := &fakeFetcher{
		results: []*rpc.GetTransactionResult{nil},
		errs:    []error{errors.New("not found")},
	}

	id, found, err := newTestExtractor(fetcher).ExtractLeafAssetID(context.Background(), solana.Signature{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, id)
}

func TestExtractLeafAssetID_IgnoresInvalidCapture(t *testing.T) {
	// Matches the pattern shape but is not a 32-byte address.
	fetcher := &fakeFetcher{
		results: []*rpc.GetTransactionResult{txWithLogs(
			"Program log: Leaf asset ID: abc",
		)},
		errs: []error{nil},
	}

	_, found, err := newTestExtractor(fetcher).ExtractLeafAssetID(context.Background(), solana.Signature{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExtractLeafAssetID_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{
		results: []*rpc.GetTransactionResult{nil},
		errs:    []error{errors.New("not found")},
	}

	_, _, err := newTestExtractor(fetcher).ExtractLeafAssetID(ctx, solana.Signature{})
	require.ErrorIs(t, err, context.Canceled)
}

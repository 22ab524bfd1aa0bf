package svm

import (
	"context"
	"regexp"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"
)

// leafAssetIDPattern matches the Bubblegum log line announcing the asset id
// of a freshly minted compressed NFT.
var leafAssetIDPattern = regexp.MustCompile(`Leaf asset ID:\s*([1-9A-HJ-NP-Za-km-z]+)`)

// TransactionFetcher is the slice of RPC surface the extractor needs.
type TransactionFetcher interface {
	GetTransaction(ctx context.Context, signature solana.Signature) (*rpc.GetTransactionResult, error)
}

// ResultExtractor recovers out-of-band identifiers from a confirmed
// transaction's logs. Log availability lags confirmation, so extraction
// waits a short settle delay before polling.
type ResultExtractor struct {
	rpc          TransactionFetcher
	settleDelay  time.Duration
	pollInterval time.Duration
	maxPolls     int
	logger       zerolog.Logger
}

// NewResultExtractor creates an extractor with production polling defaults.
func NewResultExtractor(rpcClient TransactionFetcher, logger zerolog.Logger) *ResultExtractor {
	return &ResultExtractor{
		rpc:          rpcClient,
		settleDelay:  3 * time.Second,
		pollInterval: 2 * time.Second,
		maxPolls:     5,
		logger:       logger.With().Str("component", "svm_result_extractor").Logger(),
	}
}

// ExtractLeafAssetID scans the transaction's log lines, in order, for the
// first "Leaf asset ID" marker and returns the captured identifier.
//
// found=false is a non-fatal sentinel, not an error: the logs may be
// unavailable, the program may have changed its logging format, or the mint
// may have gone through a different program. The signature itself remains
// valid proof of the mint either way. The only returned error is context
// cancellation.
func (e *ResultExtractor) ExtractLeafAssetID(ctx context.Context, signature solana.Signature) (string, bool, error) {
	if err := e.wait(ctx, e.settleDelay); err != nil {
		return "", false, err
	}

	for poll := 0; poll < e.maxPolls; poll++ {
		tx, err := e.rpc.GetTransaction(ctx, signature)
		if err == nil && tx != nil && tx.Meta != nil {
			id := e.scanLogs(tx.Meta.LogMessages)
			return id, id != "", nil
		}
		if err != nil {
			e.logger.Debug().
				Err(err).
				Str("signature", signature.String()).
				Msg("transaction not yet available")
		}

		if err := e.wait(ctx, e.pollInterval); err != nil {
			return "", false, err
		}
	}

	e.logger.Warn().
		Str("signature", signature.String()).
		Msg("gave up waiting for transaction logs")
	return "", false, nil
}

// scanLogs returns the first valid asset id found in the log lines.
func (e *ResultExtractor) scanLogs(logs []string) string {
	for _, line := range logs {
		m := leafAssetIDPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// The capture must be a real 32-byte address, not a lookalike.
		raw, err := base58.Decode(m[1])
		if err != nil || len(raw) != 32 {
			continue
		}
		return m[1]
	}
	return ""
}

func (e *ResultExtractor) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

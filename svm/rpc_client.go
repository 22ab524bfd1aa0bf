package svm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/solstice-labs/swallet-node/rpcpool"
)

// RPCClient provides the RPC operations the transaction flows need, with
// round-robin failover across the configured endpoints. Clients come from a
// caller-owned pool so handles are dialed once per URL.
type RPCClient struct {
	clients []*rpc.Client
	index   uint64
	mu      sync.RWMutex
	logger  zerolog.Logger
}

// NewRPCClient creates a new RPC client over the given endpoint URLs.
func NewRPCClient(rpcURLs []string, pool *rpcpool.Pool, logger zerolog.Logger) (*RPCClient, error) {
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("no RPC URLs provided")
	}

	log := logger.With().Str("component", "svm_rpc_client").Logger()
	clients := make([]*rpc.Client, 0, len(rpcURLs))
	for _, url := range rpcURLs {
		clients = append(clients, pool.Get(url))
	}

	return &RPCClient{
		clients: clients,
		logger:  log,
	}, nil
}

// executeWithFailover executes a function with round-robin failover
func (rc *RPCClient) executeWithFailover(ctx context.Context, operation string, fn func(*rpc.Client) error) error {
	rc.mu.RLock()
	clients := rc.clients
	rc.mu.RUnlock()

	if len(clients) == 0 {
		return fmt.Errorf("no RPC clients available for %s", operation)
	}

	var lastErr error
	maxAttempts := len(clients)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		index := atomic.AddUint64(&rc.index, 1) - 1
		client := clients[index%uint64(len(clients))]

		err := fn(client)
		if err == nil {
			return nil
		}
		lastErr = err

		rc.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Err(err).
			Msg("operation failed, trying next endpoint")
	}

	return lastErr
}

// AccountExists reports whether an account exists at the address.
func (rc *RPCClient) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	var exists bool
	err := rc.executeWithFailover(ctx, "get_account_info", func(client *rpc.Client) error {
		out, innerErr := client.GetAccountInfo(ctx, address)
		if innerErr == rpc.ErrNotFound {
			exists = false
			return nil
		}
		if innerErr != nil {
			return innerErr
		}
		exists = out != nil && out.Value != nil
		return nil
	})
	return exists, err
}

// GetMinimumBalanceForRentExemption returns the lamports required to make an
// account of the given size rent exempt.
func (rc *RPCClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	var lamports uint64
	err := rc.executeWithFailover(ctx, "get_minimum_balance_for_rent_exemption", func(client *rpc.Client) error {
		var innerErr error
		lamports, innerErr = client.GetMinimumBalanceForRentExemption(ctx, dataSize, rpc.CommitmentFinalized)
		return innerErr
	})
	return lamports, err
}

// GetRecentBlockhash gets a recent blockhash for transaction building
func (rc *RPCClient) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	var blockhash solana.Hash
	err := rc.executeWithFailover(ctx, "get_recent_blockhash", func(client *rpc.Client) error {
		resp, innerErr := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if innerErr != nil {
			return innerErr
		}
		blockhash = resp.Value.Blockhash
		return nil
	})
	return blockhash, err
}

// SendTransaction broadcasts a signed transaction and returns its signature.
func (rc *RPCClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	var sig solana.Signature
	err := rc.executeWithFailover(ctx, "send_transaction", func(client *rpc.Client) error {
		var innerErr error
		sig, innerErr = client.SendTransactionWithOpts(
			ctx,
			tx,
			rpc.TransactionOpts{
				SkipPreflight:       false,
				PreflightCommitment: rpc.CommitmentConfirmed,
			},
		)
		return innerErr
	})
	if err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

// GetTransaction gets a confirmed transaction by signature
func (rc *RPCClient) GetTransaction(ctx context.Context, signature solana.Signature) (*rpc.GetTransactionResult, error) {
	var tx *rpc.GetTransactionResult
	err := rc.executeWithFailover(ctx, "get_transaction", func(client *rpc.Client) error {
		var innerErr error
		maxVersion := uint64(0)
		tx, innerErr = client.GetTransaction(
			ctx,
			signature,
			&rpc.GetTransactionOpts{
				Encoding:                       solana.EncodingBase64,
				MaxSupportedTransactionVersion: &maxVersion,
				Commitment:                     rpc.CommitmentConfirmed,
			},
		)
		return innerErr
	})
	return tx, err
}

// GetBalance returns the lamport balance of an account.
func (rc *RPCClient) GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	var lamports uint64
	err := rc.executeWithFailover(ctx, "get_balance", func(client *rpc.Client) error {
		out, innerErr := client.GetBalance(ctx, address, rpc.CommitmentFinalized)
		if innerErr != nil {
			return innerErr
		}
		lamports = out.Value
		return nil
	})
	return lamports, err
}

// Close releases the client list. Pooled handles stay owned by the pool.
func (rc *RPCClient) Close() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.clients = nil
}

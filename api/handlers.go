package api

import (
	"encoding/json"
	"net/http"

	werrors "github.com/solstice-labs/swallet-node/errors"
	"github.com/solstice-labs/swallet-node/wallet"
)

const activityLimit = 50

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleActivity handles GET /api/v1/activity
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.activity == nil {
		writeError(w, http.StatusServiceUnavailable, "activity log not enabled")
		return
	}

	records, err := s.activity.RecentActions(activityLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := make([]ActivityEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, ActivityEntry{
			Kind:         rec.Kind,
			Signature:    rec.Signature,
			Mint:         rec.Mint,
			AssetID:      rec.AssetID,
			Status:       rec.Status,
			FailureCause: rec.FailureCause,
			Detail:       rec.Detail,
			CreatedAt:    rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, entries)
}

// handleBalance handles GET /api/v1/balance?address=<address>
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	balance, err := s.service.Balance(r.Context(), address)
	if err != nil {
		writeActionError(w, "balance", err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{Address: address, Lamports: balance})
}

// handleTransfer handles POST /api/v1/transfer
func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if !decodePost(w, r, &req) {
		return
	}

	result, err := s.service.Transfer(r.Context(), walletTransferInput(req))
	if err != nil {
		writeActionError(w, "transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{Signature: result.Signature.String()})
}

// handleMintNFT handles POST /api/v1/nft/mint
func (s *Server) handleMintNFT(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if !decodePost(w, r, &req) {
		return
	}

	result, err := s.service.MintNFT(r.Context(), walletMintInput(req))
	if err != nil {
		writeActionError(w, "mint", err)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{
		Signature: result.Signature.String(),
		Mint:      result.Mint.String(),
	})
}

// handleMintCompressedNFT handles POST /api/v1/cnft/mint
func (s *Server) handleMintCompressedNFT(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if !decodePost(w, r, &req) {
		return
	}

	result, err := s.service.MintCompressedNFT(r.Context(), walletMintInput(req))
	if err != nil {
		writeActionError(w, "mint", err)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{
		Signature: result.Signature.String(),
		AssetID:   result.AssetID,
	})
}

// handleCheckout handles POST /api/v1/checkout
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodePost(w, r, &req) {
		return
	}

	result, err := s.service.Checkout(r.Context(), walletCheckoutInput(req))
	if err != nil {
		writeActionError(w, "checkout", err)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{Signature: result.Signature.String()})
}

func walletTransferInput(req TransferRequest) wallet.TransferInput {
	return wallet.TransferInput{
		Wallet:    req.Wallet,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Mint:      req.Mint,
		Decimals:  req.Decimals,
	}
}

func walletMintInput(req MintRequest) wallet.MintInput {
	return wallet.MintInput{
		Wallet:      req.Wallet,
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
	}
}

func walletCheckoutInput(req CheckoutRequest) wallet.CheckoutInput {
	return wallet.CheckoutInput{
		Wallet:   req.Wallet,
		Amount:   req.Amount,
		OrderRef: req.OrderRef,
	}
}

func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeActionError maps a classified failure onto the HTTP response. User
// input problems are 400s; everything else surfaces as 502 because the chain,
// not this server, rejected the action. The body carries the single
// "{operation} failed: {message}" string the UI renders verbatim.
func writeActionError(w http.ResponseWriter, operation string, err error) {
	classified := werrors.Classify(err)

	status := http.StatusBadGateway
	switch classified.Cause {
	case werrors.CauseInvalidAddress, werrors.CauseInvalidAmount, werrors.CauseInvalidMetadata:
		status = http.StatusBadRequest
	}

	writeError(w, status, werrors.FormatFailure(operation, classified))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

package api

import "net/http"

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", s.handleHealth)

	// API v1 endpoints
	mux.HandleFunc("/api/v1/activity", s.handleActivity)
	mux.HandleFunc("/api/v1/balance", s.handleBalance)
	mux.HandleFunc("/api/v1/transfer", s.handleTransfer)
	mux.HandleFunc("/api/v1/nft/mint", s.handleMintNFT)
	mux.HandleFunc("/api/v1/cnft/mint", s.handleMintCompressedNFT)
	mux.HandleFunc("/api/v1/checkout", s.handleCheckout)

	return mux
}

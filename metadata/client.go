// Package metadata talks to the off-chain metadata-storage service that hosts
// the JSON documents referenced by minted NFTs.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 1 * 1024 * 1024
)

// Client uploads NFT metadata and returns the hosted URI.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a metadata client for the given service base URL.
func NewClient(baseURL string, logger zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("metadata service URL is required")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With().Str("component", "metadata_client").Logger(),
	}, nil
}

type uploadRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type uploadResponse struct {
	MetadataURI string `json:"metadataUri"`
}

// Upload stores {name, description} under the mint id and returns the URI of
// the hosted metadata document. Any non-2xx response is a hard failure.
func (c *Client) Upload(ctx context.Context, mintID, name, description string) (string, error) {
	if mintID == "" {
		return "", fmt.Errorf("mint id is required")
	}

	bodyBytes, err := json.Marshal(uploadRequest{Name: name, Description: description})
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata request: %w", err)
	}

	url := fmt.Sprintf("%s/metadata/%s", c.baseURL, mintID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("metadata upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read metadata response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("metadata upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal metadata response: %w", err)
	}
	if parsed.MetadataURI == "" {
		return "", fmt.Errorf("metadata service returned an empty uri")
	}

	c.logger.Debug().
		Str("mint", mintID).
		Str("uri", parsed.MetadataURI).
		Msg("metadata uploaded")

	return parsed.MetadataURI, nil
}

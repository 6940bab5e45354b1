package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wikidump/internal/config"
)

type httpEmbedder struct {
	cfg    config.EmbeddingConfig
	client *http.Client
}

// NewHTTP builds an Embedder over the endpoint described by cfg.
func NewHTTP(cfg config.EmbeddingConfig) Embedder {
	return &httpEmbedder{cfg: cfg, client: http.DefaultClient}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *httpEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("embedder: no inputs")
	}

	body, err := json.Marshal(embedRequest{Model: e.cfg.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embedder: marshal request: %w", err)
	}

	timeout := time.Duration(e.cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodPost, e.cfg.BaseURL+e.cfg.Path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedder: build request: %w", err)
	}
	if e.cfg.APIHeader == "Authorization" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	} else if e.cfg.APIHeader != "" {
		req.Header.Set(e.cfg.APIHeader, e.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedder: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("embedder: read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("embedder: endpoint returned %s: %s", resp.Status, string(respBody))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("embedder: parse response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedder: got %d embeddings, want %d", len(parsed.Data), len(texts))
	}

	out := make([][]float32, len(parsed.Data))
	for i := range parsed.Data {
		out[i] = parsed.Data[i].Embedding
	}
	return out, nil
}

func (e *httpEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Ping sends a minimal embed request to verify the endpoint is reachable,
// used by BatchWriter before each retry.
func (e *httpEmbedder) Ping(ctx context.Context) error {
	if _, err := e.EmbedDocuments(ctx, []string{"ping"}); err != nil {
		return fmt.Errorf("embedder: reachability check failed: %w", err)
	}
	return nil
}

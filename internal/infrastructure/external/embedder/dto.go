// Package embedder implements the embedding gateway API client.
// The gateway turns free text into 768-dimensional vectors used for
// semantic search over courses, discussions and replies.
package embedder

import (
	"fmt"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / RESPONSE DTOs
// ══════════════════════════════════════════════════════════════════════════════

// EmbedRequestDTO is the request body for the embeddings endpoint.
type EmbedRequestDTO struct {
	// Model is the embedding model identifier.
	Model string `json:"model"`

	// Input is the batch of texts to embed. Order is preserved in the response.
	Input []string `json:"input"`
}

// EmbedResponseDTO is the response body of the embeddings endpoint.
type EmbedResponseDTO struct {
	Model string           `json:"model"`
	Data  []EmbeddingDTO   `json:"data"`
	Usage EmbedUsageDTO    `json:"usage"`
	Error *GatewayErrorDTO `json:"error,omitempty"`
}

// EmbeddingDTO is one vector in the response, positionally matched to Input.
type EmbeddingDTO struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// EmbedUsageDTO reports token accounting for the request.
type EmbedUsageDTO struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// GatewayErrorDTO is the error payload the gateway returns on failures.
type GatewayErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *GatewayErrorDTO) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("embedding gateway: %s: %s", e.Code, e.Message)
	}
	return "embedding gateway: " + e.Message
}

// Vector validates the dimensionality and converts to the domain type.
func (d EmbeddingDTO) Vector() (shared.Embedding, error) {
	return shared.NewEmbedding(d.Embedding)
}

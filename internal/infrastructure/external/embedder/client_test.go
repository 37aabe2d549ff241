package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

func testVector(seed float32) []float32 {
	v := make([]float32, shared.EmbeddingDim)
	v[0] = seed
	return v
}

func testClientConfig(baseURL string) ClientConfig {
	config := DefaultClientConfig(baseURL)
	config.RateLimiterConfig = RateLimiterConfig{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		MinInterval:       0,
		WaitTimeout:       time.Second,
		RetryAfter:        time.Second,
	}
	config.RetryConfig.MaxRetries = 0
	return config
}

func TestEmbedResponseDTO_Parsing(t *testing.T) {
	jsonData := `{
    "model": "text-embedding-768",
    "data": [
        {"index": 1, "embedding": [0.25, 0.5]},
        {"index": 0, "embedding": [0.75, 1.0]}
    ],
    "usage": {"prompt_tokens": 12, "total_tokens": 12}
}`

	var response EmbedResponseDTO
	err := json.Unmarshal([]byte(jsonData), &response)
	assert.NoError(t, err)

	assert.Equal(t, "text-embedding-768", response.Model)
	assert.Nil(t, response.Error)
	assert.Equal(t, 12, response.Usage.TotalTokens)

	require.Len(t, response.Data, 2)
	assert.Equal(t, 1, response.Data[0].Index)
	assert.Equal(t, []float32{0.25, 0.5}, response.Data[0].Embedding)
}

func TestClient_EmbedBatch_RestoresInputOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/embeddings", r.URL.Path)

		var req EmbedRequestDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 2)

		// Шлюз отвечает в обратном порядке, клиент восстанавливает исходный.
		response := EmbedResponseDTO{
			Model: req.Model,
			Data: []EmbeddingDTO{
				{Index: 1, Embedding: testVector(2.0)},
				{Index: 0, Embedding: testVector(1.0)},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))

	vectors, err := client.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	assert.Equal(t, float32(1.0), vectors[0][0])
	assert.Equal(t, float32(2.0), vectors[1][0])
}

func TestClient_Embed_Single(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := EmbedResponseDTO{
			Data: []EmbeddingDTO{{Index: 0, Embedding: testVector(0.5)}},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))

	vector, err := client.Embed(context.Background(), "golang concurrency course")
	require.NoError(t, err)
	assert.Len(t, []float32(vector), shared.EmbeddingDim)
	assert.Equal(t, float32(0.5), vector[0])
}

func TestClient_EmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := EmbedResponseDTO{
			Data: []EmbeddingDTO{{Index: 0, Embedding: testVector(0.5)}},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))

	_, err := client.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
}

func TestClient_EmbedBatch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))

	_, err := client.EmbedBatch(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, shared.ErrRateLimited)
}

func TestClient_EmbedBatch_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EmbedResponseDTO{
			Error: &GatewayErrorDTO{Code: "invalid_input", Message: "input too long"},
		})
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))

	_, err := client.EmbedBatch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	assert.Contains(t, err.Error(), "input too long")
}

func TestClient_EmbedBatch_EmptyInput(t *testing.T) {
	client := NewClient(testClientConfig("http://unused"))

	vectors, err := client.EmbedBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:   2,
		SuccessThreshold:   1,
		Timeout:            time.Minute,
		HalfOpenMaxRetries: 1,
	})

	assert.NoError(t, cb.Allow())
	cb.RecordFailure()
	assert.NoError(t, cb.Allow())
	cb.RecordFailure()

	assert.Equal(t, CircuitOpen, cb.State())
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen)
}

func TestRateLimiter_BurstThenThrottle(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		MinInterval:       0,
		WaitTimeout:       10 * time.Millisecond,
		RetryAfter:        time.Second,
	})

	assert.True(t, rl.TryAllow())
	assert.True(t, rl.TryAllow())
	assert.False(t, rl.TryAllow())
}

func TestRetryConfig_BackoffIsCapped(t *testing.T) {
	config := RetryConfig{
		InitialBackoff:    time.Second,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 10,
	}

	assert.LessOrEqual(t, config.CalculateBackoff(5), 5*time.Second)
}

package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nusanet/nusarag/services"
)

func newTestService(t *testing.T, dimensions int, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL
	client := openai.NewClientWithConfig(cfg)

	return NewServiceWithClient(client, "text-embedding-004", dimensions, zap.NewNop())
}

func embeddingsResponse(vectors ...[]float32) openai.EmbeddingResponse {
	resp := openai.EmbeddingResponse{Object: "list", Model: "text-embedding-004"}
	for i, v := range vectors {
		resp.Data = append(resp.Data, openai.Embedding{
			Object:    "embedding",
			Index:     i,
			Embedding: v,
		})
	}
	return resp
}

func TestEmbed(t *testing.T) {
	t.Run("returns the provider vector", func(t *testing.T) {
		var gotReq openai.EmbeddingRequest
		svc := newTestService(t, 3, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_ = json.NewEncoder(w).Encode(embeddingsResponse([]float32{0.1, 0.2, 0.3}))
		})

		vector, err := svc.Embed(context.Background(), "refund policy")

		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
		assert.Equal(t, []any{"refund policy"}, gotReq.Input)
	})

	t.Run("width mismatch is an error", func(t *testing.T) {
		svc := newTestService(t, 768, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(embeddingsResponse([]float32{0.1, 0.2}))
		})

		_, err := svc.Embed(context.Background(), "q")

		require.Error(t, err)
		assert.Equal(t, services.ErrorTypeRetrieval, services.TypeOf(err))
		assert.Contains(t, err.Error(), "does not match configured 768")
	})

	t.Run("empty data is an error", func(t *testing.T) {
		svc := newTestService(t, 3, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(embeddingsResponse())
		})

		_, err := svc.Embed(context.Background(), "q")

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrEmbeddingFailed)
	})

	t.Run("provider failure maps to retrieval type", func(t *testing.T) {
		svc := newTestService(t, 3, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
		})

		_, err := svc.Embed(context.Background(), "q")

		require.Error(t, err)
		assert.Equal(t, services.ErrorTypeRetrieval, services.TypeOf(err))
	})
}

func TestValidate(t *testing.T) {
	t.Run("passes when widths agree", func(t *testing.T) {
		svc := newTestService(t, 2, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(embeddingsResponse([]float32{0.1, 0.2}))
		})

		assert.NoError(t, svc.Validate(context.Background()))
	})

	t.Run("fails on width drift", func(t *testing.T) {
		svc := newTestService(t, 4, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(embeddingsResponse([]float32{0.1, 0.2}))
		})

		assert.Error(t, svc.Validate(context.Background()))
	})
}

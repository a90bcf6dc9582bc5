package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/services"
	"github.com/nusanet/nusarag/services/rag"
)

type fakePipeline struct {
	gotTenant   models.Tenant
	gotQuestion string
	gotUsers    json.RawMessage
	answer      *rag.Answer
	err         error
	called      bool
}

func (p *fakePipeline) Ask(ctx context.Context, tenant models.Tenant, question string, users, space json.RawMessage) (*rag.Answer, error) {
	p.called = true
	p.gotTenant = tenant
	p.gotQuestion = question
	p.gotUsers = users
	if p.err != nil {
		return nil, p.err
	}
	return p.answer, nil
}

func postAsk(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask-nusawork", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAskHandler(t *testing.T) {
	t.Run("answers with sources", func(t *testing.T) {
		pipeline := &fakePipeline{
			answer: &rag.Answer{
				Question: "what is the refund policy?",
				Answer:   "refunds within 30 days",
				Sources: []models.Source{
					{Content: "refund doc", Score: 0.12},
				},
			},
		}
		handler := NewAskHandler(pipeline, zap.NewNop()).Handle(models.TenantNusawork)

		rec := postAsk(t, handler, `{"question":"what is the refund policy?","users":{"id":1}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.TenantNusawork, pipeline.gotTenant)
		assert.Equal(t, "what is the refund policy?", pipeline.gotQuestion)
		assert.JSONEq(t, `{"id":1}`, string(pipeline.gotUsers))

		var got rag.Answer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "refunds within 30 days", got.Answer)
		require.Len(t, got.Sources, 1)
	})

	t.Run("tenant comes from the route not the body", func(t *testing.T) {
		pipeline := &fakePipeline{answer: &rag.Answer{}}
		handler := NewAskHandler(pipeline, zap.NewNop()).Handle(models.TenantNusaid)

		rec := postAsk(t, handler, `{"question":"q","users":{},"bot_type":"nusawork"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.TenantNusaid, pipeline.gotTenant)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		pipeline := &fakePipeline{}
		handler := NewAskHandler(pipeline, zap.NewNop()).Handle(models.TenantNusawork)

		rec := postAsk(t, handler, `{"question":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, pipeline.called)
	})

	t.Run("missing question is a 400", func(t *testing.T) {
		pipeline := &fakePipeline{}
		handler := NewAskHandler(pipeline, zap.NewNop()).Handle(models.TenantNusawork)

		rec := postAsk(t, handler, `{"users":{"id":1}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, pipeline.called)
	})

	t.Run("missing users is a 400", func(t *testing.T) {
		pipeline := &fakePipeline{}
		handler := NewAskHandler(pipeline, zap.NewNop()).Handle(models.TenantNusawork)

		rec := postAsk(t, handler, `{"question":"q"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, pipeline.called)
	})

	t.Run("pipeline failure is a generic 500 with a message", func(t *testing.T) {
		pipeline := &fakePipeline{
			err: services.NewDomainError(services.ErrorTypeGeneration,
				"completion request failed", services.ErrGenerationFailed),
		}
		handler := NewAskHandler(pipeline, zap.NewNop()).Handle(models.TenantNusawork)

		rec := postAsk(t, handler, `{"question":"q","users":{}}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "completion request failed")
	})
}

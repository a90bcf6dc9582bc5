package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/services/rag"
	"github.com/nusanet/nusarag/utils"
	"go.uber.org/zap"
)

// Pipeline is the orchestrator surface the handler depends on.
type Pipeline interface {
	Ask(ctx context.Context, tenant models.Tenant, question string, users, space json.RawMessage) (*rag.Answer, error)
}

// AskRequest is the inbound contract, identical for every tenant endpoint.
// users and space are opaque caller-supplied JSON, stored verbatim.
type AskRequest struct {
	Question string          `json:"question" validate:"required"`
	Users    json.RawMessage `json:"users" validate:"required"`
	Space    json.RawMessage `json:"space,omitempty"`
}

// AskHandler answers questions against one tenant's corpus.
type AskHandler struct {
	pipeline Pipeline
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAskHandler creates an AskHandler.
func NewAskHandler(pipeline Pipeline, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		pipeline: pipeline,
		validate: validator.New(),
		logger:   logger,
	}
}

// Handle returns the http.HandlerFunc for a fixed tenant. The tenant comes
// from the route, never from the request body.
func (h *AskHandler) Handle(tenant models.Tenant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid JSON body", nil)
			return
		}

		if err := h.validate.Struct(&req); err != nil {
			_ = utils.WriteBadRequest(w, "question and users are required", nil)
			return
		}

		answer, err := h.pipeline.Ask(r.Context(), tenant, req.Question, req.Users, req.Space)
		if err != nil {
			// The stage taxonomy stays internal; callers see one generic
			// failure with a message.
			h.logger.Error("ask request failed",
				zap.String("tenant", string(tenant)),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, err.Error())
			return
		}

		_ = utils.WriteOK(w, answer)
	}
}

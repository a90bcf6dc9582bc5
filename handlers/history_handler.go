package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/utils"
	"go.uber.org/zap"
)

// HistoryReader lists persisted exchanges for one tenant.
type HistoryReader interface {
	ListByTenant(ctx context.Context, tenant models.Tenant, limit, offset int) ([]*models.History, error)
}

// HistoryHandler exposes the read side of the history log.
type HistoryHandler struct {
	histories HistoryReader
	logger    *zap.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(histories HistoryReader, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		histories: histories,
		logger:    logger,
	}
}

// HandleList handles GET /histories?bot_type=&limit=&offset=
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenant, err := models.ParseTenant(r.URL.Query().Get("bot_type"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "bot_type must be one of the configured tenants", nil)
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	records, err := h.histories.ListByTenant(r.Context(), tenant, limit, offset)
	if err != nil {
		h.logger.Error("history list failed",
			zap.String("tenant", string(tenant)),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, err.Error())
		return
	}

	if records == nil {
		records = []*models.History{}
	}
	_ = utils.WriteOK(w, records)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

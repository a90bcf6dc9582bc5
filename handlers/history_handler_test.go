package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nusanet/nusarag/models"
)

type fakeHistoryReader struct {
	gotTenant models.Tenant
	gotLimit  int
	gotOffset int
	records   []*models.History
	err       error
	called    bool
}

func (f *fakeHistoryReader) ListByTenant(ctx context.Context, tenant models.Tenant, limit, offset int) ([]*models.History, error) {
	f.called = true
	f.gotTenant = tenant
	f.gotLimit = limit
	f.gotOffset = offset
	return f.records, f.err
}

func getHistories(handler *HistoryHandler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)
	return rec
}

func TestHistoryHandlerList(t *testing.T) {
	t.Run("passes tenant and paging through", func(t *testing.T) {
		reader := &fakeHistoryReader{records: []*models.History{{ID: 1, Question: "q"}}}
		handler := NewHistoryHandler(reader, zap.NewNop())

		rec := getHistories(handler, "/histories?bot_type=nusaid&limit=5&offset=10")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.TenantNusaid, reader.gotTenant)
		assert.Equal(t, 5, reader.gotLimit)
		assert.Equal(t, 10, reader.gotOffset)
	})

	t.Run("defaults paging when absent or malformed", func(t *testing.T) {
		reader := &fakeHistoryReader{}
		handler := NewHistoryHandler(reader, zap.NewNop())

		rec := getHistories(handler, "/histories?bot_type=nusawork&limit=abc")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 20, reader.gotLimit)
		assert.Equal(t, 0, reader.gotOffset)
	})

	t.Run("unknown bot_type is a 400", func(t *testing.T) {
		reader := &fakeHistoryReader{}
		handler := NewHistoryHandler(reader, zap.NewNop())

		rec := getHistories(handler, "/histories?bot_type=acme")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, reader.called)
	})

	t.Run("empty result is a JSON array not null", func(t *testing.T) {
		reader := &fakeHistoryReader{}
		handler := NewHistoryHandler(reader, zap.NewNop())

		rec := getHistories(handler, "/histories?bot_type=nusawork")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("repository failure is a 500", func(t *testing.T) {
		reader := &fakeHistoryReader{err: errors.New("connection reset")}
		handler := NewHistoryHandler(reader, zap.NewNop())

		rec := getHistories(handler, "/histories?bot_type=nusawork")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

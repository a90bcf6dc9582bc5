package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/services"
)

func TestSearchNearest(t *testing.T) {
	t.Run("returns matches ordered by distance", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewVectorRepository(db, zap.NewNop())

		id1, id2 := uuid.New(), uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("FROM nusawork_embeddings")).
			WithArgs("[0.5,0.25]", 3).
			WillReturnRows(sqlmock.NewRows([]string{"id", "content", "metadata", "score"}).
				AddRow(id1.String(), "closest", []byte(`{"source":"pricing"}`), 0.1).
				AddRow(id2.String(), "further", nil, 0.4))

		matches, err := repo.SearchNearest(context.Background(), "nusawork_embeddings", []float32{0.5, 0.25}, 3)

		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, id1, matches[0].Document.ID)
		assert.Equal(t, "closest", matches[0].Document.Content)
		assert.Equal(t, "pricing", matches[0].Document.Metadata["source"])
		assert.Equal(t, 0.1, matches[0].Score)
		assert.Nil(t, matches[1].Document.Metadata)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty corpus yields no matches and no error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewVectorRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM nusaid_embeddings")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "content", "metadata", "score"}))

		matches, err := repo.SearchNearest(context.Background(), "nusaid_embeddings", []float32{0.5}, 3)

		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("rejects non-positive k without touching the database", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := NewVectorRepository(db, zap.NewNop())

		_, err := repo.SearchNearest(context.Background(), "nusawork_embeddings", []float32{0.5}, 0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, services.ErrInvalidTopK))
		assert.Equal(t, services.ErrorTypeValidation, services.TypeOf(err))
	})

	t.Run("rejects empty embedding", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := NewVectorRepository(db, zap.NewNop())

		_, err := repo.SearchNearest(context.Background(), "nusawork_embeddings", nil, 3)

		require.Error(t, err)
		assert.Equal(t, services.ErrorTypeValidation, services.TypeOf(err))
	})

	t.Run("query failure surfaces with table name", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewVectorRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM nusawork_embeddings")).
			WillReturnError(errors.New("relation does not exist"))

		_, err := repo.SearchNearest(context.Background(), "nusawork_embeddings", []float32{0.5}, 3)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nusawork_embeddings")
	})
}

func TestInsertDocuments(t *testing.T) {
	t.Run("inserts each document with encoded vector", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewVectorRepository(db, zap.NewNop())

		doc := models.Document{
			ID:        uuid.New(),
			Content:   "refund policy",
			Metadata:  map[string]any{"source": "handbook"},
			Embedding: []float32{0.5, -1},
		}
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO nusaid_embeddings")).
			WithArgs(doc.ID, "refund policy", "[0.5,-1]", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.InsertDocuments(context.Background(), "nusaid_embeddings", []models.Document{doc})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no documents is a no-op", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewVectorRepository(db, zap.NewNop())

		err := repo.InsertDocuments(context.Background(), "nusawork_embeddings", nil)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEncodeVector(t *testing.T) {
	assert.Equal(t, "[]", encodeVector(nil))
	assert.Equal(t, "[1]", encodeVector([]float32{1}))
	assert.Equal(t, "[0.1,0.2,-0.3]", encodeVector([]float32{0.1, 0.2, -0.3}))
}

func TestScoreOrder(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewVectorRepository(db, zap.NewNop())
	assert.Equal(t, models.ScoreAscending, repo.ScoreOrder())
}

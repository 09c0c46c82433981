package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hpos-config/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReportStoreContract runs a suite of tests to verify that a ReportStore implementation
// adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := []byte("contract-test-" + time.Now().Format("20060102150405.000000000"))

	t.Run("Save and Load", func(t *testing.T) {
		report := &domain.Report{
			ID:        domain.DocumentID(doc),
			Valid:     false,
			Kind:      "PredicateFailed",
			Path:      "hpos-config.json: .v1.settings.admin.email",
			Message:   "Expected hpos-config.json: .v1.settings.admin.email to satisfy predicate is_email",
			CheckedAt: now,
		}

		err := store.Save(ctx, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, report.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.ID, loaded.ID)
		assert.Equal(t, report.Kind, loaded.Kind)
		assert.Equal(t, report.Path, loaded.Path)
		assert.Equal(t, report.Message, loaded.Message)
		assert.False(t, loaded.Valid)
		assert.True(t, now.Equal(loaded.CheckedAt), "CheckedAt should survive the round trip")

		// The store must not alias the caller's value.
		loaded.Message = "changed"
		again, err := store.Load(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, report.Message, again.Message)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		id := domain.DocumentID(append(doc, "-replace"...))
		require.NoError(t, store.Save(ctx, &domain.Report{ID: id, Valid: false, CheckedAt: now}))
		require.NoError(t, store.Save(ctx, &domain.Report{ID: id, Valid: true, CheckedAt: now}))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.True(t, loaded.Valid)
		_ = store.Delete(ctx, id)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+domain.DocumentID(doc))
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := domain.DocumentID(doc)
		err := store.Save(ctx, domain.NewReport(doc, nil, now))
		require.NoError(t, err)

		err = store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Delete of a missing report should not fail")
	})

	t.Run("List", func(t *testing.T) {
		r1 := domain.NewReport(append(doc, "-1"...), nil, now)
		r2 := domain.NewReport(append(doc, "-2"...), nil, now)
		_ = store.Save(ctx, r1)
		_ = store.Save(ctx, r2)

		defer func() {
			_ = store.Delete(ctx, r1.ID)
			_ = store.Delete(ctx, r2.ID)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, r1.ID)
		assert.Contains(t, ids, r2.ID)
	})
}

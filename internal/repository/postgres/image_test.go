package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikVerma96/paregrose/internal/domain"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

var imageCols = []string{"id", "product_id", "url", "alt_text", "sort_order", "is_primary", "storage_key", "created_at"}

func expectLock(mock pgxmock.PgxPoolIface, productID string) {
	mock.ExpectQuery(`SELECT id FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(productID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(productID))
}

func TestImageRepository_Add_FirstBecomesPrimary(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)
	img := &domain.ProductImage{ID: "i1", ProductID: "p1", URL: "https://cdn/x.jpg", CreatedAt: now}

	mock.ExpectBegin()
	expectLock(mock, "p1")
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "next"}).AddRow(0, 0))
	mock.ExpectExec("INSERT INTO product_images").
		WithArgs("i1", "p1", "https://cdn/x.jpg", "", 0, true, (*string)(nil), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(context.Background(), img))
	assert.True(t, img.IsPrimary)
	assert.Equal(t, 0, img.SortOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Add_AppendsAfterExisting(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)
	img := &domain.ProductImage{ID: "i3", ProductID: "p1", URL: "u", CreatedAt: now}

	mock.ExpectBegin()
	expectLock(mock, "p1")
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "next"}).AddRow(2, 4))
	mock.ExpectExec("INSERT INTO product_images").
		WithArgs(anyArgs(8)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(context.Background(), img))
	assert.False(t, img.IsPrimary)
	assert.Equal(t, 4, img.SortOrder)
}

func TestImageRepository_SetPrimary(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)

	mock.ExpectBegin()
	expectLock(mock, "p1")
	mock.ExpectExec("SET is_primary = FALSE").WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("SET is_primary = TRUE").WithArgs("i2", "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetPrimary(context.Background(), "p1", "i2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_SetPrimary_UnknownImageRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)

	mock.ExpectBegin()
	expectLock(mock, "p1")
	mock.ExpectExec("SET is_primary = FALSE").WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("SET is_primary = TRUE").WithArgs("nope", "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.SetPrimary(context.Background(), "p1", "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Delete_PromotesNextPrimary(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)
	key := "products/p1/i1.jpg"

	mock.ExpectBegin()
	expectLock(mock, "p1")
	mock.ExpectQuery("DELETE FROM product_images").
		WithArgs("i1", "p1").
		WillReturnRows(pgxmock.NewRows(imageCols).AddRow("i1", "p1", "u", "", 0, true, &key, now))
	mock.ExpectExec(`UPDATE product_images SET is_primary = TRUE WHERE id = \(`).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "p1", "i1")
	require.NoError(t, err)
	require.NotNil(t, deleted.StorageKey)
	assert.Equal(t, key, *deleted.StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Delete_NonPrimary(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)

	mock.ExpectBegin()
	expectLock(mock, "p1")
	mock.ExpectQuery("DELETE FROM product_images").
		WithArgs("i2", "p1").
		WillReturnRows(pgxmock.NewRows(imageCols).AddRow("i2", "p1", "u", "", 1, false, (*string)(nil), now))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "p1", "i2")
	require.NoError(t, err)
	assert.False(t, deleted.IsPrimary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Reorder(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)
	images := []domain.ProductImage{
		{ID: "i2", SortOrder: 0, AltText: "front", IsPrimary: true},
		{ID: "i1", SortOrder: 1},
	}

	mock.ExpectBegin()
	expectLock(mock, "p1")
	mock.ExpectExec("SET is_primary = FALSE").WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("SET sort_order").WithArgs(0, "front", true, "i2", "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("SET sort_order").WithArgs(1, "", false, "i1", "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reorder(context.Background(), "p1", images))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Add_ProductMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewImageRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM products").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Add(context.Background(), &domain.ProductImage{ID: "i", ProductID: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

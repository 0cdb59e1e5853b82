package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/slug"
)

func newSeeder(t *testing.T) (*seeder, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &seeder{
		db:         mock,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		bcryptCost: 4,
	}, mock
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestCatalog_ProductsReferenceKnownCategories(t *testing.T) {
	subs := make(map[string]bool)
	for _, c := range catalog {
		for _, s := range c.subcategories {
			subs[c.slug()+"/"+slug.Generate(s)] = true
		}
	}
	for _, p := range products {
		assert.True(t, subs[p.category+"/"+p.subcategory], "product %q -> %s/%s", p.name, p.category, p.subcategory)
		if p.original != 0 {
			assert.GreaterOrEqual(t, p.original, p.price, p.name)
		}
	}
}

func TestProductDef_Variants(t *testing.T) {
	p := productDef{sizes: []string{"S", "M"}, colors: []string{"Red", "Blue"}}
	vs := p.variants()
	require.Len(t, vs, 4)
	assert.Equal(t, "Red", vs[0].Color)
	assert.Equal(t, "S", vs[0].Size)
	assert.Equal(t, "Blue", vs[3].Color)
	for _, v := range vs {
		assert.Positive(t, v.StockQuantity)
		assert.True(t, v.IsActive)
	}

	assert.Empty(t, productDef{}.variants())
}

func TestSeeder_CategoryFallsBackToExisting(t *testing.T) {
	s, mock := newSeeder(t)

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("Sarees", "sarees", "desc", 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT id FROM categories").
		WithArgs("sarees").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("cat-1"))

	id, err := s.category(context.Background(), categoryDef{name: "Sarees", description: "desc"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "cat-1", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_UserIsIdempotent(t *testing.T) {
	s, mock := newSeeder(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("admin@paregrose.in", "Store Admin", pgxmock.AnyArg(), "admin").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, s.user(context.Background(), "admin@paregrose.in", "Store Admin", "secret-pass", domain.RoleAdmin))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_ProductInsertsVariantsAndPrimaryImage(t *testing.T) {
	s, mock := newSeeder(t)
	p := productDef{name: "Test Lehenga", price: 100, sizes: []string{"S", "M"}, colors: []string{"Red"}}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO products").
		WithArgs(anyArgs(14)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("p1"))
	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs("p1", "S", "Red", pgxmock.AnyArg(), int64(0), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs("p1", "M", "Red", pgxmock.AnyArg(), int64(0), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_images").
		WithArgs("p1", pgxmock.AnyArg(), pgxmock.AnyArg(), 0, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_images").
		WithArgs("p1", pgxmock.AnyArg(), pgxmock.AnyArg(), 1, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	created, err := s.product(context.Background(), p, "cat-1", nil)
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_ExistingProductIsSkipped(t *testing.T) {
	s, mock := newSeeder(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO products").
		WithArgs(anyArgs(14)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := s.product(context.Background(), productDef{name: "Existing", stock: 3}, "cat-1", nil)
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

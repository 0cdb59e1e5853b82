package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/event"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const (
	catSarees   = "3f1c1e2a-5b7d-4c1a-9e0f-0a1b2c3d4e5f"
	catLehengas = "7a2b3c4d-5e6f-4a1b-8c2d-3e4f5a6b7c8d"
	subSilk     = "9b8a7c6d-5e4f-4a3b-8c1d-0e9f8a7b6c5d"
	productID   = "c0ffee00-1234-4abc-8def-0123456789ab"
)

type productFixture struct {
	products *mockProductRepo
	cats     *mockCategoryRepo
	subs     *mockSubcategoryRepo
	variants *mockVariantRepo
	images   *mockImageRepo
	storage  *mockStorage
	events   *topicRecorder
	svc      *ProductService
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products: new(mockProductRepo),
		cats:     new(mockCategoryRepo),
		subs:     new(mockSubcategoryRepo),
		variants: new(mockVariantRepo),
		images:   new(mockImageRepo),
		storage:  new(mockStorage),
		events:   &topicRecorder{},
	}
	settings := domain.DefaultSettings()
	settings.LowStockThreshold = 3
	f.svc = NewProductService(ProductServiceDeps{
		Products:      f.products,
		Categories:    f.cats,
		Subcategories: f.subs,
		Variants:      f.variants,
		Images:        f.images,
		Settings:      staticSettings{settings},
		Storage:       f.storage,
		Events:        event.NewEmitter(f.events, newTestLogger()),
		Logger:        newTestLogger(),
	})
	return f
}

func storedProduct() *domain.Product {
	return &domain.Product{
		ID:            productID,
		Name:          "Banarasi Silk Saree",
		Slug:          "banarasi-silk-saree",
		Price:         249900,
		StockQuantity: 4,
		CategoryID:    catSarees,
		IsActive:      true,
	}
}

func TestProductService_Create_DerivesSlugAndCleansLabels(t *testing.T) {
	f := newProductFixture()
	f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
	f.subs.On("GetByID", mock.Anything, subSilk).Return(&domain.Subcategory{ID: subSilk, CategoryID: catSarees}, nil)
	f.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.variants.On("Replace", mock.Anything, mock.Anything, []string{"Free Size"}, []string{"Maroon", "Gold"}, mock.Anything).
		Return(nil, 0, nil)

	p, err := f.svc.Create(context.Background(), domain.CreateProductInput{
		Name:          "Kanjivaram Pattu Saree",
		Price:         349900,
		OriginalPrice: int64Ptr(399900),
		Sizes:         []string{" Free Size ", "", "Free Size"},
		Colors:        []string{"Maroon", "Gold"},
		CategoryID:    catSarees,
		SubcategoryID: strPtr(subSilk),
	})

	require.NoError(t, err)
	assert.Equal(t, "kanjivaram-pattu-saree", p.Slug)
	assert.Equal(t, []string{"Free Size"}, p.Sizes)
	assert.Equal(t, []string{"Maroon", "Gold"}, p.Colors)
	assert.True(t, p.IsActive)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{event.TopicProductCreated}, f.events.topics)
	f.products.AssertExpectations(t)
}

func TestProductService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    domain.CreateProductInput
		setup func(f *productFixture)
		want  string
	}{
		{
			name: "original below price",
			in:   domain.CreateProductInput{Name: "Kurta", Price: 1000, OriginalPrice: int64Ptr(999), CategoryID: catSarees},
			want: "original_price",
		},
		{
			name: "unknown category",
			in:   domain.CreateProductInput{Name: "Kurta", Price: 1000, CategoryID: catSarees},
			setup: func(f *productFixture) {
				f.cats.On("GetByID", mock.Anything, catSarees).Return(nil, apperrors.NotFound("category", catSarees))
			},
			want: "category does not exist",
		},
		{
			name: "subcategory of another category",
			in:   domain.CreateProductInput{Name: "Kurta", Price: 1000, CategoryID: catLehengas, SubcategoryID: strPtr(subSilk)},
			setup: func(f *productFixture) {
				f.cats.On("GetByID", mock.Anything, catLehengas).Return(&domain.Category{ID: catLehengas}, nil)
				f.subs.On("GetByID", mock.Anything, subSilk).Return(&domain.Subcategory{ID: subSilk, CategoryID: catSarees}, nil)
			},
			want: "does not belong",
		},
		{
			name: "stock with sizes",
			in:   domain.CreateProductInput{Name: "Kurta", Price: 1000, StockQuantity: 5, Sizes: []string{"M"}, CategoryID: catSarees},
			want: "stock is managed per variant",
		},
		{
			name: "name without slug characters",
			in:   domain.CreateProductInput{Name: "!!!", Price: 1000, CategoryID: catSarees},
			want: "letter or digit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.svc.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
			f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Create_GeneratesVariants(t *testing.T) {
	f := newProductFixture()
	f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
	f.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	var generated []domain.Variant
	f.variants.On("Replace", mock.Anything, mock.AnythingOfType("string"), []string{"S", "M"}, []string{"Red"}, mock.Anything).
		Run(func(args mock.Arguments) { generated = args.Get(4).([]domain.Variant) }).
		Return([]domain.Variant{{ID: "v1", Size: "S", Color: "Red", IsActive: true}, {ID: "v2", Size: "M", Color: "Red", IsActive: true}}, 0, nil)

	p, err := f.svc.Create(context.Background(), domain.CreateProductInput{
		Name:       "Anarkali Kurta",
		Price:      189900,
		Sizes:      []string{"S", "M"},
		Colors:     []string{"Red"},
		CategoryID: catSarees,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)
	require.Len(t, generated, 2)
	for i, size := range []string{"S", "M"} {
		assert.Equal(t, size, generated[i].Size)
		assert.Equal(t, "Red", generated[i].Color)
		assert.Equal(t, 0, generated[i].StockQuantity)
		assert.True(t, generated[i].IsActive)
	}
	f.variants.AssertNumberOfCalls(t, "Replace", 1)
	assert.Equal(t, []string{event.TopicProductCreated}, f.events.topics)
}

func TestProductService_Create_VariantFailureRemovesProduct(t *testing.T) {
	f := newProductFixture()
	f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.variants.On("Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, 0, assert.AnError)
	f.products.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	_, err := f.svc.Create(context.Background(), domain.CreateProductInput{
		Name: "Kurta", Price: 1000, Colors: []string{"Blue"}, CategoryID: catSarees,
	})
	require.ErrorIs(t, err, assert.AnError)
	f.products.AssertNumberOfCalls(t, "Delete", 1)
	assert.Empty(t, f.events.topics)
}

func TestProductService_Create_WithoutLabelsSkipsVariants(t *testing.T) {
	f := newProductFixture()
	f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil)

	p, err := f.svc.Create(context.Background(), domain.CreateProductInput{
		Name: "Dupatta", Price: 49900, StockQuantity: 12, CategoryID: catSarees,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, p.StockQuantity)
	f.variants.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Create_DuplicateSlug(t *testing.T) {
	f := newProductFixture()
	f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
	f.products.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("product", "slug", "kurta"))

	_, err := f.svc.Create(context.Background(), domain.CreateProductInput{Name: "Kurta", Price: 1000, CategoryID: catSarees})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Empty(t, f.events.topics)
}

func TestProductService_Update(t *testing.T) {
	t.Run("empty slug regenerates from new name", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
		f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
		f.products.On("Update", mock.Anything, mock.Anything).Return(nil)

		p, err := f.svc.Update(context.Background(), productID, domain.UpdateProductInput{
			Name: strPtr("Chanderi Cotton Saree"),
			Slug: strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "chanderi-cotton-saree", p.Slug)
		assert.Equal(t, []string{event.TopicProductUpdated}, f.events.topics)
	})

	t.Run("nil slug is kept", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
		f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
		f.products.On("Update", mock.Anything, mock.Anything).Return(nil)

		p, err := f.svc.Update(context.Background(), productID, domain.UpdateProductInput{Name: strPtr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "banarasi-silk-saree", p.Slug)
	})

	t.Run("stock is rejected when variants exist", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
		f.variants.On("ListByProduct", mock.Anything, productID).
			Return([]domain.Variant{{Size: "M", StockQuantity: 4, IsActive: true}}, nil)

		_, err := f.svc.Update(context.Background(), productID, domain.UpdateProductInput{StockQuantity: intPtr(10)})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("stock is set when no variants exist", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
		f.variants.On("ListByProduct", mock.Anything, productID).Return([]domain.Variant{}, nil)
		f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
		f.products.On("Update", mock.Anything, mock.Anything).Return(nil)

		p, err := f.svc.Update(context.Background(), productID, domain.UpdateProductInput{StockQuantity: intPtr(10)})
		require.NoError(t, err)
		assert.Equal(t, 10, p.StockQuantity)
	})

	t.Run("clear subcategory and original price", func(t *testing.T) {
		f := newProductFixture()
		stored := storedProduct()
		stored.SubcategoryID = strPtr(subSilk)
		stored.OriginalPrice = int64Ptr(299900)
		f.products.On("GetByID", mock.Anything, productID).Return(stored, nil)
		f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees}, nil)
		f.products.On("Update", mock.Anything, mock.Anything).Return(nil)

		p, err := f.svc.Update(context.Background(), productID, domain.UpdateProductInput{
			ClearSubcategory: true,
			ClearOriginal:    true,
		})
		require.NoError(t, err)
		assert.Nil(t, p.SubcategoryID)
		assert.Nil(t, p.OriginalPrice)
		f.subs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", mock.Anything, productID).Return(nil, apperrors.NotFound("product", productID))

		_, err := f.svc.Update(context.Background(), productID, domain.UpdateProductInput{})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestProductService_List_LowStockUsesThreshold(t *testing.T) {
	f := newProductFixture()
	f.products.On("List", mock.Anything, mock.MatchedBy(func(pf repository.ProductFilter) bool {
		return pf.Stock == domain.StockLow && pf.LowStockThreshold == 3 && !pf.ActiveOnly && pf.PerPage == 20 && pf.Page == 1
	})).Return([]domain.Product{*storedProduct()}, 1, nil)

	res, err := f.svc.List(context.Background(), repository.ProductFilter{Stock: domain.StockLow})
	require.NoError(t, err)
	assert.Len(t, res.Data, 1)
	assert.Equal(t, 1, res.TotalCount)
}

func TestProductService_List_RejectsUnknownStockFilter(t *testing.T) {
	f := newProductFixture()
	_, err := f.svc.List(context.Background(), repository.ProductFilter{Stock: "plenty"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestProductService_Delete_RemovesStoredImages(t *testing.T) {
	f := newProductFixture()
	f.images.On("ListByProduct", mock.Anything, productID).Return([]domain.ProductImage{
		{ID: "i1", StorageKey: strPtr("products/p/a.jpg")},
		{ID: "i2", URL: "https://example.com/b.jpg"},
	}, nil)
	f.products.On("Delete", mock.Anything, productID).Return(nil)
	f.storage.On("Delete", mock.Anything, "products/p/a.jpg").Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), productID))
	f.storage.AssertNumberOfCalls(t, "Delete", 1)
	assert.Equal(t, []string{event.TopicProductDeleted}, f.events.topics)
}

func TestProductService_Delete_NotFoundKeepsObjects(t *testing.T) {
	f := newProductFixture()
	f.images.On("ListByProduct", mock.Anything, productID).Return([]domain.ProductImage{}, nil)
	f.products.On("Delete", mock.Anything, productID).Return(apperrors.NotFound("product", productID))

	err := f.svc.Delete(context.Background(), productID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProductService_Bulk(t *testing.T) {
	upper := "C0FFEE00-1234-4ABC-8DEF-0123456789AB"

	t.Run("normalizes ids and emits", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("BulkApply", mock.Anything, []string{productID}, domain.BulkFeature).Return(1, nil)

		res, err := f.svc.Bulk(context.Background(), domain.BulkInput{IDs: []string{upper}, Action: domain.BulkFeature})
		require.NoError(t, err)
		assert.Equal(t, &domain.BulkResult{Action: domain.BulkFeature, Affected: 1}, res)
		assert.Equal(t, []string{event.TopicBulkApplied}, f.events.topics)
	})

	t.Run("unknown action", func(t *testing.T) {
		f := newProductFixture()
		_, err := f.svc.Bulk(context.Background(), domain.BulkInput{IDs: []string{productID}, Action: "archive"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("unknown id rolls back", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("BulkApply", mock.Anything, []string{productID}, domain.BulkActivate).
			Return(0, apperrors.NotFound("product", productID))

		_, err := f.svc.Bulk(context.Background(), domain.BulkInput{IDs: []string{productID}, Action: domain.BulkActivate})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, f.events.topics)
	})

	t.Run("delete cleans storage", func(t *testing.T) {
		f := newProductFixture()
		f.images.On("ListByProduct", mock.Anything, productID).
			Return([]domain.ProductImage{{ID: "i1", StorageKey: strPtr("products/x.png")}}, nil)
		f.products.On("BulkApply", mock.Anything, []string{productID}, domain.BulkDelete).Return(1, nil)
		f.storage.On("Delete", mock.Anything, "products/x.png").Return(nil)

		_, err := f.svc.Bulk(context.Background(), domain.BulkInput{IDs: []string{productID}, Action: domain.BulkDelete})
		require.NoError(t, err)
		f.storage.AssertExpectations(t)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newProductFixture()
		_, err := f.svc.Bulk(context.Background(), domain.BulkInput{IDs: []string{"nope"}, Action: domain.BulkDelete})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestProductService_Get_IncludesInactiveVariants(t *testing.T) {
	f := newProductFixture()
	f.products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
	f.cats.On("GetByID", mock.Anything, catSarees).Return(&domain.Category{ID: catSarees, Name: "Sarees"}, nil)
	f.images.On("ListByProduct", mock.Anything, productID).
		Return([]domain.ProductImage{{ID: "i1", URL: "https://cdn.test/a.jpg", IsPrimary: true}}, nil)
	f.variants.On("ListByProduct", mock.Anything, productID).Return([]domain.Variant{
		{Size: "S", IsActive: true},
		{Size: "M", IsActive: false},
	}, nil)

	d, err := f.svc.Get(context.Background(), productID)
	require.NoError(t, err)
	assert.Len(t, d.Variants, 2)
	assert.Equal(t, "https://cdn.test/a.jpg", d.PrimaryImageURL)
	assert.Equal(t, "Sarees", d.Category.Name)
}

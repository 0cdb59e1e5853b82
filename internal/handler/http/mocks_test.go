package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
)

// Repository mocks shared by the handler tests.

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) All(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) BulkApply(ctx context.Context, ids []string, action string) (int, error) {
	args := m.Called(ctx, ids, action)
	return args.Int(0), args.Error(1)
}

type mockVariantRepo struct{ mock.Mock }

func (m *mockVariantRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Variant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Variant), args.Error(1)
}

func (m *mockVariantRepo) GetByID(ctx context.Context, productID, variantID string) (*domain.Variant, error) {
	args := m.Called(ctx, productID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variant), args.Error(1)
}

func (m *mockVariantRepo) Replace(ctx context.Context, productID string, sizes, colors []string, variants []domain.Variant) ([]domain.Variant, int, error) {
	args := m.Called(ctx, productID, sizes, colors, variants)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Variant), args.Int(1), args.Error(2)
}

func (m *mockVariantRepo) Update(ctx context.Context, v *domain.Variant) (int, error) {
	args := m.Called(ctx, v)
	return args.Int(0), args.Error(1)
}

type mockImageRepo struct{ mock.Mock }

func (m *mockImageRepo) ListByProduct(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.ProductImage), args.Error(1)
}

func (m *mockImageRepo) GetByID(ctx context.Context, productID, imageID string) (*domain.ProductImage, error) {
	args := m.Called(ctx, productID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductImage), args.Error(1)
}

func (m *mockImageRepo) Add(ctx context.Context, img *domain.ProductImage) error {
	return m.Called(ctx, img).Error(0)
}

func (m *mockImageRepo) SetPrimary(ctx context.Context, productID, imageID string) error {
	return m.Called(ctx, productID, imageID).Error(0)
}

func (m *mockImageRepo) Reorder(ctx context.Context, productID string, images []domain.ProductImage) error {
	return m.Called(ctx, productID, images).Error(0)
}

func (m *mockImageRepo) Delete(ctx context.Context, productID, imageID string) (*domain.ProductImage, error) {
	args := m.Called(ctx, productID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductImage), args.Error(1)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCategoryRepo) BulkApply(ctx context.Context, ids []string, action string) (int, error) {
	args := m.Called(ctx, ids, action)
	return args.Int(0), args.Error(1)
}

type mockSubcategoryRepo struct{ mock.Mock }

func (m *mockSubcategoryRepo) Create(ctx context.Context, s *domain.Subcategory) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSubcategoryRepo) GetByID(ctx context.Context, id string) (*domain.Subcategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subcategory), args.Error(1)
}

func (m *mockSubcategoryRepo) GetBySlug(ctx context.Context, categoryID, slug string) (*domain.Subcategory, error) {
	args := m.Called(ctx, categoryID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subcategory), args.Error(1)
}

func (m *mockSubcategoryRepo) List(ctx context.Context, f repository.SubcategoryFilter) ([]domain.Subcategory, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Subcategory), args.Error(1)
}

func (m *mockSubcategoryRepo) Update(ctx context.Context, s *domain.Subcategory) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSubcategoryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCartRepo struct{ mock.Mock }

func (m *mockCartRepo) Lines(ctx context.Context, owner string) ([]domain.CartLine, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *mockCartRepo) ListItems(ctx context.Context, owner string) ([]domain.CartItem, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *mockCartRepo) GetItem(ctx context.Context, owner, itemID string) (*domain.CartItem, error) {
	args := m.Called(ctx, owner, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartRepo) AddQuantity(ctx context.Context, item *domain.CartItem, limit int) (*domain.CartItem, error) {
	args := m.Called(ctx, item, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartRepo) SetQuantity(ctx context.Context, owner, itemID string, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, owner, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartRepo) DeleteItem(ctx context.Context, owner, itemID string) error {
	return m.Called(ctx, owner, itemID).Error(0)
}

func (m *mockCartRepo) Clear(ctx context.Context, owner string) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

func (m *mockCartRepo) ReplaceOwner(ctx context.Context, from string, merged []domain.CartItem) error {
	return m.Called(ctx, from, merged).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByProvider(ctx context.Context, provider, subject string) (*domain.User, error) {
	args := m.Called(ctx, provider, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, f repository.UserFilter) ([]domain.User, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockWishlistRepo struct{ mock.Mock }

func (m *mockWishlistRepo) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.WishlistItem), args.Error(1)
}

func (m *mockWishlistRepo) Add(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepo) Remove(ctx context.Context, userID, productID string) error {
	return m.Called(ctx, userID, productID).Error(0)
}

type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) Get(ctx context.Context) (*domain.StoreSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoreSettings), args.Error(1)
}

func (m *mockSettingsRepo) Save(ctx context.Context, s *domain.StoreSettings) error {
	return m.Called(ctx, s).Error(0)
}

type mockSettingsCache struct{ mock.Mock }

func (m *mockSettingsCache) Get(ctx context.Context) (*domain.StoreSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoreSettings), args.Error(1)
}

func (m *mockSettingsCache) Set(ctx context.Context, s *domain.StoreSettings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSettingsCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockAnalyticsRepo struct{ mock.Mock }

func (m *mockAnalyticsRepo) Overview(ctx context.Context, lowStockThreshold int) (*domain.AnalyticsOverview, error) {
	args := m.Called(ctx, lowStockThreshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsOverview), args.Error(1)
}

type mockAnalyticsCache struct{ mock.Mock }

func (m *mockAnalyticsCache) Get(ctx context.Context) (*domain.AnalyticsOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsOverview), args.Error(1)
}

func (m *mockAnalyticsCache) Set(ctx context.Context, o *domain.AnalyticsOverview) error {
	return m.Called(ctx, o).Error(0)
}

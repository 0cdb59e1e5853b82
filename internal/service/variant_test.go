package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/event"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

func newVariantService() (*VariantService, *mockProductRepo, *mockVariantRepo, *topicRecorder) {
	products := new(mockProductRepo)
	variants := new(mockVariantRepo)
	events := &topicRecorder{}
	return NewVariantService(products, variants, event.NewEmitter(events, newTestLogger()), newTestLogger()), products, variants, events
}

func TestVariantService_Preview(t *testing.T) {
	svc, _, _, _ := newVariantService()

	m := svc.Preview(SaveVariantsInput{
		Sizes:    []string{"S", "M"},
		Colors:   []string{"Red", "Blue"},
		Variants: []domain.VariantOverride{{Size: "S", Color: "Red", VariantPatch: domain.VariantPatch{StockQuantity: intPtr(5)}}},
	})

	assert.Equal(t, domain.LayoutMatrix, m.Layout)
	assert.Empty(t, m.Warning)
	require.Len(t, m.Variants, 4)
	assert.Equal(t, 5, m.Variants[0].StockQuantity)
	assert.Equal(t, 5, m.Stock)
	assert.Equal(t, "M", m.Variants[1].Size)
	assert.Equal(t, "Blue", m.Variants[2].Color)
}

func TestVariantService_Preview_NoDimensionsWarns(t *testing.T) {
	svc, _, _, _ := newVariantService()

	m := svc.Preview(SaveVariantsInput{Sizes: []string{" "}})
	assert.Equal(t, domain.LayoutNone, m.Layout)
	assert.Equal(t, domain.NoVariantsWarning, m.Warning)
	assert.Empty(t, m.Variants)
}

func TestVariantService_Save_OverlaysStoredValues(t *testing.T) {
	svc, products, variants, events := newVariantService()
	products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
	variants.On("ListByProduct", mock.Anything, productID).Return([]domain.Variant{
		{ID: "v1", ProductID: productID, Size: "S", Color: "Red", StockQuantity: 5, IsActive: true},
		{ID: "v2", ProductID: productID, Size: "M", Color: "Red", StockQuantity: 2, IsActive: true},
	}, nil)

	var replaced []domain.Variant
	variants.On("Replace", mock.Anything, productID, []string{"S", "M"}, []string{"Red", "Blue"}, mock.Anything).
		Run(func(args mock.Arguments) { replaced = args.Get(4).([]domain.Variant) }).
		Return([]domain.Variant{{ID: "v1"}, {ID: "v2"}, {ID: "v3"}, {ID: "v4"}}, 10, nil)

	m, err := svc.Save(context.Background(), productID, SaveVariantsInput{
		Sizes:    []string{"S", "M"},
		Colors:   []string{"Red", "Blue"},
		Variants: []domain.VariantOverride{{Size: "M", Color: "Red", VariantPatch: domain.VariantPatch{StockQuantity: intPtr(5)}}},
	})
	require.NoError(t, err)

	require.Len(t, replaced, 4)
	assert.Equal(t, "v1", replaced[0].ID)
	assert.Equal(t, 5, replaced[0].StockQuantity)
	assert.Equal(t, "v2", replaced[1].ID)
	assert.Equal(t, 5, replaced[1].StockQuantity)
	assert.Empty(t, replaced[2].ID)
	assert.True(t, replaced[3].IsActive)

	assert.Equal(t, 10, m.Stock)
	assert.Len(t, m.Variants, 4)
	assert.Equal(t, []string{event.TopicProductVariantsUpdated}, events.topics)
}

func TestVariantService_Save_OmittedActiveFlagKeepsVariantActive(t *testing.T) {
	svc, products, variants, _ := newVariantService()
	products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
	variants.On("ListByProduct", mock.Anything, productID).Return([]domain.Variant{}, nil)

	var replaced []domain.Variant
	variants.On("Replace", mock.Anything, productID, []string{"S", "M"}, []string{"Red"}, mock.Anything).
		Run(func(args mock.Arguments) { replaced = args.Get(4).([]domain.Variant) }).
		Return([]domain.Variant{}, 5, nil)

	var in SaveVariantsInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"sizes": ["S", "M"],
		"colors": ["Red"],
		"variants": [{"size": "S", "color": "Red", "stock_quantity": 5}]
	}`), &in))

	_, err := svc.Save(context.Background(), productID, in)
	require.NoError(t, err)

	require.Len(t, replaced, 2)
	assert.Equal(t, 5, replaced[0].StockQuantity)
	assert.True(t, replaced[0].IsActive)
	assert.True(t, replaced[1].IsActive)
}

func TestVariantService_Save_RemovedColorDropsRows(t *testing.T) {
	svc, products, variants, _ := newVariantService()
	products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
	variants.On("ListByProduct", mock.Anything, productID).Return([]domain.Variant{
		{ID: "v1", Size: "S", Color: "Red", StockQuantity: 5, IsActive: true},
		{ID: "v2", Size: "S", Color: "Blue", StockQuantity: 3, IsActive: true},
	}, nil)
	variants.On("Replace", mock.Anything, productID, []string{"S"}, []string{"Red"},
		[]domain.Variant{{ID: "v1", Size: "S", Color: "Red", StockQuantity: 5, IsActive: true}}).
		Return([]domain.Variant{{ID: "v1", Size: "S", Color: "Red", StockQuantity: 5, IsActive: true}}, 5, nil)

	m, err := svc.Save(context.Background(), productID, SaveVariantsInput{Sizes: []string{"S"}, Colors: []string{"Red"}})
	require.NoError(t, err)
	assert.Equal(t, 5, m.Stock)
	variants.AssertExpectations(t)
}

func TestVariantService_Save_NegativeStock(t *testing.T) {
	svc, products, variants, _ := newVariantService()
	products.On("GetByID", mock.Anything, productID).Return(storedProduct(), nil)
	variants.On("ListByProduct", mock.Anything, productID).Return([]domain.Variant{}, nil)

	_, err := svc.Save(context.Background(), productID, SaveVariantsInput{
		Sizes:    []string{"S"},
		Variants: []domain.VariantOverride{{Size: "S", VariantPatch: domain.VariantPatch{StockQuantity: intPtr(-1)}}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	variants.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVariantService_Save_UnknownProduct(t *testing.T) {
	svc, products, _, _ := newVariantService()
	products.On("GetByID", mock.Anything, productID).Return(nil, apperrors.NotFound("product", productID))

	_, err := svc.Save(context.Background(), productID, SaveVariantsInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVariantService_Patch(t *testing.T) {
	svc, _, variants, _ := newVariantService()
	variants.On("GetByID", mock.Anything, productID, "v1").
		Return(&domain.Variant{ID: "v1", ProductID: productID, Size: "S", StockQuantity: 1, IsActive: true}, nil)
	variants.On("Update", mock.Anything, mock.MatchedBy(func(v *domain.Variant) bool {
		return v.StockQuantity == 7 && !v.IsActive && v.PriceAdjustment == 0
	})).Return(12, nil)

	v, stock, err := svc.Patch(context.Background(), productID, "v1", domain.VariantPatch{
		StockQuantity: intPtr(7),
		IsActive:      boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, stock)
	assert.Equal(t, 7, v.StockQuantity)
}

func TestVariantService_List(t *testing.T) {
	svc, products, variants, _ := newVariantService()
	p := storedProduct()
	p.Sizes = []string{"S"}
	products.On("GetByID", mock.Anything, productID).Return(p, nil)
	variants.On("ListByProduct", mock.Anything, productID).
		Return([]domain.Variant{{ID: "v1", Size: "S", StockQuantity: 4}}, nil)

	m, err := svc.List(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, domain.LayoutList, m.Layout)
	assert.Equal(t, 4, m.Stock)
}

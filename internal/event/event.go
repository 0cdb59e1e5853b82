// Package event publishes storefront domain events. Publishing is
// fire-and-forget: failures are logged and never reach the caller.
package event

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/KartikVerma96/paregrose/internal/domain"
	pkgkafka "github.com/KartikVerma96/paregrose/pkg/kafka"
	"github.com/KartikVerma96/paregrose/pkg/logger"
)

const (
	TopicProductCreated         = "paregrose.product.created"
	TopicProductUpdated         = "paregrose.product.updated"
	TopicProductDeleted         = "paregrose.product.deleted"
	TopicProductVariantsUpdated = "paregrose.product.variants_updated"
	TopicBulkApplied            = "paregrose.admin.bulk_applied"
	TopicUserRegistered         = "paregrose.user.registered"
	TopicSettingsUpdated        = "paregrose.settings.updated"
)

const source = "paregrose-api"

// Publisher writes one event to a topic. *pkgkafka.Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

type ProductData struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Price         int64   `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	CategoryID    string  `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id,omitempty"`
	IsActive      bool    `json:"is_active"`
}

type VariantsUpdatedData struct {
	ProductID     string   `json:"product_id"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	VariantCount  int      `json:"variant_count"`
	StockQuantity int      `json:"stock_quantity"`
}

type BulkAppliedData struct {
	Resource string   `json:"resource"`
	Action   string   `json:"action"`
	IDs      []string `json:"ids"`
	Affected int      `json:"affected"`
}

type UserRegisteredData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Provider string `json:"auth_provider"`
}

// Emitter builds and publishes domain events. A nil publisher disables
// publishing.
type Emitter struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewEmitter(publisher Publisher, logger *slog.Logger) *Emitter {
	return &Emitter{publisher: publisher, logger: logger}
}

// Nop returns an Emitter that drops every event.
func Nop() *Emitter {
	return &Emitter{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		SubcategoryID: p.SubcategoryID,
		IsActive:      p.IsActive,
	}
}

func (e *Emitter) ProductCreated(ctx context.Context, p *domain.Product) {
	e.emit(ctx, TopicProductCreated, p.ID, "product", productData(p))
}

func (e *Emitter) ProductUpdated(ctx context.Context, p *domain.Product) {
	e.emit(ctx, TopicProductUpdated, p.ID, "product", productData(p))
}

func (e *Emitter) ProductDeleted(ctx context.Context, id string) {
	e.emit(ctx, TopicProductDeleted, id, "product", map[string]string{"id": id})
}

func (e *Emitter) VariantsUpdated(ctx context.Context, productID string, sizes, colors []string, count, stock int) {
	e.emit(ctx, TopicProductVariantsUpdated, productID, "product", VariantsUpdatedData{
		ProductID:     productID,
		Sizes:         sizes,
		Colors:        colors,
		VariantCount:  count,
		StockQuantity: stock,
	})
}

func (e *Emitter) BulkApplied(ctx context.Context, resource, action string, ids []string, affected int) {
	e.emit(ctx, TopicBulkApplied, resource, resource, BulkAppliedData{
		Resource: resource,
		Action:   action,
		IDs:      ids,
		Affected: affected,
	})
}

func (e *Emitter) UserRegistered(ctx context.Context, u *domain.User) {
	e.emit(ctx, TopicUserRegistered, u.ID, "user", UserRegisteredData{
		ID:       u.ID,
		Email:    u.Email,
		Provider: u.AuthProvider,
	})
}

func (e *Emitter) SettingsUpdated(ctx context.Context, s *domain.StoreSettings) {
	e.emit(ctx, TopicSettingsUpdated, "store", "settings", s)
}

func (e *Emitter) emit(ctx context.Context, topic, aggregateID, aggregateType string, data any) {
	if e == nil || e.publisher == nil {
		return
	}

	ev, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, source, data)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to build event", slog.String("topic", topic), slog.String("error", err.Error()))
		return
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}
	if id := logger.UserIDFromContext(ctx); id != "" {
		ev.WithActor(id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		ev.WithMetadata("trace_id", sc.TraceID().String())
	}

	if err := e.publisher.Publish(ctx, topic, ev); err != nil {
		logger.WithContext(ctx, e.logger).Warn("failed to publish event",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
	}
}

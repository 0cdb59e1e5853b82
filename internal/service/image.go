package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/internal/storage"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

// UploadImageInput is a multipart image upload.
type UploadImageInput struct {
	ContentType string
	Size        int64
	AltText     string
	Data        io.Reader
}

// ImageService manages product galleries. The repository keeps exactly one
// primary image per product; this layer validates requests and moves bytes.
type ImageService struct {
	products repository.ProductRepository
	images   repository.ImageRepository
	storage  storage.Storage
	logger   *slog.Logger
}

func NewImageService(products repository.ProductRepository, images repository.ImageRepository, store storage.Storage, logger *slog.Logger) *ImageService {
	return &ImageService{products: products, images: images, storage: store, logger: logger}
}

func (s *ImageService) List(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	images, err := s.images.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// Upload stores the file and attaches it to the product. The stored object
// is removed again if the row cannot be written.
func (s *ImageService) Upload(ctx context.Context, productID string, in UploadImageInput) (*domain.ProductImage, error) {
	if s.storage == nil {
		return nil, apperrors.InvalidInput("image uploads are not configured")
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(in.ContentType, ";")[0]))
	ext, ok := domain.ImageExtension(contentType)
	if !ok {
		return nil, apperrors.InvalidInput("image must be jpeg, png, webp or gif")
	}
	if in.Size <= 0 {
		return nil, apperrors.InvalidInput("image is empty")
	}
	if in.Size > domain.MaxImageBytes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("image exceeds %d bytes", domain.MaxImageBytes))
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	uploaded, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         storage.ProductImageKey(productID, ext),
		ContentType: contentType,
		Size:        in.Size,
		Data:        in.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	img := newImage(productID, uploaded.URL, in.AltText)
	img.StorageKey = &uploaded.Key
	if err := s.images.Add(ctx, img); err != nil {
		if delErr := s.storage.Delete(ctx, uploaded.Key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned upload",
				slog.String("key", uploaded.Key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("add image: %w", err)
	}

	s.logger.InfoContext(ctx, "product image uploaded",
		slog.String("product_id", productID),
		slog.String("image_id", img.ID),
		slog.Bool("primary", img.IsPrimary),
	)
	return img, nil
}

// AddURL attaches an externally hosted image.
func (s *ImageService) AddURL(ctx context.Context, productID string, in domain.AddImageInput) (*domain.ProductImage, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	img := newImage(productID, in.URL, in.AltText)
	if err := s.images.Add(ctx, img); err != nil {
		return nil, fmt.Errorf("add image: %w", err)
	}
	return img, nil
}

// Reorder rewrites the gallery order. The request must list every image of
// the product exactly once.
func (s *ImageService) Reorder(ctx context.Context, productID string, in domain.ReorderImagesInput) ([]domain.ProductImage, error) {
	current, err := s.List(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(in.Images) != len(current) {
		return nil, apperrors.InvalidInput("images must list every image of the product exactly once")
	}

	byID := make(map[string]domain.ProductImage, len(current))
	for _, img := range current {
		byID[img.ID] = img
	}
	ordered := make([]domain.ProductImage, 0, len(in.Images))
	for i, entry := range in.Images {
		id := strings.ToLower(entry.ID)
		img, ok := byID[id]
		if !ok {
			return nil, apperrors.InvalidInput("images must list every image of the product exactly once")
		}
		delete(byID, id)
		img.SortOrder = i
		img.AltText = entry.AltText
		img.IsPrimary = entry.IsPrimary
		ordered = append(ordered, img)
	}

	ordered = domain.NormalizePrimary(ordered)
	if err := s.images.Reorder(ctx, productID, ordered); err != nil {
		return nil, fmt.Errorf("reorder images: %w", err)
	}
	return ordered, nil
}

func (s *ImageService) SetPrimary(ctx context.Context, productID, imageID string) ([]domain.ProductImage, error) {
	if err := s.images.SetPrimary(ctx, productID, imageID); err != nil {
		return nil, fmt.Errorf("set primary image: %w", err)
	}
	images, err := s.images.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// Delete removes the image row, then its stored object if it has one.
func (s *ImageService) Delete(ctx context.Context, productID, imageID string) error {
	img, err := s.images.Delete(ctx, productID, imageID)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if img.StorageKey == nil || s.storage == nil {
		return nil
	}
	if err := s.storage.Delete(ctx, *img.StorageKey); err != nil {
		s.logger.WarnContext(ctx, "failed to delete stored image",
			slog.String("key", *img.StorageKey),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func newImage(productID, url, alt string) *domain.ProductImage {
	return &domain.ProductImage{
		ID:        uuid.New().String(),
		ProductID: productID,
		URL:       url,
		AltText:   alt,
		CreatedAt: time.Now().UTC(),
	}
}

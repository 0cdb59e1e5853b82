package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
)

// XLSXContentType is the media type of the product export.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"ID", "Name", "Slug", "Category", "Price (INR)", "Original Price (INR)", "Discount %",
	"Stock", "Sizes", "Colors", "Fabric", "Featured", "Bestseller", "New", "Active",
	"Created At", "Updated At",
}

// ExportService renders the catalog as a spreadsheet for the back office.
type ExportService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewExportService(products repository.ProductRepository, categories repository.CategoryRepository, logger *slog.Logger) *ExportService {
	return &ExportService{products: products, categories: categories, logger: logger}
}

// Products builds the workbook with one row per product, inactive ones
// included.
func (s *ExportService) Products(ctx context.Context) (*xlsx.File, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	categories, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Slug)
		row.AddCell().SetString(names[p.CategoryID])
		row.AddCell().SetString(domain.Rupees(p.Price))
		original := ""
		if p.OriginalPrice != nil {
			original = domain.Rupees(*p.OriginalPrice)
		}
		row.AddCell().SetString(original)
		row.AddCell().SetInt(p.DiscountPercent())
		row.AddCell().SetInt(p.StockQuantity)
		row.AddCell().SetString(strings.Join(p.Sizes, ", "))
		row.AddCell().SetString(strings.Join(p.Colors, ", "))
		row.AddCell().SetString(p.Fabric)
		row.AddCell().SetString(yesNo(p.IsFeatured))
		row.AddCell().SetString(yesNo(p.IsBestseller))
		row.AddCell().SetString(yesNo(p.IsNew))
		row.AddCell().SetString(yesNo(p.IsActive))
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	s.logger.InfoContext(ctx, "product export built", slog.Int("rows", len(products)))
	return file, nil
}

// WriteProducts streams the product workbook to w.
func (s *ExportService) WriteProducts(ctx context.Context, w io.Writer) error {
	file, err := s.Products(ctx)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.original_price, p.stock_quantity,
	p.sizes, p.colors, p.fabric, p.is_featured, p.is_bestseller, p.is_new, p.is_active,
	p.category_id, p.subcategory_id, p.created_at, p.updated_at`

const primaryImageColumn = `COALESCE((SELECT i.url FROM product_images i
	WHERE i.product_id = p.id AND i.is_primary LIMIT 1), '') AS primary_image_url`

var productSorts = map[string]string{
	domain.SortNewest:    "p.created_at DESC, p.id",
	domain.SortPriceAsc:  "p.price ASC, p.id",
	domain.SortPriceDesc: "p.price DESC, p.id",
	domain.SortName:      "p.name ASC, p.id",
}

// ProductRepository implements repository.ProductRepository.
type ProductRepository struct {
	db database.DBTX
}

func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row rowScanner, extra ...any) (*domain.Product, error) {
	var p domain.Product
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.OriginalPrice, &p.StockQuantity,
		&p.Sizes, &p.Colors, &p.Fabric, &p.IsFeatured, &p.IsBestseller, &p.IsNew, &p.IsActive,
		&p.CategoryID, &p.SubcategoryID, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	return &p, nil
}

func productWriteError(err error, p *domain.Product) error {
	switch {
	case database.IsUniqueViolation(err):
		return apperrors.AlreadyExists("product", "slug", p.Slug)
	case database.IsForeignKeyViolation(err):
		return apperrors.InvalidInput("category or subcategory does not exist")
	}
	return err
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, price, original_price, stock_quantity,
			sizes, colors, fabric, is_featured, is_bestseller, is_new, is_active,
			category_id, subcategory_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.OriginalPrice, p.StockQuantity,
		p.Sizes, p.Colors, p.Fabric, p.IsFeatured, p.IsBestseller, p.IsNew, p.IsActive,
		p.CategoryID, p.SubcategoryID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", productWriteError(err, p))
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, "p.slug = $1", slug)
}

func (r *ProductRepository) getOne(ctx context.Context, cond string, arg any) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `, ` + primaryImageColumn + `
		FROM products p
		WHERE ` + cond

	var primary string
	p, err := scanProduct(r.db.QueryRow(ctx, query, arg), &primary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.PrimaryImageURL = primary
	return p, nil
}

// List returns one page of products and the total match count.
func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, int, error) {
	var w whereBuilder

	if f.ActiveOnly {
		w.addRaw("p.is_active")
	}
	if f.IsActive != nil {
		w.add("p.is_active = $%d", *f.IsActive)
	}
	if f.CategoryID != nil {
		w.add("p.category_id = $%d", *f.CategoryID)
	}
	if f.CategorySlug != nil {
		w.add("p.category_id = (SELECT c.id FROM categories c WHERE c.slug = $%d)", *f.CategorySlug)
	}
	if f.SubcategorySlug != nil {
		w.add("p.subcategory_id IN (SELECT s.id FROM subcategories s WHERE s.slug = $%d)", *f.SubcategorySlug)
	}
	if f.Search != nil {
		w.add(`(p.name ILIKE $%d ESCAPE '\' OR p.description ILIKE $%d ESCAPE '\')`, containsPattern(*f.Search))
	}
	if f.MinPrice != nil {
		w.add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("p.price <= $%d", *f.MaxPrice)
	}
	if f.Size != nil {
		w.add("$%d = ANY(p.sizes)", *f.Size)
	}
	if f.Color != nil {
		w.add("$%d = ANY(p.colors)", *f.Color)
	}
	if f.Featured != nil {
		w.add("p.is_featured = $%d", *f.Featured)
	}
	if f.Bestseller != nil {
		w.add("p.is_bestseller = $%d", *f.Bestseller)
	}
	if f.New != nil {
		w.add("p.is_new = $%d", *f.New)
	}
	if f.InStock {
		w.addRaw("p.stock_quantity > 0")
	}
	switch f.Stock {
	case domain.StockOut:
		w.addRaw("p.stock_quantity = 0")
	case domain.StockLow:
		w.add("p.stock_quantity <= $%d", f.LowStockThreshold)
	}

	order, ok := productSorts[f.Sort]
	if !ok {
		order = productSorts[domain.SortNewest]
	}
	limit, offset := limitOffset(f.Page, f.PerPage)
	n := w.next()

	query := fmt.Sprintf(`
		SELECT %s, %s, count(*) OVER() AS total_count
		FROM products p
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, primaryImageColumn, w.clause(), order, n, n+1,
	)
	args := append(w.args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	total := 0
	for rows.Next() {
		var primary string
		p, err := scanProduct(rows, &primary, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		p.PrimaryImageURL = primary
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) All(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `, ` + primaryImageColumn + `
		FROM products p
		ORDER BY p.name, p.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var primary string
		p, err := scanProduct(rows, &primary)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		p.PrimaryImageURL = primary
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, slug = $2, description = $3, price = $4, original_price = $5,
		    stock_quantity = $6, fabric = $7, is_featured = $8, is_bestseller = $9,
		    is_new = $10, is_active = $11, category_id = $12, subcategory_id = $13, updated_at = $14
		WHERE id = $15`

	ct, err := r.db.Exec(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.OriginalPrice,
		p.StockQuantity, p.Fabric, p.IsFeatured, p.IsBestseller,
		p.IsNew, p.IsActive, p.CategoryID, p.SubcategoryID, p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", productWriteError(err, p))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

// BulkApply runs action over ids in one transaction.
func (r *ProductRepository) BulkApply(ctx context.Context, ids []string, action string) (int, error) {
	var affected int
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := requireAll(ctx, tx, "products", "product", ids); err != nil {
			return err
		}

		var (
			sql  string
			args []any
		)
		if action == domain.BulkDelete {
			sql, args = `DELETE FROM products WHERE id = ANY($1)`, []any{ids}
		} else {
			upd, ok := domain.ProductBulkFlag(action)
			if !ok {
				return apperrors.InvalidInput("unknown bulk action: " + action)
			}
			sql = fmt.Sprintf(`UPDATE products SET %s = $1, updated_at = NOW() WHERE id = ANY($2)`, upd.Column)
			args = []any{upd.Value, ids}
		}

		ct, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("bulk %s products: %w", action, err)
		}
		affected = int(ct.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// requireAll fails with NotFound naming the first id in ids missing from table.
func requireAll(ctx context.Context, tx pgx.Tx, table, resource string, ids []string) error {
	rows, err := tx.Query(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE id = ANY($1) FOR UPDATE`, table), ids)
	if err != nil {
		return fmt.Errorf("lock %s: %w", table, err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan %s id: %w", resource, err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s ids: %w", resource, err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return apperrors.NotFound(resource, id)
		}
	}
	return nil
}

// Command seed populates a fresh database with a back-office admin, a staff
// account and a starter ethnic-wear catalog. Every insert is idempotent, so
// the command can be re-run against a seeded database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/KartikVerma96/paregrose/internal/app"
	"github.com/KartikVerma96/paregrose/internal/config"
	"github.com/KartikVerma96/paregrose/internal/domain"
	pkgconfig "github.com/KartikVerma96/paregrose/pkg/config"
	"github.com/KartikVerma96/paregrose/pkg/database"
	"github.com/KartikVerma96/paregrose/pkg/logger"
	"github.com/KartikVerma96/paregrose/pkg/slug"
)

type seedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@paregrose.in"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
	StaffEmail    string `env:"SEED_STAFF_EMAIL" envDefault:"staff@paregrose.in"`
	StaffPassword string `env:"SEED_STAFF_PASSWORD"`
}

func main() {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var seedCfg seedConfig
	if err := pkgconfig.Load(&seedCfg); err != nil {
		slog.Error("failed to load seed config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("paregrose-seed", cfg.LogLevel)

	if seedCfg.AdminPassword == "" {
		if !cfg.IsDevelopment() {
			log.Error("SEED_ADMIN_PASSWORD is required outside development")
			os.Exit(1)
		}
		seedCfg.AdminPassword = "paregrose-admin"
		log.Warn("using development admin password", slog.String("email", seedCfg.AdminEmail))
	}
	if seedCfg.StaffPassword == "" {
		seedCfg.StaffPassword = seedCfg.AdminPassword
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := app.ConnectPostgres(ctx, cfg, log)
	if err != nil {
		log.Error("failed to prepare database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	s := &seeder{db: pool, log: log, bcryptCost: bcrypt.DefaultCost}
	if err := s.run(ctx, seedCfg); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed complete")
}

type seeder struct {
	db         database.DBTX
	log        *slog.Logger
	bcryptCost int
}

func (s *seeder) run(ctx context.Context, cfg seedConfig) error {
	if err := s.user(ctx, cfg.AdminEmail, "Store Admin", cfg.AdminPassword, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.user(ctx, cfg.StaffEmail, "Store Staff", cfg.StaffPassword, domain.RoleStaff); err != nil {
		return err
	}

	categoryIDs := make(map[string]string, len(catalog))
	subcategoryIDs := make(map[string]string)
	for i, c := range catalog {
		id, err := s.category(ctx, c, i+1)
		if err != nil {
			return err
		}
		categoryIDs[c.slug()] = id
		for j, sub := range c.subcategories {
			subID, err := s.subcategory(ctx, id, sub, j+1)
			if err != nil {
				return err
			}
			subcategoryIDs[c.slug()+"/"+slug.Generate(sub)] = subID
		}
	}

	created := 0
	for _, p := range products {
		categoryID, ok := categoryIDs[p.category]
		if !ok {
			return fmt.Errorf("product %q: unknown category %q", p.name, p.category)
		}
		var subcategoryID *string
		if p.subcategory != "" {
			if id, ok := subcategoryIDs[p.category+"/"+p.subcategory]; ok {
				subcategoryID = &id
			}
		}
		ok, err := s.product(ctx, p, categoryID, subcategoryID)
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}
	s.log.Info("products seeded", slog.Int("created", created), slog.Int("total", len(products)))
	return nil
}

func (s *seeder) user(ctx context.Context, email, name, password string, role domain.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", email, err)
	}
	tag, err := s.db.Exec(ctx,
		`INSERT INTO users (email, name, password_hash, auth_provider, role)
		 VALUES ($1, $2, $3, 'credentials', $4)
		 ON CONFLICT (email) DO NOTHING`,
		email, name, string(hash), string(role),
	)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", email, err)
	}
	s.log.Info("user", slog.String("email", email), slog.String("role", string(role)),
		slog.Bool("created", tag.RowsAffected() == 1))
	return nil
}

// insertOrSelect runs an ON CONFLICT DO NOTHING ... RETURNING id insert and
// falls back to lookup when the row already existed.
func (s *seeder) insertOrSelect(ctx context.Context, insert string, insertArgs []any, lookup string, lookupArgs ...any) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, insert, insertArgs...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = s.db.QueryRow(ctx, lookup, lookupArgs...).Scan(&id)
	}
	return id, err
}

func (s *seeder) category(ctx context.Context, c categoryDef, order int) (string, error) {
	id, err := s.insertOrSelect(ctx,
		`INSERT INTO categories (name, slug, description, sort_order)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (slug) DO NOTHING
		 RETURNING id`,
		[]any{c.name, c.slug(), c.description, order},
		`SELECT id FROM categories WHERE slug = $1`, c.slug(),
	)
	if err != nil {
		return "", fmt.Errorf("seed category %q: %w", c.name, err)
	}
	return id, nil
}

func (s *seeder) subcategory(ctx context.Context, categoryID, name string, order int) (string, error) {
	sl := slug.Generate(name)
	id, err := s.insertOrSelect(ctx,
		`INSERT INTO subcategories (category_id, name, slug, sort_order)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (category_id, slug) DO NOTHING
		 RETURNING id`,
		[]any{categoryID, name, sl, order},
		`SELECT id FROM subcategories WHERE category_id = $1 AND slug = $2`, categoryID, sl,
	)
	if err != nil {
		return "", fmt.Errorf("seed subcategory %q: %w", name, err)
	}
	return id, nil
}

// product inserts p with its variants and images in one transaction. It
// reports false when a product with the same slug already exists; existing
// products are left untouched.
func (s *seeder) product(ctx context.Context, p productDef, categoryID string, subcategoryID *string) (bool, error) {
	variants := p.variants()
	stock := p.stock
	if len(variants) > 0 {
		stock = domain.TotalStock(variants)
	}

	created := false
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx,
			`INSERT INTO products (name, slug, description, price, original_price, stock_quantity,
			                       sizes, colors, fabric, is_featured, is_bestseller, is_new,
			                       category_id, subcategory_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			 ON CONFLICT (slug) DO NOTHING
			 RETURNING id`,
			p.name, slug.Generate(p.name), p.description, p.price*100, p.originalPrice(), stock,
			nonNil(p.sizes), nonNil(p.colors), p.fabric, p.featured, p.bestseller, p.isNew,
			categoryID, subcategoryID,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		for _, v := range variants {
			if _, err := tx.Exec(ctx,
				`INSERT INTO product_variants (product_id, size, color, stock_quantity, price_adjustment, is_active)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (product_id, size, color) DO NOTHING`,
				id, v.Size, v.Color, v.StockQuantity, v.PriceAdjustment, v.IsActive,
			); err != nil {
				return fmt.Errorf("variant %s: %w", v.Key(), err)
			}
		}

		for i, url := range p.imageURLs() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO product_images (product_id, url, alt_text, sort_order, is_primary)
				 VALUES ($1, $2, $3, $4, $5)`,
				id, url, fmt.Sprintf("%s - image %d", p.name, i+1), i, i == 0,
			); err != nil {
				return fmt.Errorf("image %d: %w", i+1, err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed product %q: %w", p.name, err)
	}
	if created {
		s.log.Debug("product", slog.String("name", p.name), slog.Int("variants", len(variants)))
	}
	return created, nil
}

func nonNil(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

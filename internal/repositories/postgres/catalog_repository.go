package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dessertly/ordersync/internal/models"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) BulkCreate(ctx context.Context, items []*models.MenuItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{"id", "name", "price", "category", "description", "image_url"},
		pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
			return []interface{}{
				items[i].ID,
				items[i].Name,
				items[i].Price,
				items[i].Category,
				items[i].Description,
				items[i].ImageURL,
			}, nil
		}),
	)
	return err
}

func (r *CatalogRepository) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
        INSERT INTO menu_items (id, name, price, category, description, image_url)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Price,
		item.Category,
		item.Description,
		item.ImageURL,
	)
	return err
}

func (r *CatalogRepository) GetAll(ctx context.Context) (map[string]*models.MenuItem, error) {
	query := `SELECT id, name, price, category, description, image_url FROM menu_items`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string]*models.MenuItem)
	for rows.Next() {
		item := &models.MenuItem{}
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Price,
			&item.Category,
			&item.Description,
			&item.ImageURL,
		)
		if err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *CatalogRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items CASCADE")
	return err
}

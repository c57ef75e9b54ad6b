package postgres

import (
	"context"
	"database/sql"
	"time"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
)

const materialColumns = `id, category_id, name, COALESCE(brand, ''), COALESCE(model, ''), COALESCE(description, ''),
	       price, active, COALESCE(image_url, ''), created_on, updated_on`

type materialRepository struct {
	db *sql.DB
}

func NewMaterialRepository(db *sql.DB) repository.MaterialRepository {
	return &materialRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row rowScanner) (domain.Material, error) {
	var m domain.Material
	var price sql.NullFloat64
	var updatedOn sql.NullTime
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Brand, &m.Model, &m.Description,
		&price, &m.Active, &m.ImageURL, &m.CreatedOn, &updatedOn)
	if err != nil {
		return m, err
	}
	if price.Valid {
		p := price.Float64
		m.Price = &p
	}
	if updatedOn.Valid {
		t := updatedOn.Time
		m.UpdatedOn = &t
	}
	return m, nil
}

func (r *materialRepository) list(ctx context.Context, query string, args ...any) ([]domain.Material, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *materialRepository) List(ctx context.Context) ([]domain.Material, error) {
	logger.DatabaseCall("SELECT", "materials")
	materials, err := r.list(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY name`)
	logger.DatabaseResult("SELECT", int64(len(materials)), err)
	return materials, err
}

// ListActive returns the reservable catalog.
func (r *materialRepository) ListActive(ctx context.Context) ([]domain.Material, error) {
	logger.DatabaseCall("SELECT", "materials", "active", true)
	materials, err := r.list(ctx, `SELECT `+materialColumns+` FROM materials WHERE active = true ORDER BY name`)
	logger.DatabaseResult("SELECT", int64(len(materials)), err)
	return materials, err
}

func (r *materialRepository) GetByID(ctx context.Context, id int32) (*domain.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	m, err := scanMaterial(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (r *materialRepository) Create(ctx context.Context, m *domain.Material) error {
	logger.EnterMethod("materialRepository.Create", "name", m.Name)

	query := `INSERT INTO materials (category_id, name, brand, model, description, price, active, image_url, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	m.CreatedOn = time.Now()
	err := r.db.QueryRowContext(ctx, query, m.CategoryID, m.Name, m.Brand, m.Model, m.Description,
		m.Price, m.Active, m.ImageURL, m.CreatedOn).Scan(&m.ID)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("materialRepository.Create", err, "name", m.Name)
		return err
	}

	logger.ExitMethod("materialRepository.Create", "materialID", m.ID)
	return nil
}

func (r *materialRepository) Update(ctx context.Context, m *domain.Material) error {
	logger.EnterMethod("materialRepository.Update", "materialID", m.ID)

	query := `UPDATE materials SET category_id=$1, name=$2, brand=$3, model=$4, description=$5, price=$6, active=$7, image_url=$8, updated_on=$9
	          WHERE id=$10`
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, m.CategoryID, m.Name, m.Brand, m.Model, m.Description,
		m.Price, m.Active, m.ImageURL, now, m.ID)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("materialRepository.Update", err, "materialID", m.ID)
		return err
	}
	m.UpdatedOn = &now

	logger.ExitMethod("materialRepository.Update", "materialID", m.ID)
	return nil
}

func (r *materialRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "materials", "materialID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err == nil {
		err = requireAffected(res)
	}
	logger.DatabaseResult("DELETE", 0, err, "materialID", id)
	return mapError(err)
}

// requireAffected reports sql.ErrNoRows when a write touched nothing.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

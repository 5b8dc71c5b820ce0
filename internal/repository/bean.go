package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brewlog/brewlog/internal/model"
)

// Common errors for bean repository operations.
var (
	ErrBeanNotFound   = errors.New("bean not found")
	ErrBeanNameExists = errors.New("bean name already exists for this owner")
)

// CreateBean inserts a new bean into the database.
// Bean names are unique per owner, enforced by a composite unique index.
func (r *Repository) CreateBean(ctx context.Context, bean *model.Bean) error {
	query := `
		INSERT INTO beans (id, user_id, name, origin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		bean.ID,
		bean.OwnerID,
		bean.Name,
		bean.Origin,
		bean.CreatedAt,
		bean.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "beans_user_id_name_key") {
			return ErrBeanNameExists
		}
		return fmt.Errorf("failed to create bean: %w", err)
	}

	return nil
}

// GetBeanByID retrieves a bean by its ID.
func (r *Repository) GetBeanByID(ctx context.Context, id string) (*model.Bean, error) {
	query := `
		SELECT id, user_id, name, origin, created_at, updated_at
		FROM beans
		WHERE id = $1
	`

	bean, err := scanBean(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBeanNotFound
		}
		return nil, fmt.Errorf("failed to get bean by ID: %w", err)
	}

	return bean, nil
}

// ListBeansByOwner retrieves all beans owned by a user, ordered by name.
func (r *Repository) ListBeansByOwner(ctx context.Context, ownerID string) ([]*model.Bean, error) {
	query := `
		SELECT id, user_id, name, origin, created_at, updated_at
		FROM beans
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list beans: %w", err)
	}
	defer rows.Close()

	var beans []*model.Bean
	for rows.Next() {
		bean, err := scanBean(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bean: %w", err)
		}
		beans = append(beans, bean)
	}

	return beans, rows.Err()
}

// BeanNameExists reports whether the owner already has a bean with this name.
// Uniqueness is scoped per owner, not global.
func (r *Repository) BeanNameExists(ctx context.Context, ownerID, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM beans WHERE user_id = $1 AND name = $2)`,
		ownerID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bean name existence: %w", err)
	}
	return exists, nil
}

// GetBeanOrigin resolves the origin of an owner's bean by name.
// Returns ErrBeanNotFound when the owner has no bean with that name.
func (r *Repository) GetBeanOrigin(ctx context.Context, ownerID, name string) (string, error) {
	var origin string
	err := r.pool.QueryRow(ctx,
		`SELECT origin FROM beans WHERE user_id = $1 AND name = $2`,
		ownerID, name,
	).Scan(&origin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrBeanNotFound
		}
		return "", fmt.Errorf("failed to get bean origin: %w", err)
	}
	return origin, nil
}

// UpdateBean updates a bean's mutable fields (name and origin).
// Ownership is never updated.
func (r *Repository) UpdateBean(ctx context.Context, bean *model.Bean) error {
	query := `
		UPDATE beans
		SET name = $2, origin = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, bean.ID, bean.Name, bean.Origin, bean.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "beans_user_id_name_key") {
			return ErrBeanNameExists
		}
		return fmt.Errorf("failed to update bean: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBeanNotFound
	}

	return nil
}

// DeleteBeanCascade deletes a bean and its recipes as one transaction.
func (r *Repository) DeleteBeanCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM recipes WHERE bean_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete bean recipes: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM beans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bean: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBeanNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cascade delete: %w", err)
	}

	return nil
}

// scanBean scans a bean row from a query result.
func scanBean(row pgx.Row) (*model.Bean, error) {
	var bean model.Bean
	err := row.Scan(
		&bean.ID,
		&bean.OwnerID,
		&bean.Name,
		&bean.Origin,
		&bean.CreatedAt,
		&bean.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bean, nil
}

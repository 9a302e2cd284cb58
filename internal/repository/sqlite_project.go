package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
)

type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectSelect = `SELECT id, short_id, name, client, created_at, updated_at FROM projects`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, short_id, name, client, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.ShortID, p.Name, p.Client, formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.ShortID, err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return r.getOne(ctx, "id", projectSelect+` WHERE id = ?`, id)
}

// GetByShortID matches case-insensitively.
func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return r.getOne(ctx, "short ID", projectSelect+` WHERE UPPER(short_id) = UPPER(?)`, shortID)
}

func (r *SQLiteProjectRepo) getOne(ctx context.Context, keyName, query, key string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project with %s %q: %w", keyName, key, domain.ErrNotFound)
	}
	return p, err
}

// List returns projects oldest first.
func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, projectSelect+` ORDER BY created_at, short_id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return out, nil
}

// scanProject returns sql.ErrNoRows unwrapped so callers can map it.
func scanProject(s scanner) (*domain.Project, error) {
	var (
		p                domain.Project
		created, updated string
	)
	if err := s.Scan(&p.ID, &p.ShortID, &p.Name, &p.Client, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	var err error
	if p.CreatedAt, err = parseTimestamp(created); err != nil {
		return nil, fmt.Errorf("project %s created_at: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return nil, fmt.Errorf("project %s updated_at: %w", p.ID, err)
	}
	return &p, nil
}

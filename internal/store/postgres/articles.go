package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const articleColumns = `id, title, content, summary, category, author, image_url, read_time,
	tags::text AS tags, published_at, created_at, updated_at`

// CreateArticle inserts a. A taken id is ErrDuplicate.
func (s *Store) CreateArticle(ctx context.Context, a *models.Article) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, content, summary, category, author, image_url, read_time, tags, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::text::text[], $10, $11, $12)`,
		a.ID, a.Title, a.Content, a.Summary, a.Category, a.Author, a.ImageURL, a.ReadTime,
		a.Tags, a.PublishedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetArticle returns ErrNotFound for an unknown id.
func (s *Store) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	if err := s.db.GetContext(ctx, &a, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &a, nil
}

// ListArticles orders by published_at, newest first.
func (s *Store) ListArticles(ctx context.Context, category string) ([]models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY published_at DESC, id`

	out := []models.Article{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return out, nil
}

// UpdateArticle overwrites every mutable column.
func (s *Store) UpdateArticle(ctx context.Context, a *models.Article) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles
		 SET title = $2, content = $3, summary = $4, category = $5, author = $6, image_url = $7,
		     read_time = $8, tags = $9::text::text[], published_at = $10, updated_at = $11
		 WHERE id = $1`,
		a.ID, a.Title, a.Content, a.Summary, a.Category, a.Author, a.ImageURL, a.ReadTime,
		a.Tags, a.PublishedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return requireRow(res)
}

// DeleteArticle succeeds whether or not the row exists.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

// ArticleInput is used for create and, with nil meaning unchanged, update.
type ArticleInput struct {
	Title       *string
	Content     *string
	Summary     *string
	Category    *string
	Author      *string
	ImageURL    *string
	ReadTime    *int
	Tags        *[]string
	PublishedAt *time.Time
}

type ArticleService struct {
	articles store.ArticleStore
	now      func() time.Time
}

// NewArticleService creates an ArticleService over the given store.
func NewArticleService(articles store.ArticleStore) *ArticleService {
	return &ArticleService{
		articles: articles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns articles newest first, optionally narrowed to one category.
func (s *ArticleService) List(ctx context.Context, category string) ([]models.Article, error) {
	out, err := s.articles.ListArticles(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return out, nil
}

// ListByCategory is List with a required category.
func (s *ArticleService) ListByCategory(ctx context.Context, category string) ([]models.Article, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, models.NewValidationError(map[string]string{"category": "category is required"})
	}
	return s.List(ctx, category)
}

// GetByID returns ARTICLE_NOT_FOUND for an unknown id.
func (s *ArticleService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	a, err := s.articles.GetArticle(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewArticleNotFoundError()
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// Search matches term case-insensitively against title and content.
func (s *ArticleService) Search(ctx context.Context, term string) ([]models.Article, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, models.NewValidationError(map[string]string{"q": "search term is required"})
	}
	all, err := s.articles.ListArticles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	out := []models.Article{}
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Title), term) || strings.Contains(strings.ToLower(a.Content), term) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Create requires a title and content.
func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	details := map[string]string{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		details["title"] = "title is required"
	}
	if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
		details["content"] = "content is required"
	}
	if in.ReadTime != nil && *in.ReadTime < 0 {
		details["readTime"] = "readTime cannot be negative"
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	now := s.now()
	a := &models.Article{
		ID:          uuid.NewString(),
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyArticle(a, in)

	if err := s.articles.CreateArticle(ctx, a); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return a, nil
}

// Update applies the non-nil fields of in and returns the stored article.
func (s *ArticleService) Update(ctx context.Context, id string, in ArticleInput) (*models.Article, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		details["title"] = "title cannot be empty"
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		details["content"] = "content cannot be empty"
	}
	if in.ReadTime != nil && *in.ReadTime < 0 {
		details["readTime"] = "readTime cannot be negative"
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	applyArticle(a, in)
	a.UpdatedAt = s.now()
	if err := s.articles.UpdateArticle(ctx, a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewArticleNotFoundError()
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return s.GetByID(ctx, a.ID)
}

// Delete succeeds whether or not the article exists.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.articles.DeleteArticle(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func applyArticle(a *models.Article, in ArticleInput) {
	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.Summary != nil {
		a.Summary = in.Summary
	}
	if in.Category != nil {
		a.Category = strings.TrimSpace(*in.Category)
	}
	if in.Author != nil {
		a.Author = in.Author
	}
	if in.ImageURL != nil {
		a.ImageURL = in.ImageURL
	}
	if in.ReadTime != nil {
		a.ReadTime = in.ReadTime
	}
	if in.Tags != nil {
		a.Tags = *in.Tags
	}
	if in.PublishedAt != nil {
		a.PublishedAt = in.PublishedAt.UTC()
	}
}

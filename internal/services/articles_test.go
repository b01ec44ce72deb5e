package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peacenest/internal/models"
	"peacenest/internal/store/memory"
)

func strPtr(s string) *string { return &s }

func TestArticles_CreateListSearch(t *testing.T) {
	svc := NewArticleService(memory.New())
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	first := base
	_, err := svc.Create(ctx, ArticleInput{Title: strPtr("Sleep hygiene"), Content: strPtr("Keep a routine."), Category: strPtr("sleep"), PublishedAt: &first})
	require.NoError(t, err)
	second := base.Add(24 * time.Hour)
	_, err = svc.Create(ctx, ArticleInput{Title: strPtr("Box breathing"), Content: strPtr("Calms the nervous system before SLEEP."), Category: strPtr("stress"), PublishedAt: &second})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Box breathing", all[0].Title)

	sleep, err := svc.ListByCategory(ctx, "sleep")
	require.NoError(t, err)
	require.Len(t, sleep, 1)

	found, err := svc.Search(ctx, "sleep")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = svc.Search(ctx, "   ")
	assert.True(t, models.IsKind(err, models.KindValidation))
}

func TestArticles_CreateRequiresTitleAndContent(t *testing.T) {
	svc := NewArticleService(memory.New())

	_, err := svc.Create(context.Background(), ArticleInput{Title: strPtr(" ")})
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Contains(t, apiErr.Details, "title")
	assert.Contains(t, apiErr.Details, "content")
}

func TestArticles_UpdateAndDelete(t *testing.T) {
	svc := NewArticleService(memory.New())
	ctx := context.Background()

	a, err := svc.Create(ctx, ArticleInput{Title: strPtr("Draft"), Content: strPtr("Body")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, ArticleInput{Title: strPtr("Final"), Tags: &[]string{"calm"}})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Body", updated.Content)
	assert.Equal(t, []string{"calm"}, []string(updated.Tags))

	_, err = svc.Update(ctx, "missing", ArticleInput{})
	assert.True(t, models.IsKind(err, models.KindNotFound))

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.GetByID(ctx, a.ID)
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

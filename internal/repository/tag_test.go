package repository

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateTag(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "go", "Go")
	require.NoError(t, err)
	second, err := repo.FindOrCreate(ctx, "go", "Go")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListWithPublishedCounts(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTagRepository(db)
	author := repoAuthor(t, db)
	ctx := context.Background()

	golang := models.Tag{Slug: "go", Name: "Go"}
	testingTag := models.Tag{Slug: "testing", Name: "Testing"}
	orphan := models.Tag{Slug: "orphan", Name: "Orphan"}
	require.NoError(t, db.Create(&golang).Error)
	require.NoError(t, db.Create(&testingTag).Error)
	require.NoError(t, db.Create(&orphan).Error)

	repoPost(t, db, author, "one", models.StatusPublished,
		time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC), golang, testingTag)
	repoPost(t, db, author, "two", models.StatusPublished,
		time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC), golang)
	repoPost(t, db, author, "drafted", models.StatusDraft,
		time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC), orphan)

	tags, err := repo.ListWithPublishedCounts(ctx)
	require.NoError(t, err)

	// Only tags with published posts, ordered by name.
	require.Len(t, tags, 2)
	assert.Equal(t, "Go", tags[0].Name)
	assert.Equal(t, int64(2), tags[0].PostCount)
	assert.Equal(t, "Testing", tags[1].Name)
	assert.Equal(t, int64(1), tags[1].PostCount)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/testdb"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedArticle(t *testing.T, db database.Database, title, status string, order int, createdAt time.Time, tags ...string) *models.Article {
	t.Helper()
	a := &models.Article{
		ID:              uuid.New(),
		Title:           datatypes.NewJSONType(models.Same(title)),
		Content:         datatypes.NewJSONType(models.Same("content")),
		CommentsEnabled: true,
		Status:          status,
		Order:           order,
		CreatedAt:       createdAt,
	}
	a.SetTags(tags)
	require.NoError(t, db.ArticleRepo().Add(context.Background(), a))
	return a
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single", "203.0.113.7", "203.0.113.7"},
		{"forwarding chain", "203.0.113.7, 10.0.0.1, 10.0.0.2", "203.0.113.7"},
		{"padded", "  198.51.100.2 ", "198.51.100.2"},
		{"empty", "", UnknownAddress},
		{"blank first entry", " ,10.0.0.1", UnknownAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAddress(tt.raw))
		})
	}
}

func TestEngagementTracker_ToggleLikeTwiceRestoresState(t *testing.T) {
	db := testdb.New(t)
	tracker := NewEngagementTracker(db)
	ctx := context.Background()
	a := seedArticle(t, db, "post", models.StatusPublished, 0, time.Now())

	require.NoError(t, db.ArticleRepo().AddLike(ctx, a.ID, "198.51.100.9"))

	before, err := tracker.GetLikeStatus(ctx, a.ID, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: false, LikeCount: 1}, before)

	first, err := tracker.ToggleLike(ctx, a.ID, "203.0.113.7, 10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: true, LikeCount: 2}, first)

	second, err := tracker.ToggleLike(ctx, a.ID, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, before, second)
}

func TestEngagementTracker_UnknownAddressIsOneLiker(t *testing.T) {
	db := testdb.New(t)
	tracker := NewEngagementTracker(db)
	ctx := context.Background()
	a := seedArticle(t, db, "post", models.StatusPublished, 0, time.Now())

	state, err := tracker.ToggleLike(ctx, a.ID, "")
	require.NoError(t, err)
	assert.True(t, state.Liked)

	state, err = tracker.GetLikeStatus(ctx, a.ID, UnknownAddress)
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: true, LikeCount: 1}, state)
}

func TestEngagementTracker_RecordViewCountsEveryCall(t *testing.T) {
	db := testdb.New(t)
	tracker := NewEngagementTracker(db)
	ctx := context.Background()
	a := seedArticle(t, db, "post", models.StatusPublished, 0, time.Now())

	var views int64
	var err error
	for i := 0; i < 7; i++ {
		views, err = tracker.RecordView(ctx, a.ID)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 7, views)
}

func TestEngagementTracker_MissingArticle(t *testing.T) {
	db := testdb.New(t)
	tracker := NewEngagementTracker(db)
	ctx := context.Background()
	missing := uuid.New()

	_, err := tracker.RecordView(ctx, missing)
	assert.True(t, errs.IsNotFound(err))

	_, err = tracker.ToggleLike(ctx, missing, "203.0.113.7")
	assert.True(t, errs.IsNotFound(err))

	_, err = tracker.GetLikeStatus(ctx, missing, "203.0.113.7")
	assert.True(t, errs.IsNotFound(err))

	n, err := db.ArticleRepo().CountLikes(ctx, missing)
	require.NoError(t, err)
	assert.Zero(t, n)
}

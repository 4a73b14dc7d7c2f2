package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
)

// UnknownAddress stands in for a requester whose address could not be resolved.
const UnknownAddress = "unknown"

// NormalizeAddress keeps the first entry of a comma separated forwarding chain.
// Blank input yields UnknownAddress.
func NormalizeAddress(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownAddress
	}
	return first
}

// LikeState is a requester's like state on one article.
type LikeState struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// EngagementTracker counts article views and toggles likes keyed by requester address.
type EngagementTracker struct {
	articles *database.ArticleRepo
}

func NewEngagementTracker(db database.Database) *EngagementTracker {
	return &EngagementTracker{articles: db.ArticleRepo()}
}

// RecordView adds one view and returns the new count. Repeat views all count.
func (e *EngagementTracker) RecordView(ctx context.Context, articleID uuid.UUID) (int64, error) {
	return e.articles.IncrementViews(ctx, articleID)
}

// ToggleLike removes the address from the like set when present and adds it otherwise.
//
// The branch is chosen from a separate read, so two concurrent toggles from one address may
// both take the same branch. The mutation itself uses set add/remove, so the address ends up
// stored at most once either way.
func (e *EngagementTracker) ToggleLike(ctx context.Context, articleID uuid.UUID, address string) (LikeState, error) {
	address = NormalizeAddress(address)
	if err := e.ensureArticle(ctx, articleID); err != nil {
		return LikeState{}, err
	}

	liked, err := e.articles.HasLike(ctx, articleID, address)
	if err != nil {
		return LikeState{}, err
	}

	if liked {
		err = e.articles.RemoveLike(ctx, articleID, address)
	} else {
		err = e.articles.AddLike(ctx, articleID, address)
	}
	if err != nil {
		return LikeState{}, err
	}

	count, err := e.articles.CountLikes(ctx, articleID)
	if err != nil {
		return LikeState{}, err
	}
	return LikeState{Liked: !liked, LikeCount: count}, nil
}

// GetLikeStatus reports the like state without changing it.
func (e *EngagementTracker) GetLikeStatus(ctx context.Context, articleID uuid.UUID, address string) (LikeState, error) {
	address = NormalizeAddress(address)
	if err := e.ensureArticle(ctx, articleID); err != nil {
		return LikeState{}, err
	}

	liked, err := e.articles.HasLike(ctx, articleID, address)
	if err != nil {
		return LikeState{}, err
	}
	count, err := e.articles.CountLikes(ctx, articleID)
	if err != nil {
		return LikeState{}, err
	}
	return LikeState{Liked: liked, LikeCount: count}, nil
}

func (e *EngagementTracker) ensureArticle(ctx context.Context, articleID uuid.UUID) error {
	ok, err := e.articles.Exists(ctx, articleID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewNotFound("article")
	}
	return nil
}

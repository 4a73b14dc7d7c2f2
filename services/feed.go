package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	adminCountConcurrency = 4
)

// FeedPage is one page of the public article listing.
type FeedPage struct {
	Items      []*models.ArticleView
	Count      int
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// FeedBuilder assembles article listings with like counts in place of raw likes.
type FeedBuilder struct {
	articles *database.ArticleRepo
	comments *database.CommentRepo
}

func NewFeedBuilder(db database.Database) *FeedBuilder {
	return &FeedBuilder{articles: db.ArticleRepo(), comments: db.CommentRepo()}
}

// ListPublished returns a page of published articles. page and limit below 1 fall back to
// DefaultPage and DefaultLimit; limit has no upper bound.
func (f *FeedBuilder) ListPublished(ctx context.Context, page, limit int, tag, address string) (*FeedPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	address = NormalizeAddress(address)
	filter := database.ArticleFilter{Status: models.StatusPublished, Tag: tag}

	// A page whose offset does not fit in an int lies past every stored row.
	var articles []*models.Article
	if page-1 <= math.MaxInt/limit {
		var err error
		articles, err = f.articles.Find(ctx, filter, (page-1)*limit, limit)
		if err != nil {
			return nil, err
		}
	}
	total, err := f.articles.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := articleIDs(articles)
	counts, err := f.articles.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := f.articles.LikedBy(ctx, ids, address)
	if err != nil {
		return nil, err
	}

	items := make([]*models.ArticleView, 0, len(articles))
	for _, a := range articles {
		items = append(items, models.NewArticleView(a, counts[a.ID]).WithLiked(liked[a.ID]))
	}

	return &FeedPage{
		Items:      items,
		Count:      len(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetDetail returns one article of any status with its approved comments, newest first.
func (f *FeedBuilder) GetDetail(ctx context.Context, articleID uuid.UUID, address string) (*models.ArticleView, error) {
	address = NormalizeAddress(address)

	article, err := f.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	comments, err := f.comments.FindByArticle(ctx, articleID, true)
	if err != nil {
		return nil, err
	}
	count, err := f.articles.CountLikes(ctx, articleID)
	if err != nil {
		return nil, err
	}
	liked, err := f.articles.HasLike(ctx, articleID, address)
	if err != nil {
		return nil, err
	}

	view := models.NewArticleView(article, count).WithLiked(liked)
	view.Comments = comments
	return view, nil
}

// ListAllForAdmin returns every article regardless of status, with total and pending comment
// counts attached.
func (f *FeedBuilder) ListAllForAdmin(ctx context.Context) ([]*models.ArticleView, error) {
	articles, err := f.articles.Find(ctx, database.ArticleFilter{}, 0, 0)
	if err != nil {
		return nil, err
	}
	counts, err := f.articles.LikeCounts(ctx, articleIDs(articles))
	if err != nil {
		return nil, err
	}

	views := make([]*models.ArticleView, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(adminCountConcurrency)
	for i, a := range articles {
		views[i] = models.NewArticleView(a, counts[a.ID])
		view := views[i]
		g.Go(func() error {
			cc, err := f.comments.CountByArticle(gctx, view.ID)
			if err != nil {
				return err
			}
			view.CommentCount = &cc.Total
			view.PendingComments = &cc.Pending
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func articleIDs(articles []*models.Article) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids
}

func totalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

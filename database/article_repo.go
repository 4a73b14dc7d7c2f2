package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

const tagMatchCondition = "EXISTS (SELECT 1 FROM article_tags t WHERE t.article_id = articles.id AND LOWER(t.value) = LOWER(?))"

// ArticleFilter narrows article queries. Zero values mean no restriction.
type ArticleFilter struct {
	Status string
	// Tag matches a whole tag, case-insensitively.
	Tag string
}

func (f ArticleFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Tag != "" {
		db = db.Where(tagMatchCondition, f.Tag)
	}
	return db
}

type ArticleRepo struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) *ArticleRepo {
	return &ArticleRepo{db}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Find returns matching articles ordered by display order, newest first within equal order.
// A non-positive limit returns every match.
func (r *ArticleRepo) Find(ctx context.Context, filter ArticleFilter, offset, limit int) ([]*models.Article, error) {
	var articles []*models.Article
	q := filter.apply(r.db.WithContext(ctx).Model(&models.Article{})).
		Preload("Tags", preloadTags).
		Order("sort_order ASC").
		Order("created_at DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&articles).Error; err != nil {
		return nil, notFound(err, "list", "articles")
	}
	return articles, nil
}

// Count returns the number of articles matching filter.
func (r *ArticleRepo) Count(ctx context.Context, filter ArticleFilter) (int64, error) {
	var total int64
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Article{})).Count(&total).Error
	if err != nil {
		return 0, notFound(err, "count", "articles")
	}
	return total, nil
}

// FindByID returns an article with its tags.
func (r *ArticleRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Preload("Tags", preloadTags).First(&article, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "find", "article")
	}
	return &article, nil
}

// Exists reports whether an article with id is stored.
func (r *ArticleRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, notFound(err, "find", "article")
	}
	return n > 0, nil
}

// Add inserts a new article together with its tags.
func (r *ArticleRepo) Add(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return notFound(err, "create", "article")
	}
	return nil
}

// Update saves the article's own columns and replaces its tag list.
func (r *ArticleRepo) Update(ctx context.Context, article *models.Article) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(article).Omit(clause.Associations).
			Select("title", "content", "image", "comments_enabled", "status", "sort_order", "updated_at").
			Updates(article)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}
		for i := range article.Tags {
			article.Tags[i].ID = uuid.Nil
			article.Tags[i].ArticleID = article.ID
		}
		if len(article.Tags) > 0 {
			return tx.Create(&article.Tags).Error
		}
		return nil
	})
	return notFound(err, "update", "article")
}

// Delete removes an article with its tags, likes and every comment that references it.
func (r *ArticleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Article{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return txError(err, "delete", "article")
}

// IncrementViews adds one to the view counter in place and returns the new value.
func (r *ArticleRepo) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Article{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return 0, notFound(res.Error, "update", "article")
	}
	if res.RowsAffected == 0 {
		return 0, notFound(gorm.ErrRecordNotFound, "update", "article")
	}

	var views int64
	err := db.Clauses(dbresolver.Write).Model(&models.Article{}).
		Where("id = ?", id).Pluck("views", &views).Error
	if err != nil {
		return 0, notFound(err, "find", "article")
	}
	return views, nil
}

// AddLike adds address to the article's like set. Adding an existing address is a no-op.
func (r *ArticleRepo) AddLike(ctx context.Context, id uuid.UUID, address string) error {
	like := models.ArticleLike{ArticleID: id, Address: address}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
	return notFound(err, "like", "article")
}

// RemoveLike removes address from the article's like set. Removing a missing address is a no-op.
func (r *ArticleRepo) RemoveLike(ctx context.Context, id uuid.UUID, address string) error {
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND address = ?", id, address).
		Delete(&models.ArticleLike{}).Error
	return notFound(err, "unlike", "article")
}

// HasLike reports whether address is in the article's like set.
func (r *ArticleRepo) HasLike(ctx context.Context, id uuid.UUID, address string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.ArticleLike{}).
		Where("article_id = ? AND address = ?", id, address).Count(&n).Error
	if err != nil {
		return false, notFound(err, "find", "article like")
	}
	return n > 0, nil
}

// CountLikes returns the size of the article's like set.
func (r *ArticleRepo) CountLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.ArticleLike{}).
		Where("article_id = ?", id).Count(&n).Error
	if err != nil {
		return 0, notFound(err, "count", "article likes")
	}
	return n, nil
}

// LikeCounts returns the like set size for each of ids. Articles without likes are absent.
func (r *ArticleRepo) LikeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		ArticleID uuid.UUID
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&models.ArticleLike{}).
		Select("article_id, COUNT(*) AS total").
		Where("article_id IN ?", ids).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, notFound(err, "count", "article likes")
	}
	for _, row := range rows {
		counts[row.ArticleID] = row.Total
	}
	return counts, nil
}

// LikedBy returns the subset of ids that address has liked.
func (r *ArticleRepo) LikedBy(ctx context.Context, ids []uuid.UUID, address string) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return liked, nil
	}
	var found []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.ArticleLike{}).
		Where("article_id IN ? AND address = ?", ids, address).
		Pluck("article_id", &found).Error
	if err != nil {
		return nil, notFound(err, "find", "article likes")
	}
	for _, id := range found {
		liked[id] = true
	}
	return liked, nil
}

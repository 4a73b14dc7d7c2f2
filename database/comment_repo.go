package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByArticle returns the article's comments, newest first. When approvedOnly is set,
// unapproved comments and commenter emails are left out.
func (r *CommentRepo) FindByArticle(ctx context.Context, articleID uuid.UUID, approvedOnly bool) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	q := r.db.WithContext(ctx).Where("article_id = ?", articleID)
	if approvedOnly {
		q = q.Where("approved = ?", true).Omit("email")
	}
	if err := q.Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, notFound(err, "list", "comments")
	}
	return comments, nil
}

// CommentCounts holds the total and unapproved comment counts for one article.
type CommentCounts struct {
	Total   int64
	Pending int64
}

// CountByArticle returns total and pending comment counts for the article.
func (r *CommentRepo) CountByArticle(ctx context.Context, articleID uuid.UUID) (CommentCounts, error) {
	var counts CommentCounts
	db := r.db.WithContext(ctx).Model(&models.Comment{})
	if err := db.Where("article_id = ?", articleID).Count(&counts.Total).Error; err != nil {
		return counts, notFound(err, "count", "comments")
	}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("article_id = ? AND approved = ?", articleID, false).
		Count(&counts.Pending).Error
	if err != nil {
		return counts, notFound(err, "count", "comments")
	}
	return counts, nil
}

func (r *CommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find", "comment")
	}
	return &comment, nil
}

func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return notFound(r.db.WithContext(ctx).Create(comment).Error, "create", "comment")
}

// SetApproved stores the approval flag.
func (r *CommentRepo) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("approved", approved)
	if res.Error != nil {
		return notFound(res.Error, "update", "comment")
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "update", "comment")
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return notFound(res.Error, "delete", "comment")
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "delete", "comment")
	}
	return nil
}

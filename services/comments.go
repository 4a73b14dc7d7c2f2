package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// Moderation handles reader comments. New comments wait for approval.
type Moderation struct {
	articles *database.ArticleRepo
	comments *database.CommentRepo
}

func NewModeration(db database.Database) *Moderation {
	return &Moderation{articles: db.ArticleRepo(), comments: db.CommentRepo()}
}

// Submit stores an unapproved comment. It fails when the article is missing or has comments
// disabled, and nothing is stored in that case.
func (m *Moderation) Submit(ctx context.Context, articleID uuid.UUID, name, email, content string) (*models.Comment, error) {
	article, err := m.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.CommentsEnabled {
		return nil, errs.NewCommentsDisabledError()
	}

	comment := &models.Comment{
		ArticleID: articleID,
		Name:      name,
		Email:     email,
		Content:   content,
		Approved:  false,
	}
	if err := m.comments.Add(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Approved lists the public comments of an article, newest first.
func (m *Moderation) Approved(ctx context.Context, articleID uuid.UUID) ([]*models.Comment, error) {
	return m.comments.FindByArticle(ctx, articleID, true)
}

// All lists every comment of an article, newest first.
func (m *Moderation) All(ctx context.Context, articleID uuid.UUID) ([]*models.Comment, error) {
	return m.comments.FindByArticle(ctx, articleID, false)
}

// ToggleApproval flips the approval flag and returns the updated comment.
func (m *Moderation) ToggleApproval(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	comment, err := m.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.comments.SetApproved(ctx, id, !comment.Approved); err != nil {
		return nil, err
	}
	comment.Approved = !comment.Approved
	return comment, nil
}

func (m *Moderation) Delete(ctx context.Context, id uuid.UUID) error {
	return m.comments.Delete(ctx, id)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Publication states shared by articles and projects.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Article is a blog post with localized title and content.
// Likes are kept in ArticleLike rows and never exposed directly.
type Article struct {
	ID              uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title           datatypes.JSONType[I18n] `json:"title" gorm:"not null"`
	Content         datatypes.JSONType[I18n] `json:"content" gorm:"not null"`
	Image           string                   `json:"image" gorm:"type:text;not null;default:''"`
	Views           int64                    `json:"views" gorm:"not null;default:0"`
	CommentsEnabled bool                     `json:"commentsEnabled" gorm:"not null"`
	Status          string                   `json:"status" gorm:"type:text;not null;index:idx_article_status"`
	Order           int                      `json:"order" gorm:"column:sort_order;not null;default:0;index:idx_article_order,priority:1"`
	CreatedAt       time.Time                `json:"createdAt" gorm:"index:idx_article_order,priority:2,sort:desc"`
	UpdatedAt       time.Time                `json:"updatedAt"`

	Tags []ArticleTag `json:"-" gorm:"foreignKey:ArticleID;references:ID;constraint:OnDelete:CASCADE"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	return nil
}

// TagValues returns the tag strings in their stored order.
func (a *Article) TagValues() []string {
	values := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		values = append(values, t.Value)
	}
	return values
}

// SetTags replaces the tag list, keeping the given order.
func (a *Article) SetTags(values []string) {
	a.Tags = make([]ArticleTag, 0, len(values))
	for i, v := range values {
		a.Tags = append(a.Tags, ArticleTag{ArticleID: a.ID, Value: v, Position: i})
	}
}

// ArticleTag is one entry of an article's ordered tag list.
type ArticleTag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	ArticleID uuid.UUID `json:"articleId" gorm:"type:uuid;not null;index:idx_article_tag_article_id"`
	Value     string    `json:"value" gorm:"type:text;not null;index:idx_article_tag_value"`
	Position  int       `json:"position" gorm:"not null;default:0"`
}

func (t *ArticleTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ArticleLike records that a requester address likes an article. The composite key keeps
// each address at most once per article.
type ArticleLike struct {
	ArticleID uuid.UUID `gorm:"type:uuid;primaryKey;not null"`
	Address   string    `gorm:"type:text;primaryKey;not null"`
	CreatedAt time.Time
}

// ArticleView is the outward projection of an article: raw likes replaced by a count and
// the caller's own like state.
type ArticleView struct {
	ID              uuid.UUID `json:"id"`
	Title           I18n      `json:"title"`
	Content         I18n      `json:"content"`
	Image           string    `json:"image"`
	Views           int64     `json:"views"`
	CommentsEnabled bool      `json:"commentsEnabled"`
	Status          string    `json:"status"`
	Tags            []string  `json:"tags"`
	Order           int       `json:"order"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	LikeCount       int64      `json:"likeCount"`
	Liked           *bool      `json:"liked,omitempty"`
	Comments        []*Comment `json:"comments,omitempty"`
	CommentCount    *int64     `json:"commentCount,omitempty"`
	PendingComments *int64     `json:"pendingComments,omitempty"`
}

func NewArticleView(a *Article, likeCount int64) *ArticleView {
	return &ArticleView{
		ID:              a.ID,
		Title:           a.Title.Data(),
		Content:         a.Content.Data(),
		Image:           a.Image,
		Views:           a.Views,
		CommentsEnabled: a.CommentsEnabled,
		Status:          a.Status,
		Tags:            a.TagValues(),
		Order:           a.Order,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		LikeCount:       likeCount,
	}
}

// WithLiked sets the caller's like state.
func (v *ArticleView) WithLiked(liked bool) *ArticleView {
	v.Liked = &liked
	return v
}

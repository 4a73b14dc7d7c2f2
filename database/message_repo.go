package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db}
}

// FindAll returns messages newest first. A nil read filter returns every message.
func (r *MessageRepo) FindAll(ctx context.Context, read *bool) ([]*models.Message, error) {
	messages := []*models.Message{}
	q := r.db.WithContext(ctx)
	if read != nil {
		q = q.Where("is_read = ?", *read)
	}
	if err := q.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, notFound(err, "list", "messages")
	}
	return messages, nil
}

// CountUnread returns the number of messages not yet marked read.
func (r *MessageRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("is_read = ?", false).Count(&n).Error
	if err != nil {
		return 0, notFound(err, "count", "messages")
	}
	return n, nil
}

func (r *MessageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find", "message")
	}
	return &message, nil
}

func (r *MessageRepo) Add(ctx context.Context, message *models.Message) error {
	return notFound(r.db.WithContext(ctx).Create(message).Error, "create", "message")
}

// SetFlag sets is_read or is_replied on a message and returns the updated record.
func (r *MessageRepo) SetFlag(ctx context.Context, id uuid.UUID, column string, value bool) (*models.Message, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return nil, notFound(res.Error, "update", "message")
	}
	if res.RowsAffected == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "update", "message")
	}
	return r.FindByID(ctx, id)
}

func (r *MessageRepo) MarkRead(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	return r.SetFlag(ctx, id, "is_read", true)
}

func (r *MessageRepo) MarkReplied(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	return r.SetFlag(ctx, id, "is_replied", true)
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", id)
	if res.Error != nil {
		return notFound(res.Error, "delete", "message")
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "delete", "message")
	}
	return nil
}

// DeleteRead removes every read message and returns how many were removed.
func (r *MessageRepo) DeleteRead(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("is_read = ?", true).Delete(&models.Message{})
	if res.Error != nil {
		return 0, notFound(res.Error, "delete", "messages")
	}
	return res.RowsAffected, nil
}

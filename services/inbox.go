package services

import (
	"context"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
)

// Inbox stores contact messages and notifies the owner about new ones.
type Inbox struct {
	messages   *database.MessageRepo
	dispatcher *Dispatcher
}

func NewInbox(db database.Database, dispatcher *Dispatcher) *Inbox {
	return &Inbox{messages: db.MessageRepo(), dispatcher: dispatcher}
}

// Submit persists msg and queues a notification. Notification failures never fail Submit.
func (i *Inbox) Submit(ctx context.Context, msg *models.Message) error {
	msg.Read = false
	msg.Replied = false
	if err := i.messages.Add(ctx, msg); err != nil {
		return err
	}
	if i.dispatcher != nil {
		i.dispatcher.Dispatch(msg)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/codingcraftz/wedding/constants"
	"github.com/codingcraftz/wedding/guestbook"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

// messageRepository is the guestbook collection stored with gorm. It is
// the remote store every visitor's guestbook.Store talks to.
type messageRepository struct {
	db       *gorm.DB
	cache    *MessageCache
	onInsert func(guestbook.Message)
}

func newMessageRepository(db *gorm.DB, cache *MessageCache) *messageRepository {
	return &messageRepository{db: db, cache: cache}
}

func (r *messageRepository) Insert(ctx context.Context, d guestbook.Draft) (guestbook.Message, error) {
	hash, err := guestbook.HashSecret(d.Secret)
	if err != nil {
		return guestbook.Message{}, fmt.Errorf("hashing secret: %w", err)
	}

	entry := GuestbookEntry{
		ID:         uuid.NewString(),
		Author:     d.Author,
		Message:    d.Body,
		SecretHash: hash,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return guestbook.Message{}, err
	}
	r.cache.Invalidate()

	msg := entry.toMessage()
	if r.onInsert != nil {
		go r.onInsert(msg)
	}
	return msg, nil
}

func (r *messageRepository) List(ctx context.Context) ([]guestbook.Message, error) {
	if messages, ok := r.cache.GetMessages(); ok {
		return messages, nil
	}

	var entries []GuestbookEntry
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&entries).Error; err != nil {
		return nil, err
	}

	messages := make([]guestbook.Message, len(entries))
	for i, e := range entries {
		messages[i] = e.toMessage()
	}
	r.cache.SetMessages(messages)
	return messages, nil
}

func (r *messageRepository) Secret(ctx context.Context, id string) (string, error) {
	var entry GuestbookEntry
	err := r.db.WithContext(ctx).Select("secret_hash").Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrMessageNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.SecretHash, nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&GuestbookEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	r.cache.Invalidate()
	return nil
}

// notifyCouple returns an insert hook that mails the couple about each
// new message.
func notifyCouple(m *mailer) func(guestbook.Message) {
	return func(msg guestbook.Message) {
		subject := fmt.Sprintf("New guestbook message from %s", msg.Author)
		body := msg.Body + "\n\n" + msg.CreatedAt.Format("2006-01-02 15:04") + "\n" + constants.PUBLIC_URL + "/#guestbook"
		if err := m.Send(subject, body); err != nil {
			logger.Warn("guestbook notification failed", zap.String("id", msg.ID), zap.Error(err))
		}
	}
}

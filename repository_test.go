package main

import (
	"testing"
	"time"

	"github.com/codingcraftz/wedding/guestbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryInsertHashesSecret(t *testing.T) {
	newTestApp(t)

	var notified []guestbook.Message
	done := make(chan struct{})
	repo.onInsert = func(m guestbook.Message) {
		notified = append(notified, m)
		close(done)
	}

	msg, err := repo.Insert(t.Context(), guestbook.Draft{Author: "Minji", Body: "Hello", Secret: "1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())

	stored, err := repo.Secret(t.Context(), msg.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "1234", stored)
	assert.True(t, guestbook.MatchSecret(stored, "1234"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("insert hook was not called")
	}
	require.Len(t, notified, 1)
	assert.Equal(t, msg.ID, notified[0].ID)
}

func TestRepositoryListNewestFirst(t *testing.T) {
	newTestApp(t)

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, author := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&GuestbookEntry{
			ID:         author,
			Author:     author,
			Message:    "hi",
			SecretHash: "x",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	messages, err := repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "third", messages[0].Author)
	assert.Equal(t, "first", messages[2].Author)

	cached, ok := messageCache.GetMessages()
	require.True(t, ok)
	assert.Len(t, cached, 3)
}

func TestRepositoryDelete(t *testing.T) {
	newTestApp(t)

	msg, err := repo.Insert(t.Context(), guestbook.Draft{Author: "Minji", Body: "Hello", Secret: "1234"})
	require.NoError(t, err)

	_, err = repo.List(t.Context())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(t.Context(), msg.ID))
	_, ok := messageCache.GetMessages()
	assert.False(t, ok, "delete invalidates the cache")

	assert.ErrorIs(t, repo.Delete(t.Context(), msg.ID), ErrMessageNotFound)

	_, err = repo.Secret(t.Context(), msg.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

package main

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/codingcraftz/wedding/guestbook"
	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to   []string
	body string
}

func fakeMailer(fail string) (*mailer, *[]sentMail) {
	var sent []sentMail
	m := &mailer{
		addr:       "smtp.example.com:587",
		from:       "wedding@example.com",
		recipients: []string{"groom@example.com", "bride@example.com"},
		send: func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
			raw, _ := io.ReadAll(r)
			sent = append(sent, sentMail{to: to, body: string(raw)})
			if to[0] == fail {
				return errors.New("mailbox unavailable")
			}
			return nil
		},
	}
	return m, &sent
}

func TestMailerSendsEachRecipient(t *testing.T) {
	m, sent := fakeMailer("")
	require.NoError(t, m.Send("Hello", "line one\nline two"))

	require.Len(t, *sent, 2)
	assert.Equal(t, []string{"groom@example.com"}, (*sent)[0].to)
	assert.Contains(t, (*sent)[0].body, "To: groom@example.com\r\n")
	assert.Contains(t, (*sent)[0].body, "Subject: Hello\r\n")
	assert.True(t, strings.HasSuffix((*sent)[1].body, "line one\r\nline two"))
}

func TestMailerKeepsGoingAfterFailure(t *testing.T) {
	m, sent := fakeMailer("groom@example.com")
	assert.Error(t, m.Send("Hello", "body"))
	assert.Len(t, *sent, 2)
}

func TestNotifyCouple(t *testing.T) {
	m, sent := fakeMailer("")
	notifyCouple(m)(guestbook.Message{
		ID:        "1",
		Author:    "Minji",
		Body:      "Congratulations!",
		CreatedAt: time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
	})

	require.Len(t, *sent, 2)
	assert.Contains(t, (*sent)[0].body, "Subject: New guestbook message from Minji")
	assert.Contains(t, (*sent)[0].body, "Congratulations!")
	assert.Contains(t, (*sent)[0].body, "/#guestbook")
}

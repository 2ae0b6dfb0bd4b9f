package guestbook

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/codingcraftz/wedding/constants"
	"golang.org/x/crypto/bcrypt"
)

// Message is one guestbook entry as shown to visitors. The secret set at
// creation never travels with it.
type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is a message being composed.
type Draft struct {
	Author string
	Body   string
	Secret string
}

// Validate checks the draft locally, before anything is sent.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Author) == "" {
		return &ValidationError{Field: "author", Reason: "is required"}
	}
	if utf8.RuneCountInString(d.Author) > constants.MAX_AUTHOR_LENGTH {
		return &ValidationError{Field: "author", Reason: fmt.Sprintf("must be at most %d characters", constants.MAX_AUTHOR_LENGTH)}
	}
	if strings.TrimSpace(d.Body) == "" {
		return &ValidationError{Field: "message", Reason: "is required"}
	}
	if utf8.RuneCountInString(d.Body) > constants.MAX_MESSAGE_LENGTH {
		return &ValidationError{Field: "message", Reason: fmt.Sprintf("must be at most %d characters", constants.MAX_MESSAGE_LENGTH)}
	}
	if utf8.RuneCountInString(d.Secret) < constants.MIN_SECRET_LENGTH {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", constants.MIN_SECRET_LENGTH)}
	}
	// bcrypt only accepts up to 72 bytes.
	if len(d.Secret) > constants.MAX_SECRET_BYTES {
		return &ValidationError{Field: "password", Reason: "is too long"}
	}
	return nil
}

// Remote is the hosted message collection.
type Remote interface {
	// Insert stores a new message and returns it with its server-assigned
	// id and timestamp.
	Insert(ctx context.Context, d Draft) (Message, error)
	// List returns every message, newest first.
	List(ctx context.Context) ([]Message, error)
	// Secret returns the stored secret of one message.
	Secret(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// Notifier shows transient feedback to the visitor.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// HashSecret hashes a message secret for storage.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// MatchSecret compares a supplied secret with a stored one. Stored values
// are bcrypt hashes; rows imported from the old site still hold the plain
// value and are compared in constant time.
func MatchSecret(stored, supplied string) bool {
	if stored == "" || supplied == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

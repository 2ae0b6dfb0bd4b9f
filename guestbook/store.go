// Package guestbook keeps a visitor's view of the wedding guestbook in sync
// with the remote message collection.
//
// The Store holds the full list of messages, newest first, and a 1-based
// page cursor over it. Local state only changes after the remote store has
// confirmed a write, so a failed request leaves the list as it was.
package guestbook

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/codingcraftz/wedding/constants"
	"go.uber.org/zap"
)

// Phase is the composition form lifecycle.
type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

// PageState is the slice of messages currently on display.
type PageState struct {
	Messages []Message
	Current  int
	Total    int
	Count    int
	PageSize int
}

// HasPrev reports whether a previous page exists.
func (p PageState) HasPrev() bool { return p.Current > 1 }

// HasNext reports whether a next page exists.
func (p PageState) HasNext() bool { return p.Current < p.Total }

// Pages lists the page numbers 1..Total for rendering pagination links.
func (p PageState) Pages() []int {
	pages := make([]int, p.Total)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

type Option func(*Store)

// WithPageSize sets how many messages are shown per page.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notify = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithOverride installs the operator's privileged delete check. When it
// accepts a supplied secret, the per-message comparison is skipped.
func WithOverride(match func(supplied string) bool) Option {
	return func(s *Store) {
		s.override = match
	}
}

// OverrideHash returns an override check against a bcrypt hash. An empty
// hash disables the override.
func OverrideHash(hash string) func(string) bool {
	return func(supplied string) bool {
		return hash != "" && MatchSecret(hash, supplied)
	}
}

// Store mediates create, paginated read and secret-gated delete against a
// Remote. It is safe for concurrent use.
type Store struct {
	remote   Remote
	notify   Notifier
	log      *zap.Logger
	pageSize int
	override func(string) bool

	mu       sync.Mutex
	messages []Message
	page     int
	phase    Phase
	formOpen bool
	loaded   bool
	closed   bool
}

func NewStore(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:   remote,
		notify:   nopNotifier{},
		log:      zap.NewNop(),
		pageSize: constants.GUESTBOOK_PAGE_SIZE,
		page:     1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll fetches every message and jumps back to the first page.
func (s *Store) LoadAll(ctx context.Context) error {
	return s.load(ctx, true)
}

// Refresh fetches every message and keeps the current page when it still
// exists.
func (s *Store) Refresh(ctx context.Context) error {
	return s.load(ctx, false)
}

func (s *Store) load(ctx context.Context, reset bool) error {
	if s.isClosed() {
		return ErrClosed
	}

	messages, err := s.remote.List(ctx)
	if err != nil {
		s.log.Warn("loading guestbook failed", zap.Error(err))
		s.notifyError("Could not load the guestbook. Please try again.")
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	messages = slices.Clone(messages)
	sortNewestFirst(messages)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.messages = messages
	s.loaded = true
	if reset {
		s.page = 1
	} else {
		s.page = min(max(s.page, 1), s.totalPages())
	}
	return nil
}

// Submit validates and posts a new message. While one submission is in
// flight every further call returns ErrSubmitInProgress without touching
// the remote store.
func (s *Store) Submit(ctx context.Context, author, body, secret string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.phase != Idle {
		s.mu.Unlock()
		return ErrSubmitInProgress
	}
	s.phase = Validating
	s.mu.Unlock()

	draft := Draft{
		Author: strings.TrimSpace(author),
		Body:   strings.TrimSpace(body),
		Secret: secret,
	}
	if err := draft.Validate(); err != nil {
		s.setPhase(Idle)
		s.notifyError("Please fill in every field (password at least 4 characters).")
		return err
	}

	s.setPhase(Submitting)
	msg, err := s.remote.Insert(ctx, draft)

	s.mu.Lock()
	s.phase = Idle
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("saving guestbook message failed", zap.Error(err))
		s.notifyError("Could not save your message. Please try again.")
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.messages = append(s.messages, msg)
	sortNewestFirst(s.messages)
	s.page = 1
	s.formOpen = false
	s.mu.Unlock()

	s.log.Info("guestbook message saved", zap.String("id", msg.ID))
	s.notifySuccess("Your message has been posted!")
	return nil
}

// Remove deletes a message once the supplied secret matches the one stored
// with it, or matches the operator override.
func (s *Store) Remove(ctx context.Context, id, secret string) error {
	if s.isClosed() {
		return ErrClosed
	}
	if id == "" || secret == "" {
		s.notifyError("Please enter the password.")
		return &ValidationError{Field: "password", Reason: "is required"}
	}

	privileged := s.override != nil && s.override(secret)
	if !privileged {
		stored, err := s.remote.Secret(ctx, id)
		if err != nil {
			s.log.Warn("fetching message secret failed", zap.String("id", id), zap.Error(err))
			s.notifyError("Could not delete the message.")
			return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
		}
		if !MatchSecret(stored, secret) {
			s.notifyError("Password does not match.")
			return ErrSecretMismatch
		}
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.log.Warn("deleting guestbook message failed", zap.String("id", id), zap.Error(err))
		s.notifyError("Could not delete the message.")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	s.mu.Lock()
	if !s.closed {
		s.messages = slices.DeleteFunc(s.messages, func(m Message) bool { return m.ID == id })
		if s.page > s.totalPages() {
			s.page--
		}
	}
	s.mu.Unlock()

	s.log.Info("guestbook message deleted", zap.String("id", id), zap.Bool("privileged", privileged))
	s.notifySuccess("Message deleted.")
	return nil
}

// SetPage moves the cursor to page n. Requests outside [1, total] leave the
// cursor where it is and return false.
func (s *Store) SetPage(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > s.totalPages() {
		return false
	}
	s.page = n
	return true
}

// Page returns the messages on the current page.
func (s *Store) Page() PageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := (s.page - 1) * s.pageSize
	end := min(start+s.pageSize, len(s.messages))
	var slice []Message
	if start < end {
		slice = slices.Clone(s.messages[start:end])
	}
	return PageState{
		Messages: slice,
		Current:  s.page,
		Total:    s.totalPages(),
		Count:    len(s.messages),
		PageSize: s.pageSize,
	}
}

// OpenForm shows the composition form; a successful Submit closes it.
func (s *Store) OpenForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formOpen = true
}

func (s *Store) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formOpen = false
}

func (s *Store) FormOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formOpen
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Loaded reports whether at least one load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Close detaches the store. Requests still in flight may complete against
// the remote store but no longer change local state or notify.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Store) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

// totalPages must be called with mu held.
func (s *Store) totalPages() int {
	return max(1, (len(s.messages)+s.pageSize-1)/s.pageSize)
}

func (s *Store) notifyError(msg string) {
	if !s.isClosed() {
		s.notify.Error(msg)
	}
}

func (s *Store) notifySuccess(msg string) {
	if !s.isClosed() {
		s.notify.Success(msg)
	}
}

func sortNewestFirst(messages []Message) {
	slices.SortStableFunc(messages, func(a, b Message) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/codingcraftz/wedding/constants"
	"github.com/codingcraftz/wedding/guestbook"
	"github.com/codingcraftz/wedding/prefs"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notice is a transient message shown once on the next page render.
type Notice struct {
	Kind string
	Text string
}

// flashNotifier queues guestbook feedback until the next render drains it.
type flashNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (f *flashNotifier) Success(msg string) { f.push("success", msg) }
func (f *flashNotifier) Error(msg string)   { f.push("error", msg) }

func (f *flashNotifier) push(kind, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, Notice{Kind: kind, Text: msg})
}

func (f *flashNotifier) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notices
	f.notices = nil
	return out
}

// Visitor is the state the server keeps for one browser.
type Visitor struct {
	ID    string
	Store *guestbook.Store
	Flash *flashNotifier
	Audio *prefs.Flag

	mu    sync.Mutex
	draft guestbook.Draft
}

// keepDraft remembers what was typed so a rejected form can be refilled.
// The secret is never kept.
func (v *Visitor) keepDraft(author, body string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = guestbook.Draft{Author: author, Body: body}
}

func (v *Visitor) takeDraft() guestbook.Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	d := v.draft
	v.draft = guestbook.Draft{}
	return d
}

// VisitorRegistry holds the most recently seen visitors. Evicted visitors
// have their guestbook store closed so late responses are dropped.
type VisitorRegistry struct {
	mu       sync.Mutex
	visitors *lru.Cache[string, *Visitor]
	remote   guestbook.Remote
	prefs    func(visitorID string) prefs.Store
	options  []guestbook.Option
}

func NewVisitorRegistry(size int, remote guestbook.Remote, prefs func(string) prefs.Store, opts ...guestbook.Option) (*VisitorRegistry, error) {
	cache, err := lru.NewWithEvict(size, func(_ string, v *Visitor) {
		v.Store.Close()
	})
	if err != nil {
		return nil, err
	}
	return &VisitorRegistry{visitors: cache, remote: remote, prefs: prefs, options: opts}, nil
}

// Get returns the visitor for id, creating it on first sight.
func (vr *VisitorRegistry) Get(ctx context.Context, id string) *Visitor {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	if v, ok := vr.visitors.Get(id); ok {
		return v
	}

	flash := &flashNotifier{}
	opts := append([]guestbook.Option{
		guestbook.WithNotifier(flash),
		guestbook.WithLogger(logger.With(zap.String("visitor", id))),
	}, vr.options...)

	audio, err := prefs.LoadFlag(ctx, vr.prefs(id), constants.AUDIO_INTERACTED_KEY)
	if err != nil {
		logger.Warn("loading audio preference failed", zap.String("visitor", id), zap.Error(err))
	}

	v := &Visitor{
		ID:    id,
		Store: guestbook.NewStore(vr.remote, opts...),
		Flash: flash,
		Audio: audio,
	}
	vr.visitors.Add(id, v)
	return v
}

func (vr *VisitorRegistry) Len() int {
	return vr.visitors.Len()
}

type visitorKey struct{}

// VisitorMiddleware identifies the browser by cookie, issuing a new id when
// the cookie is missing or malformed.
func VisitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(constants.VISITOR_COOKIE_NAME); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				id = cookie.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     constants.VISITOR_COOKIE_NAME,
				Value:    id,
				Path:     "/",
				MaxAge:   365 * 24 * 60 * 60,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		v := visitors.Get(r.Context(), id)
		ctx := context.WithValue(r.Context(), visitorKey{}, v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentVisitor(r *http.Request) *Visitor {
	v, _ := r.Context().Value(visitorKey{}).(*Visitor)
	return v
}

// dbPrefs stores visitor preferences in the preferences table.
type dbPrefs struct {
	db        *gorm.DB
	visitorID string
}

func prefsFor(db *gorm.DB) func(string) prefs.Store {
	return func(visitorID string) prefs.Store {
		return &dbPrefs{db: db, visitorID: visitorID}
	}
}

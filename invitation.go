package main

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/codingcraftz/wedding/calendar"
	"github.com/codingcraftz/wedding/constants"
	"github.com/codingcraftz/wedding/guestbook"
	"github.com/codingcraftz/wedding/reveal"
	"github.com/codingcraftz/wedding/share"
	"github.com/codingcraftz/wedding/venue"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2006.1.2")
	},
	"add": func(a, b int) int {
		return a + b
	},
}

// invitationTemplate is parsed on first use so the admin commands never
// touch the templates directory.
var invitationTemplate = sync.OnceValues(loadInvitationTemplate)

func loadInvitationTemplate() (*template.Template, error) {
	templates, err := template.New("invitation.html").Funcs(templateFuncs).
		ParseFiles(filepath.Join("templates", "invitation.html"))
	if err != nil {
		return nil, fmt.Errorf("parsing invitation template: %w", err)
	}
	return templates, nil
}

func currentTemplate() (*template.Template, error) {
	if viper.GetBool("debug") {
		return loadInvitationTemplate()
	}
	return invitationTemplate()
}

// revealSection is what the template needs to render a section hidden and
// hand its trigger options to reveal.js.
type revealSection struct {
	Class      string
	Visible    string
	Threshold  float64
	Margin     float64
	DelayMS    int64
	FallbackMS int64
}

func newRevealSection(o reveal.Options) revealSection {
	o = o.Normalize()
	hidden, visible := o.Kind.Classes()
	return revealSection{
		Class:      hidden,
		Visible:    visible,
		Threshold:  o.Threshold,
		Margin:     o.Margin,
		DelayMS:    o.Delay.Milliseconds(),
		FallbackMS: o.Fallback.Milliseconds(),
	}
}

type accountGroup struct {
	Title    string
	Accounts []Account
}

type invitationPage struct {
	Site     *SiteConfig
	Sections map[string]revealSection

	Calendar calendar.Month
	Heading  string
	DDay     string

	MapHTML       template.HTML
	Directions    []venue.Link
	AccountGroups []accountGroup

	Guestbook guestbook.PageState
	FormOpen  bool
	Draft     guestbook.Draft
	Notices   []Notice

	ShowAudioPrompt bool
	ShareURL        string
	ShareHTML       template.HTML
}

// InvitationPage renders the whole invitation. ?page=n moves the visitor's
// guestbook cursor.
func InvitationPage(w http.ResponseWriter, r *http.Request) {
	v := currentVisitor(r)
	s := site()

	if v.Store.Loaded() {
		_ = v.Store.Refresh(r.Context())
	} else {
		_ = v.Store.LoadAll(r.Context())
	}

	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			v.Store.SetPage(n)
		}
	}

	sections := make(map[string]revealSection, len(s.Sections))
	for id, o := range s.Sections {
		sections[id] = newRevealSection(o)
	}

	mapHTML, err := renderVenue(r, s)
	if err != nil {
		logger.Warn("rendering venue map failed", zap.Error(err))
	}

	shareHTML, err := renderShare(r, s)
	if err != nil {
		logger.Warn("rendering share buttons failed", zap.Error(err))
	}

	accounts := []accountGroup{
		{Title: "Groom's side", Accounts: s.GroomAccounts},
		{Title: "Bride's side", Accounts: s.BrideAccounts},
	}

	data := invitationPage{
		Site:            s,
		Sections:        sections,
		Calendar:        calendar.NewMonth(s.WeddingAt),
		Heading:         calendar.Heading(s.WeddingAt),
		DDay:            calendar.DDay(time.Now(), s.WeddingAt),
		MapHTML:         mapHTML,
		Directions:      venue.Directions(s.Venue),
		AccountGroups:   accounts,
		Guestbook:       v.Store.Page(),
		FormOpen:        v.Store.FormOpen(),
		Draft:           v.takeDraft(),
		Notices:         v.Flash.Drain(),
		ShowAudioPrompt: !v.Audio.IsSet(),
		ShareURL:        constants.PUBLIC_URL,
		ShareHTML:       shareHTML,
	}

	tmpl, err := currentTemplate()
	if err != nil {
		logger.Error("loading invitation template failed", zap.Error(err))
		http.Error(w, "invitation unavailable", http.StatusInternalServerError)
		return
	}

	err = tmpl.Execute(w, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func renderVenue(r *http.Request, s *SiteConfig) (template.HTML, error) {
	m, err := venue.Select(r.Context(), &venue.Kakao{AppKey: s.KakaoKey}, venue.Links{})
	if err != nil {
		return "", err
	}
	return m.RenderMarker(s.Venue)
}

func renderShare(r *http.Request, s *SiteConfig) (template.HTML, error) {
	b, err := share.Select(r.Context(), &share.Kakao{AppKey: s.ShareKey}, share.CopyLink{})
	if err != nil {
		return "", err
	}
	return b.Render(share.Invite{
		Title:       s.Groom + " & " + s.Bride,
		Description: calendar.Heading(s.WeddingAt) + " " + s.TimeLabel + ", " + s.Venue.Name,
		ImageURL:    s.OGImage,
		URL:         constants.PUBLIC_URL,
	})
}

package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/codingcraftz/wedding/guestbook"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countMessages(page string) int {
	return strings.Count(page, `<article class="message"`)
}

func sign(t *testing.T, c *http.Client, base, author, text, password string) string {
	t.Helper()
	status, page := postForm(t, c, base+"/guestbook/", url.Values{
		"author":   {author},
		"message":  {text},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, status)
	return page
}

func firstEntryID(t *testing.T) string {
	t.Helper()
	var entry GuestbookEntry
	require.NoError(t, db.Order("created_at desc").First(&entry).Error)
	return entry.ID
}

func TestInvitationPageRenders(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	resp, err := c.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	u, _ := url.Parse(srv.URL)
	cookies := c.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "wedding_visitor", cookies[0].Name)

	page := getPage(t, c, srv.URL+"/")
	for _, id := range []string{"intro", "calendar", "venue", "accounts", "guestbook"} {
		assert.Contains(t, page, `<section id="`+id+`"`)
	}
	assert.Contains(t, page, `data-reveal="opacity-100`)
	assert.Contains(t, page, "2025.05.31 SAT")
	assert.Contains(t, page, "No messages yet.")
	assert.NotContains(t, page, `id="guestbook-form"`)
	assert.Equal(t, 1, visitors.Len(), "the second request reuses the cookie")
}

func TestGuestbookComposeAndCancel(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	_, page := postForm(t, c, srv.URL+"/guestbook/compose", nil)
	assert.Contains(t, page, `id="guestbook-form"`)

	other := newBrowser(t)
	assert.NotContains(t, getPage(t, other, srv.URL+"/"), `id="guestbook-form"`,
		"form state belongs to one visitor")

	_, page = postForm(t, c, srv.URL+"/guestbook/cancel", nil)
	assert.NotContains(t, page, `id="guestbook-form"`)
}

func TestGuestbookSubmit(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	page := sign(t, c, srv.URL, "  Minji ", "Congratulations!", "1234")
	assert.Contains(t, page, "Your message has been posted!")
	assert.Contains(t, page, "Congratulations!")
	assert.Equal(t, 1, countMessages(page))
	assert.NotContains(t, page, `id="guestbook-form"`, "a successful post closes the form")

	var entry GuestbookEntry
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "Minji", entry.Author)
	assert.NotEqual(t, "1234", entry.SecretHash)
	assert.True(t, guestbook.MatchSecret(entry.SecretHash, "1234"))

	page = getPage(t, c, srv.URL+"/")
	assert.NotContains(t, page, "Your message has been posted!", "notices show once")
}

func TestGuestbookSubmitValidation(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	page := sign(t, c, srv.URL, "", "Keep this text", "1234")
	assert.Contains(t, page, "Please fill in every field")
	assert.Contains(t, page, `id="guestbook-form"`)
	assert.Contains(t, page, "Keep this text", "the rejected draft is refilled")

	page = sign(t, c, srv.URL, "Minji", "Hello", "123")
	assert.Contains(t, page, "Please fill in every field")

	page = sign(t, c, srv.URL, "Minji", "Hello", "사랑")
	assert.Contains(t, page, "Please fill in every field", "the minimum counts characters")

	page = sign(t, c, srv.URL, "Minji", "Hello", strings.Repeat("축", 25))
	assert.Contains(t, page, "Please fill in every field")

	var count int64
	require.NoError(t, db.Model(&GuestbookEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGuestbookPagination(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	for i := 1; i <= 4; i++ {
		sign(t, c, srv.URL, fmt.Sprintf("Guest %d", i), fmt.Sprintf("Message number %d", i), "1234")
	}

	page := getPage(t, c, srv.URL+"/")
	assert.Equal(t, 3, countMessages(page))
	assert.Contains(t, page, "Message number 4")
	assert.NotContains(t, page, "Message number 1")
	assert.Contains(t, page, `href="/?page=2#guestbook"`)

	page = getPage(t, c, srv.URL+"/?page=2")
	assert.Equal(t, 1, countMessages(page))
	assert.Contains(t, page, "Message number 1")

	page = getPage(t, c, srv.URL+"/")
	assert.Contains(t, page, "Message number 1", "the page cursor is kept across renders")

	page = getPage(t, c, srv.URL+"/?page=9")
	assert.Contains(t, page, "Message number 1", "out of range pages are ignored")

	page = getPage(t, c, srv.URL+"/?page=1")
	assert.Contains(t, page, "Message number 4")
}

func TestGuestbookDelete(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	sign(t, c, srv.URL, "Minji", "Delete me later", "right-pass")
	id := firstEntryID(t)
	deleteURL := srv.URL + "/guestbook/" + id + "/delete"

	_, page := postForm(t, c, deleteURL, url.Values{"password": {"wrong-pass"}})
	assert.Contains(t, page, "Password does not match.")
	assert.Contains(t, page, "Delete me later")

	_, page = postForm(t, c, deleteURL, url.Values{"password": {""}})
	assert.Contains(t, page, "Please enter the password.")

	_, page = postForm(t, c, deleteURL, url.Values{"password": {"right-pass"}})
	assert.Contains(t, page, "Message deleted.")
	assert.Contains(t, page, "No messages yet.")

	_, page = postForm(t, c, deleteURL, url.Values{"password": {"right-pass"}})
	assert.Contains(t, page, "Could not delete the message.")
}

func TestGuestbookDeleteLastOnPageStepsBack(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	sign(t, c, srv.URL, "Oldest", "The only one on page two", "oldest-pass")
	for i := 0; i < 3; i++ {
		sign(t, c, srv.URL, "Guest", fmt.Sprintf("Filler %d", i), "1234")
	}

	var oldest GuestbookEntry
	require.NoError(t, db.Where("author = ?", "Oldest").First(&oldest).Error)

	getPage(t, c, srv.URL+"/?page=2")
	_, page := postForm(t, c, srv.URL+"/guestbook/"+oldest.ID+"/delete", url.Values{"password": {"oldest-pass"}})
	assert.Equal(t, 3, countMessages(page))
	assert.NotContains(t, page, `class="pagination"`)
}

func TestGuestbookDeleteOverride(t *testing.T) {
	hash, err := guestbook.HashSecret("operator-only")
	require.NoError(t, err)
	viper.Set("guestbook.override_secret_hash", hash)
	t.Cleanup(func() { viper.Set("guestbook.override_secret_hash", "") })

	srv := newTestApp(t)
	author := newBrowser(t)
	sign(t, author, srv.URL, "Spammer", "Buy now", "their-pass")

	operator := newBrowser(t)
	_, page := postForm(t, operator, srv.URL+"/guestbook/"+firstEntryID(t)+"/delete",
		url.Values{"password": {"operator-only"}})
	assert.Contains(t, page, "Message deleted.")
	assert.NotContains(t, page, "Buy now")
}

func TestGuestbookReload(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)
	assert.Contains(t, getPage(t, c, srv.URL+"/"), "No messages yet.")

	_, err := repo.Insert(t.Context(), guestbook.Draft{Author: "Elsewhere", Body: "Posted from another tab", Secret: "1234"})
	require.NoError(t, err)

	_, page := postForm(t, c, srv.URL+"/guestbook/reload", nil)
	assert.Contains(t, page, "Posted from another tab")
}

func TestAudioInteracted(t *testing.T) {
	srv := newTestApp(t)
	c := newBrowser(t)

	assert.Contains(t, getPage(t, c, srv.URL+"/"), `id="audio-prompt"`)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/audio/interacted", nil)
	require.NoError(t, err)
	req.Header.Set("X-Requested-With", "fetch")
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.NotContains(t, getPage(t, c, srv.URL+"/"), `id="audio-prompt"`)

	var count int64
	require.NoError(t, db.Model(&Preference{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.Contains(t, getPage(t, newBrowser(t), srv.URL+"/"), `id="audio-prompt"`,
		"other visitors still get the prompt")
}

func TestInvitationShareFallsBackToCopyLink(t *testing.T) {
	srv := newTestApp(t)
	page := getPage(t, newBrowser(t), srv.URL+"/")

	assert.Contains(t, page, `data-copy="https://wedding.codingcraftz.com"`)
	assert.NotContains(t, page, "developers.kakao.com/sdk/js/kakao.js", "no key, no SDK")
}

func TestInvitationShareWithKakaoKey(t *testing.T) {
	viper.Set("share.kakao_js_key", "js-key")
	viper.Set("share.image_url", "https://wedding.codingcraftz.com/assets/og.jpg")
	require.NoError(t, reloadSite())
	t.Cleanup(func() {
		viper.Set("share.kakao_js_key", "")
		viper.Set("share.image_url", "")
		require.NoError(t, reloadSite())
	})

	srv := newTestApp(t)
	page := getPage(t, newBrowser(t), srv.URL+"/")

	assert.Contains(t, page, "developers.kakao.com/sdk/js/kakao.js")
	assert.Contains(t, page, `id="kakao-share"`)
	assert.Contains(t, page, `<meta property="og:image" content="https://wedding.codingcraftz.com/assets/og.jpg">`)
}

func TestInvitationGalleryLightbox(t *testing.T) {
	viper.Set("wedding.gallery", []string{"/assets/gallery/01.jpg", "/assets/gallery/02.jpg"})
	require.NoError(t, reloadSite())
	t.Cleanup(func() {
		viper.Set("wedding.gallery", []string{})
		require.NoError(t, reloadSite())
	})

	srv := newTestApp(t)
	page := getPage(t, newBrowser(t), srv.URL+"/")

	assert.Contains(t, page, `<section id="gallery"`)
	assert.Contains(t, page, `<dialog id="lightbox"`)
	assert.Contains(t, page, `data-lightbox="1"><img src="/assets/gallery/02.jpg"`)
	assert.Equal(t, 2, strings.Count(page, "data-slide="))
}

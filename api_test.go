package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/codingcraftz/wedding/guestbook"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchAPI(t *testing.T, rawURL, origin string) (*http.Response, apiPage) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var page apiPage
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	}
	return resp, page
}

func seedMessages(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := repo.Insert(t.Context(), guestbook.Draft{
			Author: fmt.Sprintf("Guest %d", i),
			Body:   fmt.Sprintf("Message %d", i),
			Secret: "1234",
		})
		require.NoError(t, err)
	}
}

func TestAPIGuestbookMessages(t *testing.T) {
	srv := newTestApp(t)
	seedMessages(t, 5)

	resp, page := fetchAPI(t, srv.URL+"/api/v1/guestbook?page=2&limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "Message 3", page.Messages[0].Body)
	assert.Equal(t, "Message 2", page.Messages[1].Body)

	_, page = fetchAPI(t, srv.URL+"/api/v1/guestbook?page=99&limit=2", "")
	assert.Equal(t, 3, page.Page, "pages past the end are clamped")
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "Message 1", page.Messages[0].Body)

	_, page = fetchAPI(t, srv.URL+"/api/v1/guestbook?limit=1000", "")
	assert.Equal(t, 50, page.Limit)
	assert.Len(t, page.Messages, 5)
}

func TestAPIGuestbookSeesNewMessages(t *testing.T) {
	srv := newTestApp(t)
	seedMessages(t, 1)

	_, page := fetchAPI(t, srv.URL+"/api/v1/guestbook", "")
	assert.Equal(t, 1, page.Total)

	seedMessages(t, 1)
	_, page = fetchAPI(t, srv.URL+"/api/v1/guestbook", "")
	assert.Equal(t, 2, page.Total, "inserts invalidate cached pages")
}

func TestAPIGuestbookOrigins(t *testing.T) {
	viper.Set("api.allowed_origins", "https://wedding.example.com")
	t.Cleanup(func() { viper.Set("api.allowed_origins", "") })

	srv := newTestApp(t)

	resp, _ := fetchAPI(t, srv.URL+"/api/v1/guestbook", "https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = fetchAPI(t, srv.URL+"/api/v1/guestbook", "https://wedding.example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://wedding.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = fetchAPI(t, srv.URL+"/api/v1/guestbook", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "requests without an origin are allowed")
}

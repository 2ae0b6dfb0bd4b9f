package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/codingcraftz/wedding/constants"
	"github.com/codingcraftz/wedding/guestbook"
	"go.uber.org/zap"
)

func intParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return n
}

// paginate cuts one page out of messages, clamping page into range.
func paginate(messages []guestbook.Message, page, limit int) apiPage {
	total := len(messages)
	totalPages := max(1, (total+limit-1)/limit)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * limit
	end := min(start+limit, total)
	slice := []guestbook.Message{}
	if start < end {
		slice = messages[start:end]
	}
	return apiPage{
		Messages:   slice,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// APIGuestbookMessages serves GET /api/v1/guestbook?page=&limit=, newest
// first. Requests from origins outside the allow-list get 403.
func APIGuestbookMessages(origins originList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matched, ok := origins.allow(r)
		if !ok {
			http.Error(w, "Origin not allowed", http.StatusForbidden)
			return
		}
		origins.writeHeaders(w, matched)

		limit := min(max(intParam(r, "limit", constants.GUESTBOOK_PAGE_SIZE), 1), constants.MAX_API_PAGE_SIZE)
		page := max(intParam(r, "page", 1), 1)

		w.Header().Set("Content-Type", "application/json")

		if cached, ok := messageCache.GetPage(page, limit); ok {
			json.NewEncoder(w).Encode(cached)
			return
		}

		messages, err := repo.List(r.Context())
		if err != nil {
			logger.Error("listing guestbook failed", zap.Error(err))
			http.Error(w, "Error fetching messages", http.StatusInternalServerError)
			return
		}

		resp := paginate(messages, page, limit)
		messageCache.SetPage(resp)
		json.NewEncoder(w).Encode(resp)
	}
}

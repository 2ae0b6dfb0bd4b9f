package main

import (
	"errors"
	"net/http"

	"github.com/codingcraftz/wedding/guestbook"
	"github.com/go-chi/chi/v5"
)

const guestbookAnchor = "/#guestbook"

// GuestbookCompose opens the composition form.
func GuestbookCompose(w http.ResponseWriter, r *http.Request) {
	currentVisitor(r).Store.OpenForm()
	http.Redirect(w, r, guestbookAnchor, http.StatusSeeOther)
}

// GuestbookCancel closes the composition form without posting.
func GuestbookCancel(w http.ResponseWriter, r *http.Request) {
	currentVisitor(r).Store.CloseForm()
	http.Redirect(w, r, guestbookAnchor, http.StatusSeeOther)
}

func GuestbookSubmit(w http.ResponseWriter, r *http.Request) {
	v := currentVisitor(r)

	author := r.FormValue("author")
	text := r.FormValue("message")
	password := r.FormValue("password")

	v.Store.OpenForm()
	err := v.Store.Submit(r.Context(), author, text, password)
	recordGuestbookOp("submit", err)

	switch {
	case errors.Is(err, guestbook.ErrSubmitInProgress):
		http.Error(w, "Your message is still being saved", http.StatusConflict)
		return
	case err != nil:
		v.keepDraft(author, text)
	}

	http.Redirect(w, r, guestbookAnchor, http.StatusSeeOther)
}

func GuestbookDelete(w http.ResponseWriter, r *http.Request) {
	v := currentVisitor(r)
	messageID := chi.URLParam(r, "messageID")

	err := v.Store.Remove(r.Context(), messageID, r.FormValue("password"))
	recordGuestbookOp("delete", err)

	http.Redirect(w, r, guestbookAnchor, http.StatusSeeOther)
}

// GuestbookReload fetches the list from scratch and returns to page one.
func GuestbookReload(w http.ResponseWriter, r *http.Request) {
	err := currentVisitor(r).Store.LoadAll(r.Context())
	recordGuestbookOp("load", err)

	http.Redirect(w, r, guestbookAnchor, http.StatusSeeOther)
}

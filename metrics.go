package main

import (
	"errors"

	"github.com/codingcraftz/wedding/guestbook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var guestbookOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wedding",
	Name:      "guestbook_operations_total",
	Help:      "Guestbook operations by kind and outcome.",
}, []string{"op", "outcome"})

func recordGuestbookOp(op string, err error) {
	guestbookOps.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, guestbook.ErrInvalidDraft):
		return "invalid"
	case errors.Is(err, guestbook.ErrSecretMismatch):
		return "mismatch"
	case errors.Is(err, guestbook.ErrSubmitInProgress):
		return "busy"
	default:
		return "error"
	}
}

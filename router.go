package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

func initRouter() (chi.Router, error) {
	origins, err := parseOrigins(viper.GetString("api.allowed_origins"))
	if err != nil {
		return nil, fmt.Errorf("api.allowed_origins: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir("assets"))))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins.corsOrigins(),
			AllowedMethods: []string{"GET", "OPTIONS"},
			MaxAge:         300,
		}))
		r.Get("/guestbook", APIGuestbookMessages(origins))
	})

	r.Group(func(r chi.Router) {
		r.Use(VisitorMiddleware)

		r.Get("/", InvitationPage)
		r.Post("/audio/interacted", AudioInteracted)

		r.Route("/guestbook", func(r chi.Router) {
			r.Post("/", GuestbookSubmit)
			r.Post("/compose", GuestbookCompose)
			r.Post("/cancel", GuestbookCancel)
			r.Post("/reload", GuestbookReload)
			r.Post("/{messageID}/delete", GuestbookDelete)
		})
	})

	return r, nil
}

package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// originList is the API's CORS allow-list, each entry normalised to a
// lowercase scheme://host. An empty list allows every origin.
type originList []string

// parseOrigins validates a comma-separated list of origins. Each entry must
// be an http or https URL with a host and no path.
func parseOrigins(raw string) (originList, error) {
	var list originList
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		u, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("invalid origin %q: %w", p, err)
		}
		switch {
		case u.Scheme != "http" && u.Scheme != "https":
			return nil, fmt.Errorf("invalid origin %q: scheme must be http or https", p)
		case u.Host == "":
			return nil, fmt.Errorf("invalid origin %q: missing host", p)
		case u.Path != "":
			return nil, fmt.Errorf("invalid origin %q: must not contain a path", p)
		}
		list = append(list, strings.ToLower(u.Scheme+"://"+u.Host))
	}
	return list, nil
}

// corsOrigins is the value handed to the cors middleware.
func (l originList) corsOrigins() []string {
	if len(l) == 0 {
		return []string{"*"}
	}
	return l
}

func (l originList) String() string {
	return strings.Join(l, ",")
}

// requestOrigin reads the Origin header, or derives it from Referer.
func requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
		return strings.ToLower(strings.TrimRight(origin, "/"))
	}
	if u, err := url.Parse(r.Header.Get("Referer")); err == nil && u.Host != "" {
		return strings.ToLower(u.Scheme + "://" + u.Host)
	}
	return ""
}

// allow matches r against the list. Requests that carry no origin at all
// (curl, direct navigation) are allowed with an empty match.
func (l originList) allow(r *http.Request) (matched string, ok bool) {
	if len(l) == 0 {
		return "*", true
	}
	origin := requestOrigin(r)
	if origin == "" {
		return "", true
	}
	for _, o := range l {
		if o == origin {
			return o, true
		}
	}
	return "", false
}

// writeHeaders narrows Access-Control-Allow-Origin to the matched origin.
func (l originList) writeHeaders(w http.ResponseWriter, matched string) {
	if len(l) == 0 || matched == "" || matched == "*" {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", matched)
	w.Header().Set("Vary", "Origin")
}

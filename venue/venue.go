// Package venue wraps the map SDK behind a narrow interface so the page
// never depends on a vendor global.
package venue

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
)

var ErrNotReady = errors.New("venue: map not initialized")

// Marker is the wedding hall pin.
type Marker struct {
	Name    string
	Address string
	Lat     float64
	Lng     float64
}

// Map renders the venue marker.
type Map interface {
	Initialize(ctx context.Context) error
	IsReady() bool
	RenderMarker(m Marker) (template.HTML, error)
}

// Link is an external directions app.
type Link struct {
	Label string
	Icon  string
	URL   string
}

// Directions returns deep links into the common Korean navigation apps.
func Directions(m Marker) []Link {
	name := url.PathEscape(m.Name)
	return []Link{
		{
			Label: "Naver Map",
			Icon:  "/assets/maps/naver_map.png",
			URL:   "https://map.naver.com/v5/search/" + url.PathEscape(m.Address),
		},
		{
			Label: "Kakao Navi",
			Icon:  "/assets/maps/kakao_map.png",
			URL:   fmt.Sprintf("https://map.kakao.com/link/map/%s,%g,%g", name, m.Lat, m.Lng),
		},
		{
			Label: "T map",
			Icon:  "/assets/maps/tmap.png",
			URL: fmt.Sprintf("https://apis.openapi.sk.com/tmap/app/routes?endX=%g&endY=%g&endName=%s",
				m.Lng, m.Lat, url.QueryEscape(m.Name)),
		},
	}
}

var kakaoTemplate = template.Must(template.New("kakao").Parse(`<div id="venue-map" class="w-full h-[300px]"></div>
<script src="https://dapi.kakao.com/v2/maps/sdk.js?appkey={{.Key}}&autoload=false"></script>
<script>
kakao.maps.load(function () {
  var pos = new kakao.maps.LatLng({{.Lat}}, {{.Lng}});
  var map = new kakao.maps.Map(document.getElementById("venue-map"), { center: pos, level: 3 });
  new kakao.maps.Marker({ position: pos }).setMap(map);
  new kakao.maps.CustomOverlay({ position: pos, yAnchor: 2.2, content: {{.Label}} }).setMap(map);
});
</script>`))

// Kakao renders the marker with the Kakao Maps JavaScript SDK.
type Kakao struct {
	AppKey string
	ready  bool
}

func (k *Kakao) Initialize(context.Context) error {
	if k.AppKey == "" {
		return errors.New("venue: kakao app key is not configured")
	}
	k.ready = true
	return nil
}

func (k *Kakao) IsReady() bool { return k.ready }

func (k *Kakao) RenderMarker(m Marker) (template.HTML, error) {
	if !k.ready {
		return "", ErrNotReady
	}
	var buf bytes.Buffer
	err := kakaoTemplate.Execute(&buf, struct {
		Key      string
		Lat, Lng float64
		Label    string
	}{k.AppKey, m.Lat, m.Lng, `<div class="venue-label">` + template.HTMLEscapeString(m.Name) + `</div>`})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

var linksTemplate = template.Must(template.New("links").Parse(`<div class="venue-static">
<p class="font-semibold">{{.Name}}</p>
<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Address}}</a>
</div>`))

// Links is the SDK-free fallback: it renders the address as a link to the
// Kakao map page.
type Links struct{}

func (Links) Initialize(context.Context) error { return nil }

func (Links) IsReady() bool { return true }

func (Links) RenderMarker(m Marker) (template.HTML, error) {
	var buf bytes.Buffer
	err := linksTemplate.Execute(&buf, struct {
		Name, Address, URL string
	}{m.Name, m.Address, Directions(m)[1].URL})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Select initializes primary and falls back when it cannot be used.
func Select(ctx context.Context, primary Map, fallback Map) (Map, error) {
	if primary != nil {
		if err := primary.Initialize(ctx); err == nil && primary.IsReady() {
			return primary, nil
		} else if err != nil && fallback == nil {
			return nil, err
		}
	}
	if fallback == nil {
		return nil, ErrNotReady
	}
	if err := fallback.Initialize(ctx); err != nil {
		return nil, err
	}
	return fallback, nil
}

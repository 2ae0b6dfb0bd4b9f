// Package share renders the footer share buttons. The Kakao SDK is optional;
// without a key the page falls back to a copy-link button.
package share

import (
	"bytes"
	"context"
	"errors"
	"html/template"
)

var ErrNotReady = errors.New("share: button not initialized")

// Invite is what a shared link previews as.
type Invite struct {
	Title       string
	Description string
	ImageURL    string
	URL         string
}

// Button renders the share controls for an invite.
type Button interface {
	Initialize(ctx context.Context) error
	IsReady() bool
	Render(inv Invite) (template.HTML, error)
}

var kakaoTemplate = template.Must(template.New("kakao").Parse(`<button type="button" id="kakao-share" class="kakao-share">Share on KakaoTalk</button>
<button type="button" data-copy="{{.Invite.URL}}">Copy invitation link</button>
<script src="https://developers.kakao.com/sdk/js/kakao.js"></script>
<script>
(function () {
  if (!window.Kakao) return;
  if (!Kakao.isInitialized()) Kakao.init({{.Key}});
  var link = { mobileWebUrl: {{.Invite.URL}}, webUrl: {{.Invite.URL}} };
  document.getElementById("kakao-share").addEventListener("click", function () {
    Kakao.Link.sendDefault({
      objectType: "feed",
      content: { title: {{.Invite.Title}}, description: {{.Invite.Description}}, imageUrl: {{.Invite.ImageURL}}, link: link },
      buttons: [{ title: "View invitation", link: link }]
    });
  });
})();
</script>`))

// Kakao shares through the Kakao JavaScript SDK feed template.
type Kakao struct {
	AppKey string
	ready  bool
}

func (k *Kakao) Initialize(context.Context) error {
	if k.AppKey == "" {
		return errors.New("share: kakao javascript key is not configured")
	}
	k.ready = true
	return nil
}

func (k *Kakao) IsReady() bool { return k.ready }

func (k *Kakao) Render(inv Invite) (template.HTML, error) {
	if !k.ready {
		return "", ErrNotReady
	}
	var buf bytes.Buffer
	err := kakaoTemplate.Execute(&buf, struct {
		Key    string
		Invite Invite
	}{k.AppKey, inv})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

var copyTemplate = template.Must(template.New("copy").Parse(
	`<button type="button" data-copy="{{.URL}}">Copy invitation link</button>`))

// CopyLink only copies the invitation URL to the clipboard.
type CopyLink struct{}

func (CopyLink) Initialize(context.Context) error { return nil }

func (CopyLink) IsReady() bool { return true }

func (CopyLink) Render(inv Invite) (template.HTML, error) {
	var buf bytes.Buffer
	if err := copyTemplate.Execute(&buf, inv); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Select initializes primary and falls back when it cannot be used.
func Select(ctx context.Context, primary Button, fallback Button) (Button, error) {
	if primary != nil {
		err := primary.Initialize(ctx)
		if err == nil && primary.IsReady() {
			return primary, nil
		}
		if fallback == nil {
			if err == nil {
				err = ErrNotReady
			}
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

package main

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/codingcraftz/wedding/constants"
	"github.com/codingcraftz/wedding/reveal"
	"github.com/codingcraftz/wedding/venue"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Account is a gift transfer account shown in the "thanks to" section.
type Account struct {
	Relation    string `mapstructure:"relation"`
	Name        string `mapstructure:"name"`
	Bank        string `mapstructure:"bank"`
	Number      string `mapstructure:"number"`
	KakaoPayURL string `mapstructure:"kakaopay_url"`
}

// TossURL deep-links into the Toss app with the account prefilled.
func (a Account) TossURL() string {
	return "supertoss://send?bank=" + url.QueryEscape(a.Bank) +
		"&accountNo=" + url.QueryEscape(a.Number) + "&origin=invitation"
}

// TransitNote is one "how to get here" paragraph.
type TransitNote struct {
	Title string   `mapstructure:"title"`
	Lines []string `mapstructure:"lines"`
}

type sectionConfig struct {
	ID        string  `mapstructure:"id"`
	Animation string  `mapstructure:"animation"`
	Threshold float64 `mapstructure:"threshold"`
	Margin    float64 `mapstructure:"margin"`
	DelayMS   int     `mapstructure:"delay_ms"`
}

// SiteConfig is everything the invitation page shows besides the
// guestbook.
type SiteConfig struct {
	Groom     string
	Bride     string
	Greeting  []string
	WeddingAt time.Time
	TimeLabel string
	Venue     venue.Marker
	KakaoKey  string
	ShareKey  string
	OGImage   string
	Transit   []TransitNote
	Gallery   []string
	AudioURL  string

	GroomAccounts []Account
	BrideAccounts []Account

	Sections map[string]reveal.Options
}

var currentSite atomic.Pointer[SiteConfig]

func site() *SiteConfig {
	return currentSite.Load()
}

func setConfigDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("server.port", 6235)
	viper.SetDefault("database.path", "wedding.db")
	viper.SetDefault("cache.size", 1000)
	viper.SetDefault("cache.ttl", 5*time.Minute)
	viper.SetDefault("visitors.max", 10000)

	viper.SetDefault("guestbook.page_size", constants.GUESTBOOK_PAGE_SIZE)
	viper.SetDefault("guestbook.override_secret_hash", "")

	viper.SetDefault("api.allowed_origins", "")

	viper.SetDefault("smtp.enabled", false)
	viper.SetDefault("smtp.port", "587")

	viper.SetDefault("wedding.groom", "Groom")
	viper.SetDefault("wedding.bride", "Bride")
	viper.SetDefault("wedding.date", "2025-05-31T13:20:00+09:00")
	viper.SetDefault("wedding.timezone", "Asia/Seoul")
	viper.SetDefault("wedding.time_label", "1:20PM")
	viper.SetDefault("wedding.greeting", []string{"We are getting married.", "Please come and celebrate with us."})
	viper.SetDefault("wedding.audio_url", "/assets/audio/wedding-music.mp3")

	viper.SetDefault("venue.name", "Star City Art Hall")
	viper.SetDefault("venue.address", "110 Neungdong-ro, Gwangjin-gu, Seoul")
	viper.SetDefault("venue.lat", 37.5404)
	viper.SetDefault("venue.lng", 127.0709)
	viper.SetDefault("venue.kakao_key", "")

	viper.SetDefault("share.kakao_js_key", "")
	viper.SetDefault("share.image_url", "")
}

// initConfig reads config.yaml (or the file given on the command line) and
// WEDDING_* environment variables. A missing file is not an error.
func initConfig(file string) error {
	setConfigDefaults()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("WEDDING")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	return reloadSite()
}

// watchConfig reloads the page content whenever the config file changes.
func watchConfig() {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := reloadSite(); err != nil {
			logger.Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Info("config reloaded", zap.String("file", e.Name))
	})
	viper.WatchConfig()
}

func reloadSite() error {
	s, err := loadSiteConfig()
	if err != nil {
		return err
	}
	currentSite.Store(s)
	return nil
}

func loadSiteConfig() (*SiteConfig, error) {
	loc, err := time.LoadLocation(viper.GetString("wedding.timezone"))
	if err != nil {
		return nil, fmt.Errorf("wedding.timezone: %w", err)
	}
	at, err := time.Parse(time.RFC3339, viper.GetString("wedding.date"))
	if err != nil {
		return nil, fmt.Errorf("wedding.date: %w", err)
	}

	s := &SiteConfig{
		Groom:     viper.GetString("wedding.groom"),
		Bride:     viper.GetString("wedding.bride"),
		Greeting:  viper.GetStringSlice("wedding.greeting"),
		WeddingAt: at.In(loc),
		TimeLabel: viper.GetString("wedding.time_label"),
		Gallery:   viper.GetStringSlice("wedding.gallery"),
		AudioURL:  viper.GetString("wedding.audio_url"),
		Venue: venue.Marker{
			Name:    viper.GetString("venue.name"),
			Address: viper.GetString("venue.address"),
			Lat:     viper.GetFloat64("venue.lat"),
			Lng:     viper.GetFloat64("venue.lng"),
		},
		KakaoKey: viper.GetString("venue.kakao_key"),
		ShareKey: viper.GetString("share.kakao_js_key"),
		OGImage:  viper.GetString("share.image_url"),
		Sections: defaultSections(),
	}

	if err := viper.UnmarshalKey("venue.transit", &s.Transit); err != nil {
		return nil, fmt.Errorf("venue.transit: %w", err)
	}
	if err := viper.UnmarshalKey("accounts.groom", &s.GroomAccounts); err != nil {
		return nil, fmt.Errorf("accounts.groom: %w", err)
	}
	if err := viper.UnmarshalKey("accounts.bride", &s.BrideAccounts); err != nil {
		return nil, fmt.Errorf("accounts.bride: %w", err)
	}

	var sections []sectionConfig
	if err := viper.UnmarshalKey("sections", &sections); err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}
	for _, sc := range sections {
		s.Sections[sc.ID] = reveal.Options{
			Threshold: sc.Threshold,
			Margin:    sc.Margin,
			Delay:     time.Duration(sc.DelayMS) * time.Millisecond,
			Fallback:  constants.DEFAULT_REVEAL_FALLBACK * time.Millisecond,
			Kind:      reveal.ParseKind(sc.Animation),
		}.Normalize()
	}

	return s, nil
}

// defaultSections mirrors the animations the page shipped with.
func defaultSections() map[string]reveal.Options {
	fallback := constants.DEFAULT_REVEAL_FALLBACK * time.Millisecond
	return map[string]reveal.Options{
		"intro":     reveal.Options{Kind: reveal.FadeIn, Fallback: fallback}.Normalize(),
		"gallery":   reveal.Options{Kind: reveal.FadeUp, Threshold: 0.1, Fallback: fallback}.Normalize(),
		"calendar":  reveal.Options{Kind: reveal.FadeUp, Threshold: 0.2, Delay: 100 * time.Millisecond, Fallback: fallback}.Normalize(),
		"venue":     reveal.Options{Kind: reveal.SlideLeft, Threshold: 0.15, Fallback: fallback}.Normalize(),
		"accounts":  reveal.Options{Kind: reveal.SlideRight, Threshold: 0.15, Fallback: fallback}.Normalize(),
		"guestbook": reveal.Options{Kind: reveal.FadeUp, Threshold: 0.01, Margin: 300, Fallback: fallback}.Normalize(),
	}
}

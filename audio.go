package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codingcraftz/wedding/prefs"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (p *dbPrefs) Get(ctx context.Context, key string) (string, error) {
	var pref Preference
	err := p.db.WithContext(ctx).
		Where(&Preference{VisitorID: p.visitorID, Key: key}).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", prefs.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	var value string
	if err := json.Unmarshal(pref.Value, &value); err != nil {
		return "", err
	}
	return value, nil
}

func (p *dbPrefs) Set(ctx context.Context, key, value string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pref := Preference{VisitorID: p.visitorID, Key: key, Value: datatypes.JSON(raw)}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
}

// AudioInteracted records the first play or mute so the play prompt is not
// shown again.
func AudioInteracted(w http.ResponseWriter, r *http.Request) {
	v := currentVisitor(r)
	if err := v.Audio.Mark(r.Context()); err != nil {
		logger.Warn("saving audio preference failed", zap.String("visitor", v.ID), zap.Error(err))
		http.Error(w, "Error saving preference", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "application/json" || r.Header.Get("X-Requested-With") != "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

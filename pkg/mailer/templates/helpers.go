package templates

import (
	"encoding/json"
	"time"
)

// EmailData is the template model. Keys in the queued job use these json names.
type EmailData struct {
	AppName       string    `json:"AppName"`
	Name          string    `json:"Name"`
	Email         string    `json:"Email"`
	ResetURL      string    `json:"ResetURL"`
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	SupportURL    string    `json:"SupportURL"`
}

type Option func(*EmailData)

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithSupportURL(url string) Option { return func(d *EmailData) { d.SupportURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

func NewForgotPasswordData(appName, name, email string, opts ...Option) map[string]any {
	d := EmailData{AppName: appName, Name: name, Email: email}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}

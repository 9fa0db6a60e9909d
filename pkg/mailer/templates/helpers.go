package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithName(name string) Option      { return func(d *EmailData) { d.Name = name } }
func WithSupportURL(url string) Option { return func(d *EmailData) { d.SupportURL = url } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewWelcomeData builds the data map for the welcome template.
func NewWelcomeData(appName, email string, opts ...Option) map[string]any {
	d := EmailData{Email: email, AppName: appName}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}

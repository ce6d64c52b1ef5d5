package templates

import "time"

// WelcomeData feeds the welcome templates.
type WelcomeData struct {
	Name      string
	Username  string
	Email     string
	CreatedAt time.Time

	CompanyName string
	AppName     string
	SupportURL  string
}

// Branding carries the fields every email shares.
type Branding struct {
	CompanyName string
	AppName     string
	SupportURL  string
}

type Option func(*WelcomeData)

func WithName(name string) Option { return func(d *WelcomeData) { d.Name = name } }

func WithCreatedAt(t time.Time) Option {
	return func(d *WelcomeData) { d.CreatedAt = t.UTC() }
}

func NewWelcomeData(b Branding, username, email string, opts ...Option) WelcomeData {
	d := WelcomeData{
		Username:    username,
		Email:       email,
		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

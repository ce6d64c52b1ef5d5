// Package notification turns user events into outgoing email.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/internal/infrastructure/events"
	"github.com/oksasatya/go-ddd-user-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-user-service/pkg/mailer/templates"
)

// ErrMalformed marks a message that can never be processed.
var ErrMalformed = errors.New("malformed event")

// Sender is satisfied by *mailer.Mailgun.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// WelcomeNotifier sends the welcome email for user.created events and ignores the rest.
type WelcomeNotifier struct {
	Sender   Sender
	Branding mailtpl.Branding
	Logger   *logrus.Logger
}

func NewWelcomeNotifier(sender Sender, branding mailtpl.Branding, logger *logrus.Logger) *WelcomeNotifier {
	return &WelcomeNotifier{Sender: sender, Branding: branding, Logger: logger}
}

// Handle processes one queue message. msgType is the AMQP type property and may be
// empty, in which case the type field of the body is used.
func (n *WelcomeNotifier) Handle(ctx context.Context, msgType string, body []byte) error {
	var ev events.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msgType == "" {
		msgType = ev.Type
	}
	if msgType != events.UserCreated {
		return nil
	}
	if ev.Email == "" || ev.Username == "" {
		return fmt.Errorf("%w: user.created without username or email", ErrMalformed)
	}

	opts := []mailtpl.Option{mailtpl.WithCreatedAt(ev.OccurredAt)}
	if ev.FullName != nil {
		opts = append(opts, mailtpl.WithName(*ev.FullName))
	}
	out, err := mailtpl.Render(mailtpl.Welcome, mailtpl.NewWelcomeData(n.Branding, ev.Username, ev.Email, opts...))
	if err != nil {
		return fmt.Errorf("%w: render: %v", ErrMalformed, err)
	}

	if err := n.Sender.Send(ctx, mailer.Message{To: ev.Email, Subject: out.Subject, Text: out.Text, HTML: out.HTML}); err != nil {
		return err
	}
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"user_id": ev.UserID.String(), "to": ev.Email}).Info("welcome email sent")
	}
	return nil
}

// Action is how a consumer settles a delivery.
type Action int

const (
	Ack Action = iota
	Retry
	Drop
)

// RetryPolicy bounds redelivery of messages whose send failed. Delays double
// from BaseDelay per attempt up to MaxDelay; after MaxAttempts the message is
// dropped, which dead-letters it when the queue has a DLX.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: 2 * time.Second, MaxDelay: time.Minute}
}

// Decide settles a delivery whose attempt-th try (1-based) returned err. For
// Retry it also returns how long to wait before putting the message back.
func (p RetryPolicy) Decide(err error, attempt int) (Action, time.Duration) {
	switch {
	case err == nil:
		return Ack, 0
	case errors.Is(err, ErrMalformed), attempt >= p.MaxAttempts:
		return Drop, 0
	}
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay
	for i := 1; i < attempt && d < p.MaxDelay; i++ {
		d *= 2
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return Retry, d
}

// Package events publishes user lifecycle events after successful store writes.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-service/pkg/helpers"
)

const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserEvent is the message body put on the events queue.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	Email      string    `json:"email,omitempty"`
	FullName   *string   `json:"full_name,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// PublishingRepository emits a UserEvent after each successful write.
// Publish failures are logged; the write has already happened.
type PublishingRepository struct {
	repository.UserRepository
	pub    Publisher
	logger *logrus.Logger
	now    func() time.Time
}

func NewPublishingRepository(next repository.UserRepository, pub Publisher, logger *logrus.Logger) *PublishingRepository {
	return &PublishingRepository{
		UserRepository: next,
		pub:            pub,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (r *PublishingRepository) Create(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Create(ctx, u); err != nil {
		return err
	}
	r.publish(ctx, r.eventFor(UserCreated, u))
	return nil
}

func (r *PublishingRepository) Update(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Update(ctx, u); err != nil {
		return err
	}
	r.publish(ctx, r.eventFor(UserUpdated, u))
	return nil
}

func (r *PublishingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.publish(ctx, UserEvent{Type: UserDeleted, UserID: id, OccurredAt: r.now()})
	return nil
}

func (r *PublishingRepository) eventFor(typ string, u *entity.User) UserEvent {
	rec := u.Record()
	return UserEvent{
		Type:       typ,
		UserID:     rec.ID,
		Username:   rec.Username,
		Email:      rec.Email,
		FullName:   rec.FullName,
		Status:     rec.Status,
		OccurredAt: r.now(),
	}
}

func (r *PublishingRepository) publish(ctx context.Context, ev UserEvent) {
	if err := r.pub.PublishJSON(ctx, ev.Type, ev); err != nil {
		helpers.LogWarn(r.logger, "event publish failed", err, logrus.Fields{
			"event":   ev.Type,
			"user_id": ev.UserID.String(),
		})
	}
}

var _ repository.UserRepository = (*PublishingRepository)(nil)

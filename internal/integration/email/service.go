// Package email queues, renders and sends transactional emails.
package email

import (
	"context"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

const passwordResetSubject = "Redefinir sua senha - MyEconomy"

// Service enqueues emails for the background worker.
type Service struct {
	queue adapter.EmailQueueRepository
	now   adapter.Clock
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, now adapter.Clock) *Service {
	return &Service{
		queue: queue,
		now:   now,
	}
}

// QueuePasswordResetEmail queues a password reset email.
func (s *Service) QueuePasswordResetEmail(ctx context.Context, input adapter.QueuePasswordResetInput) error {
	job := entity.NewEmailJob(
		entity.TemplatePasswordReset,
		input.UserEmail,
		input.UserName,
		passwordResetSubject,
		map[string]interface{}{
			"user_name":  input.UserName,
			"reset_url":  input.ResetURL,
			"expires_in": input.ExpiresIn,
		},
		s.now(),
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue password reset email",
			err,
		)
	}
	return nil
}

var _ adapter.EmailService = (*Service)(nil)

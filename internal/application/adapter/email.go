package adapter

import (
	"context"
	"time"

	"github.com/myeconomy/backend/internal/domain/entity"
)

// SendEmailInput is one rendered email ready for the provider.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult carries the provider's message id.
type SendEmailResult struct {
	ResendID string
}

// EmailSender delivers a rendered email. Failures should be EmailErrors so
// the worker can tell permanent from temporary ones.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// QueuePasswordResetInput holds what the password reset template shows.
type QueuePasswordResetInput struct {
	UserID    string
	UserEmail string
	UserName  string
	ResetURL  string
	ExpiresIn string
}

// EmailService enqueues emails. Delivery happens later in the worker.
type EmailService interface {
	QueuePasswordResetEmail(ctx context.Context, input QueuePasswordResetInput) error
}

// EmailQueueRepository persists email jobs between enqueue and delivery.
type EmailQueueRepository interface {
	Create(ctx context.Context, job *entity.EmailJob) error
	Update(ctx context.Context, job *entity.EmailJob) error

	// GetPendingJobs returns up to limit jobs due at now, oldest first.
	GetPendingJobs(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error)

	// GetByRecipient returns the jobs addressed to email, newest first.
	GetByRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error)

	// DeleteSentBefore removes sent jobs processed before cutoff.
	DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

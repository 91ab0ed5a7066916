package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/infra/logging"
	"github.com/myeconomy/backend/internal/integration/email/templates"
)

const (
	sentRetention   = 7 * 24 * time.Hour
	cleanupInterval = time.Hour
)

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// Worker drains the email queue: it renders each due job and sends it.
type Worker struct {
	queue    adapter.EmailQueueRepository
	sender   adapter.EmailSender
	renderer *templates.Renderer
	config   WorkerConfig
	now      adapter.Clock

	lastCleanup time.Time
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig, now adapter.Clock) *Worker {
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}

	return &Worker{
		queue:    queue,
		sender:   sender,
		renderer: renderer,
		config:   config,
		now:      now,
	}
}

// Run polls the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	logger := slog.With(logging.FieldComponent, logging.ComponentWorker)
	logger.Info("Email worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.ProcessNow(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		case <-ticker.C:
			w.ProcessNow(ctx)
			w.cleanup(ctx)
		}
	}
}

// ProcessNow sends one batch of due jobs and returns how many were sent.
func (w *Worker) ProcessNow(ctx context.Context) int {
	jobs, err := w.queue.GetPendingJobs(ctx, w.now(), w.config.BatchSize)
	if err != nil {
		slog.Error("Failed to get pending email jobs", logging.FieldError, err)
		return 0
	}

	sent := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		if w.processJob(ctx, job) {
			sent++
		}
	}
	return sent
}

func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) bool {
	logger := slog.With(
		logging.FieldComponent, logging.ComponentWorker,
		logging.FieldJobID, job.ID,
		"template", job.TemplateType,
	)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as processing", logging.FieldError, err)
		return false
	}

	html, text, err := w.render(job)
	if err != nil {
		logger.Error("Failed to render email template", logging.FieldError, err)
		w.fail(ctx, logger, job, err, true)
		return false
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		var emailErr *domainerror.EmailError
		permanent := errors.As(err, &emailErr) && emailErr.IsPermanent()
		logger.Error("Failed to send email", logging.FieldError, err, "permanent", permanent)
		w.fail(ctx, logger, job, err, permanent)
		return false
	}

	job.MarkSent(result.ResendID, w.now())
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as sent", logging.FieldError, err)
		return false
	}

	logger.Info("Email sent", "resend_id", result.ResendID)
	return true
}

func (w *Worker) render(job *entity.EmailJob) (string, string, error) {
	switch job.TemplateType {
	case entity.TemplatePasswordReset:
		return w.renderer.Render(string(job.TemplateType), templates.PasswordResetData{
			UserName:  stringValue(job.TemplateData, "user_name"),
			ResetURL:  stringValue(job.TemplateData, "reset_url"),
			ExpiresIn: stringValue(job.TemplateData, "expires_in"),
		})
	default:
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			fmt.Sprintf("unknown template type %q", job.TemplateType),
			domainerror.ErrInvalidTemplate,
		)
	}
}

func (w *Worker) fail(ctx context.Context, logger *slog.Logger, job *entity.EmailJob, err error, permanent bool) {
	job.MarkFailed(err, permanent, w.now())

	if updateErr := w.queue.Update(ctx, job); updateErr != nil {
		logger.Error("Failed to update job after failure", logging.FieldError, updateErr)
		return
	}

	if job.Status == entity.EmailStatusFailed {
		logger.Warn("Email job permanently failed", "attempts", job.Attempts)
		return
	}
	logger.Info("Email job scheduled for retry", "attempts", job.Attempts, "scheduled_at", job.ScheduledAt)
}

func (w *Worker) cleanup(ctx context.Context) {
	now := w.now()
	if now.Sub(w.lastCleanup) < cleanupInterval {
		return
	}
	w.lastCleanup = now

	deleted, err := w.queue.DeleteSentBefore(ctx, now.Add(-sentRetention))
	if err != nil {
		slog.Warn("Failed to clean up sent emails", logging.FieldError, err)
		return
	}
	if deleted > 0 {
		slog.Debug("Cleaned up sent emails", "count", deleted)
	}
}

func stringValue(data map[string]interface{}, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

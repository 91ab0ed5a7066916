package entity

import (
	"errors"
	"testing"
	"time"
)

func TestEmailJob_Lifecycle(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	job := NewEmailJob(TemplatePasswordReset, "ana@example.com", "Ana", "Redefinir", nil, now)

	if !job.IsReadyToProcess(now) {
		t.Fatalf("new job should be due immediately")
	}

	job.MarkProcessing()
	job.MarkFailed(errors.New("timeout"), false, now)
	if job.Status != EmailStatusPending || job.Attempts != 1 {
		t.Fatalf("expected pending retry, got %s after %d attempts", job.Status, job.Attempts)
	}
	if !job.ScheduledAt.Equal(now.Add(time.Minute)) {
		t.Errorf("first retry scheduled at %v", job.ScheduledAt)
	}
	if job.IsReadyToProcess(now) {
		t.Errorf("job should wait for its retry delay")
	}

	job.MarkFailed(errors.New("timeout"), false, now)
	if !job.ScheduledAt.Equal(now.Add(5 * time.Minute)) {
		t.Errorf("second retry scheduled at %v", job.ScheduledAt)
	}

	job.MarkFailed(errors.New("timeout"), false, now)
	if job.Status != EmailStatusFailed || job.ProcessedAt == nil {
		t.Errorf("job should fail after %d attempts, got %s", job.MaxAttempts, job.Status)
	}
}

func TestEmailJob_PermanentFailure(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	job := NewEmailJob(TemplatePasswordReset, "ana@example.com", "Ana", "Redefinir", nil, now)

	job.MarkFailed(errors.New("422 validation"), true, now)
	if job.Status != EmailStatusFailed || job.LastError != "422 validation" {
		t.Errorf("unexpected job state %+v", job)
	}
}

func TestEmailJob_MarkSent(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	job := NewEmailJob(TemplatePasswordReset, "ana@example.com", "Ana", "Redefinir", nil, now)

	job.MarkSent("re_123", now.Add(time.Second))
	if job.Status != EmailStatusSent || job.ResendID != "re_123" || !job.ProcessedAt.Equal(now.Add(time.Second)) {
		t.Errorf("unexpected job state %+v", job)
	}
	if job.IsReadyToProcess(now.Add(time.Hour)) {
		t.Errorf("sent job must not be processed again")
	}
}

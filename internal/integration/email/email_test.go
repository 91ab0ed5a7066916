package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/integration/email/templates"
)

type fakeQueue struct {
	jobs    map[uuid.UUID]*entity.EmailJob
	order   []uuid.UUID
	deleted time.Time
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{jobs: map[uuid.UUID]*entity.EmailJob{}}
}

func (q *fakeQueue) Create(_ context.Context, job *entity.EmailJob) error {
	q.jobs[job.ID] = job
	q.order = append(q.order, job.ID)
	return nil
}

func (q *fakeQueue) GetPendingJobs(_ context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	var due []*entity.EmailJob
	for _, id := range q.order {
		if job := q.jobs[id]; job.IsReadyToProcess(now) && len(due) < limit {
			copied := *job
			due = append(due, &copied)
		}
	}
	return due, nil
}

func (q *fakeQueue) Update(_ context.Context, job *entity.EmailJob) error {
	copied := *job
	q.jobs[job.ID] = &copied
	return nil
}

func (q *fakeQueue) GetByRecipient(_ context.Context, email string) ([]*entity.EmailJob, error) {
	var out []*entity.EmailJob
	for _, id := range q.order {
		if q.jobs[id].RecipientEmail == email {
			out = append(out, q.jobs[id])
		}
	}
	return out, nil
}

func (q *fakeQueue) DeleteSentBefore(_ context.Context, cutoff time.Time) (int64, error) {
	q.deleted = cutoff
	return 0, nil
}

type fakeSender struct {
	sent []adapter.SendEmailInput
	err  error
}

func (s *fakeSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, input)
	return &adapter.SendEmailResult{ResendID: "re_1"}, nil
}

var testNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func clockAt(t *time.Time) adapter.Clock {
	return func() time.Time { return *t }
}

func newTestWorker(t *testing.T, queue *fakeQueue, sender *fakeSender, now *time.Time) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return NewWorker(queue, sender, renderer, WorkerConfig{BatchSize: 5}, clockAt(now))
}

func queueReset(t *testing.T, queue *fakeQueue, now time.Time) {
	t.Helper()
	service := NewService(queue, func() time.Time { return now })
	err := service.QueuePasswordResetEmail(context.Background(), adapter.QueuePasswordResetInput{
		UserEmail: "ana@example.com",
		UserName:  "Ana",
		ResetURL:  "https://app.myeconomy.test/reset-password?token=abc",
		ExpiresIn: "1 hora",
	})
	if err != nil {
		t.Fatalf("QueuePasswordResetEmail: %v", err)
	}
}

func TestWorker_SendsQueuedPasswordReset(t *testing.T) {
	now := testNow
	queue := newFakeQueue()
	sender := &fakeSender{}
	worker := newTestWorker(t, queue, sender, &now)

	queueReset(t, queue, now)

	if sent := worker.ProcessNow(context.Background()); sent != 1 {
		t.Fatalf("ProcessNow sent %d, want 1", sent)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}

	email := sender.sent[0]
	if email.To != "ana@example.com" || email.Subject != passwordResetSubject {
		t.Errorf("unexpected envelope %+v", email)
	}
	if !strings.Contains(email.HTML, "reset-password?token=abc") || !strings.Contains(email.Text, "1 hora") {
		t.Errorf("template data missing from bodies:\n%s\n%s", email.HTML, email.Text)
	}

	job := queue.jobs[queue.order[0]]
	if job.Status != entity.EmailStatusSent || job.ResendID != "re_1" {
		t.Errorf("job not marked sent: %+v", job)
	}
	if worker.ProcessNow(context.Background()) != 0 {
		t.Errorf("sent job processed twice")
	}
}

func TestWorker_RetriesTemporaryFailures(t *testing.T) {
	now := testNow
	queue := newFakeQueue()
	sender := &fakeSender{err: domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "temporary", errors.New("503"))}
	worker := newTestWorker(t, queue, sender, &now)

	queueReset(t, queue, now)
	worker.ProcessNow(context.Background())

	job := queue.jobs[queue.order[0]]
	if job.Status != entity.EmailStatusPending || job.Attempts != 1 {
		t.Fatalf("expected pending retry, got %s/%d", job.Status, job.Attempts)
	}

	// Not yet due
	if worker.ProcessNow(context.Background()) != 0 || queue.jobs[job.ID].Attempts != 1 {
		t.Errorf("job retried before its delay")
	}

	sender.err = nil
	now = now.Add(time.Minute)
	if worker.ProcessNow(context.Background()) != 1 {
		t.Errorf("job not retried once due")
	}
}

func TestWorker_PermanentFailureStops(t *testing.T) {
	now := testNow
	queue := newFakeQueue()
	sender := &fakeSender{err: classifySendError(errors.New("422 validation_error: invalid `to` field"))}
	worker := newTestWorker(t, queue, sender, &now)

	queueReset(t, queue, now)
	worker.ProcessNow(context.Background())

	job := queue.jobs[queue.order[0]]
	if job.Status != entity.EmailStatusFailed {
		t.Errorf("expected failed job, got %s", job.Status)
	}
}

func TestWorker_UnknownTemplateFails(t *testing.T) {
	now := testNow
	queue := newFakeQueue()
	sender := &fakeSender{}
	worker := newTestWorker(t, queue, sender, &now)

	job := entity.NewEmailJob("newsletter", "ana@example.com", "Ana", "Oi", nil, now)
	_ = queue.Create(context.Background(), job)
	worker.ProcessNow(context.Background())

	if got := queue.jobs[job.ID]; got.Status != entity.EmailStatusFailed || len(sender.sent) != 0 {
		t.Errorf("unknown template should fail without sending, got %s", got.Status)
	}
}

func TestWorker_CleanupUsesRetention(t *testing.T) {
	now := testNow
	queue := newFakeQueue()
	worker := newTestWorker(t, queue, &fakeSender{}, &now)

	worker.cleanup(context.Background())
	if !queue.deleted.Equal(now.Add(-sentRetention)) {
		t.Errorf("cleanup cutoff = %v", queue.deleted)
	}
}

func TestClassifySendError(t *testing.T) {
	tests := []struct {
		err  error
		want domainerror.EmailErrorCode
	}{
		{errors.New("401 Unauthorized"), domainerror.ErrCodePermanentEmailFailure},
		{errors.New("The `from` field is invalid"), domainerror.ErrCodePermanentEmailFailure},
		{errors.New("429 rate limit exceeded"), domainerror.ErrCodeTemporaryEmailFailure},
		{errors.New("connection reset by peer"), domainerror.ErrCodeTemporaryEmailFailure},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			var emailErr *domainerror.EmailError
			if !errors.As(classifySendError(tt.err), &emailErr) || emailErr.Code != tt.want {
				t.Errorf("classifySendError(%q) = %v, want %s", tt.err, emailErr, tt.want)
			}
		})
	}
}

func TestFormatSender(t *testing.T) {
	if got := formatSender("MyEconomy", "no-reply@myeconomy.app"); got != "MyEconomy <no-reply@myeconomy.app>" {
		t.Errorf("formatSender = %q", got)
	}
	if got := formatSender("", "no-reply@myeconomy.app"); got != "no-reply@myeconomy.app" {
		t.Errorf("formatSender without name = %q", got)
	}
}

func TestResendClient_PostsToBaseURL(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer re_test" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_42"}`))
	}))
	defer server.Close()

	client, err := NewResendClient("re_test", "MyEconomy", "no-reply@myeconomy.app", server.URL)
	if err != nil {
		t.Fatalf("NewResendClient() error = %v", err)
	}

	result, err := client.Send(context.Background(), adapter.SendEmailInput{
		To:      "ana@example.com",
		Subject: "Redefinição de senha",
		HTML:    "<p>oi</p>",
		Text:    "oi",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.ResendID != "re_42" {
		t.Errorf("ResendID = %q, want re_42", result.ResendID)
	}
	if received["from"] != "MyEconomy <no-reply@myeconomy.app>" {
		t.Errorf("from = %v", received["from"])
	}
}

func TestNewResendClient_RejectsBadBaseURL(t *testing.T) {
	if _, err := NewResendClient("re_test", "", "a@b.c", "http://[::1"); err == nil {
		t.Fatal("expected an error for a malformed base url")
	}
}

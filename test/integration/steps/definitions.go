package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/myeconomy/backend/internal/integration/persistence"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)
	resetTokenPattern  = regexp.MustCompile(`token=([^"&\s<]+)`)
)

func scenario(ctx context.Context) (*TestContext, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return nil, fmt.Errorf("test context not found")
	}
	return tc, nil
}

// Setup steps

func theAPIServerIsRunning(ctx context.Context) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	if tc.app.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func theCurrentDateIs(ctx context.Context, date string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	tc.app.clock.SetCurrentTime(day.Add(12 * time.Hour))
	return nil
}

func timeAdvancesBy(ctx context.Context, duration string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", duration, err)
	}
	tc.app.clock.Advance(d)
	tc.app.redis.FastForward(d)
	return nil
}

func aUserIsRegistered(ctx context.Context, email string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}

	name := strings.Split(email, "@")[0]
	payload, _ := json.Marshal(map[string]string{
		"nome":           strings.ToUpper(name[:1]) + name[1:],
		"email":          email,
		"dataNascimento": "10/03/1990",
		"senha":          defaultPassword,
		"confirmarSenha": defaultPassword,
	})
	if err := tc.do(http.MethodPost, "/api/v1/auth/register", payload, false); err != nil {
		return err
	}
	if tc.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to register %s: status %d body %s", email, tc.response.StatusCode, tc.responseBody)
	}
	return nil
}

func iAmLoggedInAs(ctx context.Context, email string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}

	payload, _ := json.Marshal(map[string]string{"email": email, "senha": defaultPassword})
	if err := tc.do(http.MethodPost, "/api/v1/auth/login", payload, false); err != nil {
		return err
	}
	if tc.response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to log in as %s: status %d body %s", email, tc.response.StatusCode, tc.responseBody)
	}

	var body struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(tc.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}
	tc.accessToken = body.Token
	tc.refreshToken = body.RefreshToken
	return nil
}

func iLogOutLocally(ctx context.Context) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	tc.accessToken = ""
	return nil
}

// API steps

func iSendARequestTo(ctx context.Context, method, endpoint string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	return tc.do(method, tc.expand(endpoint), nil, true)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	return tc.do(method, tc.expand(endpoint), []byte(tc.expand(body.Content)), true)
}

func iSetHeaderTo(ctx context.Context, header, value string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	tc.requestHeaders[header] = value
	return nil
}

func iRememberTheResponseFieldAs(ctx context.Context, field, name string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	value, err := tc.field(field)
	if err != nil {
		return err
	}
	tc.ids[name] = fmt.Sprintf("%v", value)
	return nil
}

func (tc *TestContext) do(method, path string, payload []byte, authenticated bool) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, tc.app.server.URL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if authenticated && tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := tc.app.server.Client().Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func (tc *TestContext) expand(content string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		switch name {
		case "refreshToken":
			return tc.refreshToken
		case "resetToken":
			return tc.resetToken
		}
		if value, ok := tc.ids[name]; ok {
			return value
		}
		return match
	})
}

// Response steps

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	value, err := tc.field(field)
	if err != nil {
		return err
	}
	if actual := formatValue(value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	_, err = tc.field(field)
	return err
}

func theResponseShouldHaveItems(ctx context.Context, expected int) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	var items []any
	if err := json.Unmarshal(tc.responseBody, &items); err != nil {
		return fmt.Errorf("response is not a JSON array: %w. Body: %s", err, tc.responseBody)
	}
	if len(items) != expected {
		return fmt.Errorf("expected %d items, got %d. Body: %s", expected, len(items), tc.responseBody)
	}
	return nil
}

func theResponseHeaderShouldBe(ctx context.Context, header, expected string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	if actual := tc.response.Header.Get(header); actual != expected {
		return fmt.Errorf("header '%s' expected '%s', got '%s'", header, expected, actual)
	}
	return nil
}

func theResponseHeaderShouldContain(ctx context.Context, header, expected string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	if actual := tc.response.Header.Get(header); !strings.Contains(actual, expected) {
		return fmt.Errorf("header '%s' does not contain '%s', got '%s'", header, expected, actual)
	}
	return nil
}

// field resolves a dot separated path such as "despesas.0.valor" against
// the last JSON response.
func (tc *TestContext) field(path string) (any, error) {
	var data any
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response: %s", path, tc.responseBody)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index '%s' of '%s' out of range in response: %s", part, path, tc.responseBody)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s' not found in response: %s", path, tc.responseBody)
		}
	}
	return current, nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// State steps

func theTableShouldContainRows(ctx context.Context, table string, expected int) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	count, err := tc.app.db.Count(table)
	if err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
	return nil
}

func theEmailWorkerRuns(ctx context.Context) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	tc.app.injector.EmailWorker.ProcessNow(ctx)
	return nil
}

func theEmailProviderRejectsTheNextEmail(ctx context.Context, status int) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	next := len(tc.app.resend.Requests(http.MethodPost, resendEmailPath))
	tc.app.resend.SetResponse(next, http.MethodPost, resendEmailPath, status, map[string]any{
		"statusCode": status,
		"name":       "validation_error",
		"message":    "Invalid `to` field",
	})
	return nil
}

func (tc *TestContext) emailsTo(recipient string) []map[string]any {
	var emails []map[string]any
	for _, req := range tc.app.resend.Requests(http.MethodPost, resendEmailPath) {
		to, _ := req.Body["to"].([]any)
		for _, address := range to {
			if address == recipient {
				emails = append(emails, req.Body)
				break
			}
		}
	}
	return emails
}

func emailsShouldHaveBeenSentTo(ctx context.Context, expected int, recipient string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	if got := len(tc.emailsTo(recipient)); got != expected {
		return fmt.Errorf("expected %d emails to %s, got %d", expected, recipient, got)
	}
	return nil
}

func (tc *TestContext) lastEmailTo(recipient string) (map[string]any, error) {
	emails := tc.emailsTo(recipient)
	if len(emails) == 0 {
		return nil, fmt.Errorf("no email was sent to %s", recipient)
	}
	return emails[len(emails)-1], nil
}

func theLastEmailShouldContain(ctx context.Context, recipient, expected string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	email, err := tc.lastEmailTo(recipient)
	if err != nil {
		return err
	}
	for _, key := range []string{"subject", "html", "text"} {
		if text, _ := email[key].(string); strings.Contains(text, expected) {
			return nil
		}
	}
	return fmt.Errorf("last email to %s does not contain %q", recipient, expected)
}

func iTakeTheResetTokenFromTheLastEmail(ctx context.Context, recipient string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	email, err := tc.lastEmailTo(recipient)
	if err != nil {
		return err
	}
	text, _ := email["text"].(string)
	match := resetTokenPattern.FindStringSubmatch(text)
	if match == nil {
		return fmt.Errorf("no reset link in the email to %s", recipient)
	}
	token, err := url.QueryUnescape(match[1])
	if err != nil {
		return fmt.Errorf("malformed reset token: %w", err)
	}
	tc.resetToken = token
	return nil
}

func theEmailJobShouldBe(ctx context.Context, recipient, status string) error {
	tc, err := scenario(ctx)
	if err != nil {
		return err
	}
	jobs, err := persistence.NewEmailQueueRepository(tc.app.db.DbConn).GetByRecipient(ctx, recipient)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no email job for %s", recipient)
	}
	job := jobs[0]
	if string(job.Status) != status {
		return fmt.Errorf("email job for %s expected %q, got %q (last error %q)", recipient, status, job.Status, job.LastError)
	}
	return nil
}

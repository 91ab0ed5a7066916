// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/myeconomy/backend/config"
	"github.com/myeconomy/backend/internal/infra/dependency"
	"github.com/myeconomy/backend/internal/infra/logging"
	"github.com/myeconomy/backend/internal/integration/adapters"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
	"github.com/myeconomy/backend/test/integration/mock"
)

const (
	testJWTSecret   = "test-jwt-secret-key-for-testing-purposes"
	defaultPassword = "Senha@123"
	resendEmailPath = "/emails"
)

// app is the wired application shared by every scenario.
type app struct {
	server   *httptest.Server
	injector *dependency.Injector
	db       *mock.Db
	redis    *mock.Redis
	clock    *mock.Time
	resend   *mock.ApiMock
}

var (
	suiteApp     *app
	suiteAppOnce sync.Once
	suiteAppErr  error
)

func startApp() (*app, error) {
	suiteAppOnce.Do(func() {
		logging.Setup(io.Discard, slog.LevelError)
		if err := dto.RegisterValidators(); err != nil {
			suiteAppErr = err
			return
		}

		a := &app{
			db:     mock.NewDb("myeconomy_integration"),
			redis:  mock.NewRedis(),
			clock:  mock.NewTime(),
			resend: mock.NewApiServer(),
		}
		a.resend.Start()

		cfg := testConfig(a.resend.GetUrl())
		injector, err := dependency.NewInjector(cfg, a.db.DbConn, a.redis.Client, dependency.Options{
			Now:             a.clock.Now,
			PasswordService: adapters.NewPasswordServiceWithCost(bcrypt.MinCost),
		})
		if err != nil {
			suiteAppErr = fmt.Errorf("failed to wire application: %w", err)
			return
		}

		a.injector = injector
		a.server = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment, nil))
		suiteApp = a
	})
	return suiteApp, suiteAppErr
}

func (a *app) stop() {
	if a == nil {
		return
	}
	a.server.Close()
	a.resend.Close()
}

func (a *app) reset() error {
	if err := a.db.ClearDB(); err != nil {
		return err
	}
	if err := a.redis.Clear(); err != nil {
		return err
	}
	a.resend.Clear()
	a.resend.SetResponse(-1, http.MethodPost, resendEmailPath, http.StatusOK, map[string]any{"id": "re_integration"})
	a.clock.SetCurrentTime(time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC))
	return nil
}

func testConfig(resendURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Redis: config.RedisConfig{
			SnapshotCacheTTL: 5 * time.Minute,
			LimitLockTTL:     5 * time.Second,
		},
		JWT: config.JWTConfig{
			Secret:             testJWTSecret,
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
			ResetTokenExpiry:   time.Hour,
		},
		Email: config.EmailConfig{
			ResendAPIKey:  "re_test_key",
			ResendBaseURL: resendURL,
			FromName:      "MyEconomy",
			FromEmail:     "no-reply@myeconomy.app",
			AppBaseURL:    "http://localhost:8081",
			BatchSize:     10,
		},
		RateLimit: config.RateLimitConfig{
			LoginAttempts: 5,
			LoginWindow:   time.Minute,
		},
	}
}

// TestContext holds the state of one scenario.
type TestContext struct {
	app *app

	response     *http.Response
	responseBody []byte

	requestHeaders map[string]string

	accessToken  string
	refreshToken string
	resetToken   string
	ids          map[string]string
}

type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		suiteApp.stop()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		a, err := startApp()
		if err != nil {
			return ctx, err
		}
		if err := a.reset(); err != nil {
			return ctx, fmt.Errorf("failed to reset state: %w", err)
		}

		tc := &TestContext{
			app:            a,
			requestHeaders: make(map[string]string),
			ids:            make(map[string]string),
		}
		return SetTestContext(ctx, tc), nil
	})

	registerSetupSteps(ctx)
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerStateSteps(ctx)
}

func registerSetupSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^the current date is "([^"]*)"$`, theCurrentDateIs)
	ctx.Step(`^time advances by "([^"]*)"$`, timeAdvancesBy)
	ctx.Step(`^a user "([^"]*)" is registered$`, aUserIsRegistered)
	ctx.Step(`^I am logged in as "([^"]*)"$`, iAmLoggedInAs)
	ctx.Step(`^I log out locally$`, iLogOutLocally)
}

func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, iRememberTheResponseFieldAs)
}

func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response should have (\d+) items?$`, theResponseShouldHaveItems)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, theResponseHeaderShouldBe)
	ctx.Step(`^the response header "([^"]*)" should contain "([^"]*)"$`, theResponseHeaderShouldContain)
}

func registerStateSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the table "([^"]*)" should contain (\d+) rows?$`, theTableShouldContainRows)
	ctx.Step(`^the email worker runs$`, theEmailWorkerRuns)
	ctx.Step(`^the email provider rejects the next email with status (\d+)$`, theEmailProviderRejectsTheNextEmail)
	ctx.Step(`^(\d+) emails? should have been sent to "([^"]*)"$`, emailsShouldHaveBeenSentTo)
	ctx.Step(`^the last email to "([^"]*)" should contain "([^"]*)"$`, theLastEmailShouldContain)
	ctx.Step(`^I take the reset token from the last email to "([^"]*)"$`, iTakeTheResetTokenFromTheLastEmail)
	ctx.Step(`^the email job for "([^"]*)" should be "([^"]*)"$`, theEmailJobShouldBe)
}

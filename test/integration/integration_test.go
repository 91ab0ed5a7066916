//go:build integration

// Package integration runs the godog features against the wired API over
// SQLite, miniredis and a mocked email provider.
package integration

import (
	"flag"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/myeconomy/backend/test/integration/steps"
)

var tags = flag.String("scenarios", "", "tag expression selecting the scenarios to run")

func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Format:      "pretty",
		Paths:       []string{"features"},
		Output:      colors.Colored(os.Stdout),
		Concurrency: 1,
		Strict:      true,
		Tags:        *tags,
		TestingT:    t,
	}

	if env := os.Getenv("GODOG_TAGS"); env != "" && opts.Tags == "" {
		opts.Tags = env
	}

	suite := godog.TestSuite{
		Name:                 "myeconomy-api",
		ScenarioInitializer:  steps.InitializeScenario,
		TestSuiteInitializer: steps.InitializeTestSuite,
		Options:              &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

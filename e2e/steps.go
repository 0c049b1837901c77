package e2e

import (
	"github.com/cucumber/godog"

	"oleobot/e2e/steps/chat"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	chat.RegisterSteps(ctx, tc)
}

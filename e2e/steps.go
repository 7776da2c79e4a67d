package e2e

import (
	"github.com/cucumber/godog"

	"companion/e2e/steps/common"
	"companion/e2e/steps/diagnostics"
	"companion/e2e/steps/settings"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	diagnostics.RegisterSteps(ctx, tc)
	settings.RegisterSteps(ctx, tc)
}

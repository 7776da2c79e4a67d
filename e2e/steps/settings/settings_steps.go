package settings

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
}

// RegisterSteps registers settings screen step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &settingsSteps{tc: tc}

	ctx.Step(`^I tap the settings row "([^"]*)"$`, steps.tapRow)
	ctx.Step(`^I start logging out$`, steps.beginLogOut)
	ctx.Step(`^I (confirm|cancel) logging out$`, steps.answerLogOut)
	ctx.Step(`^I (accept|decline) the rate prompt$`, steps.answerRatePrompt)
}

type settingsSteps struct {
	tc TestContext
}

func (s *settingsSteps) tapRow(ctx context.Context, item string) error {
	return s.tc.POST("/settings/items/"+item, nil)
}

func (s *settingsSteps) beginLogOut(ctx context.Context) error {
	return s.tc.POST("/settings/logout", nil)
}

func (s *settingsSteps) answerLogOut(ctx context.Context, answer string) error {
	return s.tc.POST("/settings/logout/confirm", map[string]bool{"confirmed": answer == "confirm"})
}

func (s *settingsSteps) answerRatePrompt(ctx context.Context, answer string) error {
	return s.tc.POST("/settings/rate", map[string]bool{"accepted": answer == "accept"})
}

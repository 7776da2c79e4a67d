package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	POST(path string, body any) error
	PUT(path string, body any) error
	Body() []byte
}

// RegisterSteps registers diagnostics and session step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &diagnosticsSteps{tc: tc}

	ctx.Step(`^I sign in as "([^"]*)" with "([^"]*)"$`, steps.signIn)
	ctx.Step(`^I select the health source "([^"]*)"$`, steps.selectHealthSource)
	ctx.Step(`^I set the diagnostics item "([^"]*)" to "([^"]*)"$`, steps.setItem)
	ctx.Step(`^the diagnostics should include "([^"]*)"$`, steps.shouldInclude)
	ctx.Step(`^the diagnostics should not include "([^"]*)"$`, steps.shouldNotInclude)
	ctx.Step(`^the diagnostics item "([^"]*)" should eventually be "([^"]*)"$`, steps.eventuallyEquals)
}

type diagnosticsSteps struct {
	tc TestContext
}

type item struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (s *diagnosticsSteps) signIn(ctx context.Context, email, source string) error {
	return s.tc.POST("/session", map[string]string{"email": email, "auth_source": source})
}

func (s *diagnosticsSteps) selectHealthSource(ctx context.Context, id string) error {
	return s.tc.PUT("/health-sources/current", map[string]string{"id": id})
}

func (s *diagnosticsSteps) setItem(ctx context.Context, itemType, value string) error {
	return s.tc.PUT("/diagnostics/items/"+itemType, map[string]string{"value": value})
}

func (s *diagnosticsSteps) items() (map[string]string, error) {
	if err := s.tc.GET("/diagnostics", nil); err != nil {
		return nil, err
	}
	var resp struct {
		Items []item `json:"items"`
	}
	if err := json.Unmarshal(s.tc.Body(), &resp); err != nil {
		return nil, fmt.Errorf("decode diagnostics: %w", err)
	}
	out := make(map[string]string, len(resp.Items))
	for _, it := range resp.Items {
		out[it.Type] = it.Value
	}
	return out, nil
}

func (s *diagnosticsSteps) shouldInclude(ctx context.Context, itemType string) error {
	items, err := s.items()
	if err != nil {
		return err
	}
	if _, ok := items[itemType]; !ok {
		return fmt.Errorf("diagnostics missing %q", itemType)
	}
	return nil
}

func (s *diagnosticsSteps) shouldNotInclude(ctx context.Context, itemType string) error {
	items, err := s.items()
	if err != nil {
		return err
	}
	if v, ok := items[itemType]; ok {
		return fmt.Errorf("diagnostics unexpectedly include %q = %q", itemType, v)
	}
	return nil
}

func (s *diagnosticsSteps) eventuallyEquals(ctx context.Context, itemType, want string) error {
	deadline := time.Now().Add(5 * time.Second)
	for {
		items, err := s.items()
		if err != nil {
			return err
		}
		if items[itemType] == want {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("diagnostics item %q: expected %q, got %q", itemType, want, items[itemType])
		}
		time.Sleep(100 * time.Millisecond)
	}
}

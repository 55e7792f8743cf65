package searchapi

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// unknownRequestID is a well-formed id no store will have issued.
const unknownRequestID = "00000000-0000-4000-8000-00000000e2e0"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers search API request queue steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &searchAPISteps{tc: tc}

	ctx.Step(`^I list search API requests that are ready for search$`, steps.listReady)
	ctx.Step(`^I list failed search API requests that are eligible for retry$`, steps.listFailed)
	ctx.Step(`^the listing count should match the listed requests$`, steps.countMatchesRequests)
	ctx.Step(`^every listed request should be marked failed$`, steps.everyListedIsFailed)
	ctx.Step(`^I report a "([^"]*)" event from provider "([^"]*)" for an unknown search API request$`, steps.reportEventUnknown)
	ctx.Step(`^I report a "([^"]*)" event without a provider for an unknown search API request$`, steps.reportEventNoProvider)
	ctx.Step(`^I mark search API request "([^"]*)" complete$`, steps.markComplete)
}

type searchAPISteps struct {
	tc TestContext
}

func (s *searchAPISteps) listReady(ctx context.Context) error {
	return s.tc.GET("/search-api-requests/ready", nil)
}

func (s *searchAPISteps) listFailed(ctx context.Context) error {
	return s.tc.GET("/search-api-requests/failed", nil)
}

func (s *searchAPISteps) requests() ([]interface{}, error) {
	v, err := s.tc.GetResponseField("requests")
	if err != nil {
		return nil, err
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("requests is not a list: %v", v)
	}
	return list, nil
}

func (s *searchAPISteps) countMatchesRequests(ctx context.Context) error {
	list, err := s.requests()
	if err != nil {
		return err
	}
	count, err := s.tc.GetResponseField("count")
	if err != nil {
		return err
	}
	if n, ok := count.(float64); !ok || int(n) != len(list) {
		return fmt.Errorf("count %v does not match %d listed requests", count, len(list))
	}
	return nil
}

func (s *searchAPISteps) everyListedIsFailed(ctx context.Context) error {
	list, err := s.requests()
	if err != nil {
		return err
	}
	for i, item := range list {
		req, ok := item.(map[string]interface{})
		if !ok || req["isFailed"] != true {
			return fmt.Errorf("request %d is not marked failed: %v", i, item)
		}
	}
	return nil
}

func (s *searchAPISteps) reportEventUnknown(ctx context.Context, eventType, provider string) error {
	return s.tc.POST("/search-api-requests/"+unknownRequestID+"/events", map[string]interface{}{
		"providerName": provider,
		"type":         eventType,
	})
}

func (s *searchAPISteps) reportEventNoProvider(ctx context.Context, eventType string) error {
	return s.tc.POST("/search-api-requests/"+unknownRequestID+"/events", map[string]interface{}{
		"type": eventType,
	})
}

func (s *searchAPISteps) markComplete(ctx context.Context, requestID string) error {
	return s.tc.POST("/search-api-requests/"+requestID+"/complete", nil)
}

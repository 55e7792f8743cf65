package searchrequest

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	PUT(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers search request lifecycle steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &searchRequestSteps{tc: tc}

	ctx.Step(`^I order a search request for "([^"]*)" "([^"]*)"$`, steps.orderSearchRequest)
	ctx.Step(`^I order the same search request again$`, steps.orderAgain)
	ctx.Step(`^I update the search request with applicant "([^"]*)" "([^"]*)"$`, steps.updateApplicant)
	ctx.Step(`^a provider "([^"]*)" reports the person found with phone "([^"]*)"$`, steps.personFound)
	ctx.Step(`^I cancel the search request$`, steps.cancel)
	ctx.Step(`^I cancel a search request that was never ordered$`, steps.cancelUnknown)
	ctx.Step(`^the response should describe the ordered search request$`, steps.responseDescribesCurrent)
	ctx.Step(`^at least (\d+) records? should have been uploaded$`, steps.uploadedAtLeast)
}

type searchRequestSteps struct {
	tc TestContext
	// key is unique per scenario so reruns against a persistent store do
	// not collide.
	key    string
	person map[string]interface{}
}

func (s *searchRequestSteps) orderSearchRequest(ctx context.Context, first, last string) error {
	s.key = fmt.Sprintf("E2E-%d", time.Now().UnixNano())
	s.person = map[string]interface{}{"firstName": first, "lastName": last}
	return s.orderAgain(ctx)
}

func (s *searchRequestSteps) orderAgain(ctx context.Context) error {
	if s.key == "" {
		return fmt.Errorf("no search request has been ordered in this scenario")
	}
	return s.tc.POST("/search-requests", map[string]interface{}{
		"searchRequestKey": s.key,
		"providerProfile":  map[string]interface{}{"name": "e2e"},
		"person":           s.person,
	})
}

func (s *searchRequestSteps) updateApplicant(ctx context.Context, first, last string) error {
	return s.tc.PUT("/search-requests/"+s.key, map[string]interface{}{
		"applicantFirstName": first,
		"applicantLastName":  last,
		"person":             s.person,
	})
}

func (s *searchRequestSteps) personFound(ctx context.Context, provider, phone string) error {
	found := map[string]interface{}{}
	for k, v := range s.person {
		found[k] = v
	}
	found["phones"] = []map[string]interface{}{{"phoneNumber": phone}}
	return s.tc.POST("/search-requests/"+s.key+"/person-found", map[string]interface{}{
		"providerProfile": map[string]interface{}{"name": provider},
		"person":          found,
	})
}

func (s *searchRequestSteps) cancel(ctx context.Context) error {
	return s.tc.POST("/search-requests/"+s.key+"/cancel", nil)
}

func (s *searchRequestSteps) cancelUnknown(ctx context.Context) error {
	return s.tc.POST(fmt.Sprintf("/search-requests/E2E-MISSING-%d/cancel", time.Now().UnixNano()), nil)
}

func (s *searchRequestSteps) responseDescribesCurrent(ctx context.Context) error {
	v, err := s.tc.GetResponseField("searchRequest.searchRequestKey")
	if err != nil {
		return err
	}
	if v != s.key {
		return fmt.Errorf("expected search request %q, got %v", s.key, v)
	}
	return nil
}

func (s *searchRequestSteps) uploadedAtLeast(ctx context.Context, n int) error {
	v, err := s.tc.GetResponseField("uploads.succeeded")
	if err != nil {
		return err
	}
	got, ok := v.(float64)
	if !ok {
		return fmt.Errorf("uploads.succeeded is not a number: %v", v)
	}
	if int(got) < n {
		return fmt.Errorf("expected at least %d uploads, got %d", n, int(got))
	}
	return nil
}

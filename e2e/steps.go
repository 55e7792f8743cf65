package e2e

import (
	"github.com/cucumber/godog"

	"searchbridge/e2e/steps/common"
	"searchbridge/e2e/steps/searchapi"
	"searchbridge/e2e/steps/searchrequest"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	searchrequest.RegisterSteps(ctx, tc)
	searchapi.RegisterSteps(ctx, tc)
}

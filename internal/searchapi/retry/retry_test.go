package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbridge/internal/searchapi/models"
	id "searchbridge/pkg/domain"
)

func policyP() models.DataProvider {
	return models.DataProvider{AdaptorName: "P", NumberOfDaysToRetry: 3, TimeBetweenRetries: 60, NumberOfRetries: 5}
}

func requestWith(attempts ...models.ProviderAttempt) models.SearchAPIRequest {
	return models.SearchAPIRequest{ID: id.NewSearchAPIRequestID(), DataProviders: attempts}
}

func TestEligible_FailureWindow(t *testing.T) {
	var eligible []int
	for _, failures := range []int{0, 1, 2, 3, 4} {
		if Eligible(policyP(), models.ProviderAttempt{AdaptorName: "P", NumberOfFailures: failures}) {
			eligible = append(eligible, failures)
		}
	}
	assert.Equal(t, []int{1, 2}, eligible)
}

func TestEligible_OtherAdaptorNeverMatches(t *testing.T) {
	assert.False(t, Eligible(policyP(), models.ProviderAttempt{AdaptorName: "Q", NumberOfFailures: 1}))
}

func TestSelect_FailureWindow(t *testing.T) {
	var requests []models.SearchAPIRequest
	for _, failures := range []int{0, 1, 2, 3, 4} {
		requests = append(requests, requestWith(models.ProviderAttempt{AdaptorName: "P", NumberOfFailures: failures}))
	}

	got := Select([]models.DataProvider{policyP()}, requests)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].DataProviders[0].NumberOfFailures)
	assert.Equal(t, 2, got[1].DataProviders[0].NumberOfFailures)
}

func TestNormalize(t *testing.T) {
	req := requestWith(
		models.ProviderAttempt{AdaptorName: "P", NumberOfFailures: 1, TimeBetweenRetries: 10, NumberOfRetries: 1},
		models.ProviderAttempt{AdaptorName: "Q", NumberOfFailures: 0, TimeBetweenRetries: 10, NumberOfRetries: 1},
	)

	got := Normalize(policyP(), req)

	assert.True(t, got.IsFailed)
	assert.Equal(t, 60, got.DataProviders[0].TimeBetweenRetries)
	assert.Equal(t, 5, got.DataProviders[0].NumberOfRetries)
	assert.Equal(t, 10, got.DataProviders[1].TimeBetweenRetries, "other adaptors are untouched")
	assert.Equal(t, 1, got.DataProviders[1].NumberOfRetries)

	assert.False(t, req.IsFailed, "input is not mutated")
	assert.Equal(t, 10, req.DataProviders[0].TimeBetweenRetries)
}

func TestSelect_NoGlobalDeduplication(t *testing.T) {
	q := models.DataProvider{AdaptorName: "Q", NumberOfDaysToRetry: 5, TimeBetweenRetries: 30, NumberOfRetries: 2}
	req := requestWith(
		models.ProviderAttempt{AdaptorName: "P", NumberOfFailures: 1},
		models.ProviderAttempt{AdaptorName: "Q", NumberOfFailures: 2},
	)

	got := Select([]models.DataProvider{policyP(), q}, []models.SearchAPIRequest{req})

	require.Len(t, got, 2)
	assert.Equal(t, req.ID, got[0].ID)
	assert.Equal(t, req.ID, got[1].ID)
	assert.Equal(t, 60, got[0].DataProviders[0].TimeBetweenRetries)
	assert.Equal(t, 0, got[0].DataProviders[1].TimeBetweenRetries)
	assert.Equal(t, 30, got[1].DataProviders[1].TimeBetweenRetries)
}

func TestSelect_NormalizesEverySurvivingAttempt(t *testing.T) {
	policies := []models.DataProvider{
		policyP(),
		{AdaptorName: "Q", NumberOfDaysToRetry: 4, TimeBetweenRetries: 15, NumberOfRetries: 9},
	}
	requests := []models.SearchAPIRequest{
		requestWith(models.ProviderAttempt{AdaptorName: "P", NumberOfFailures: 2, TimeBetweenRetries: 1, NumberOfRetries: 1}),
		requestWith(models.ProviderAttempt{AdaptorName: "Q", NumberOfFailures: 3, TimeBetweenRetries: 1, NumberOfRetries: 1}),
	}

	for _, r := range Select(policies, requests) {
		for _, a := range r.DataProviders {
			for _, p := range policies {
				if p.AdaptorName == a.AdaptorName {
					assert.Equal(t, p.TimeBetweenRetries, a.TimeBetweenRetries)
					assert.Equal(t, p.NumberOfRetries, a.NumberOfRetries)
				}
			}
		}
	}
}

func TestReadyForSearch(t *testing.T) {
	requests := []models.SearchAPIRequest{
		{Status: models.StatusReadyForSearch, IsFailed: true},
		{Status: models.StatusInProgress},
		{Status: models.StatusComplete},
	}

	got := ReadyForSearch(requests)

	require.Len(t, got, 1)
	assert.False(t, got[0].IsFailed)
}

// Package retry decides which failed search API requests are still eligible
// for resubmission to a provider.
package retry

import (
	"searchbridge/internal/searchapi/models"
)

// Eligible reports whether attempt failed at policy's provider and has not
// exhausted the provider's retry window.
func Eligible(policy models.DataProvider, attempt models.ProviderAttempt) bool {
	return attempt.AdaptorName == policy.AdaptorName &&
		attempt.NumberOfFailures > 0 &&
		attempt.NumberOfFailures < policy.NumberOfDaysToRetry
}

// HasEligibleAttempt reports whether any attempt of req is eligible under policy.
func HasEligibleAttempt(policy models.DataProvider, req models.SearchAPIRequest) bool {
	for _, a := range req.DataProviders {
		if Eligible(policy, a) {
			return true
		}
	}
	return false
}

// Normalize returns a copy of req whose attempts at policy's provider carry
// the policy's current retry parameters, marked failed. Attempts at other
// providers are left untouched.
func Normalize(policy models.DataProvider, req models.SearchAPIRequest) models.SearchAPIRequest {
	out := req.Clone()
	for i := range out.DataProviders {
		if out.DataProviders[i].AdaptorName != policy.AdaptorName {
			continue
		}
		out.DataProviders[i].TimeBetweenRetries = policy.TimeBetweenRetries
		out.DataProviders[i].NumberOfRetries = policy.NumberOfRetries
	}
	out.IsFailed = true
	return out
}

// Select applies every policy to requests. A request failing at two
// providers appears once per provider; results are not de-duplicated.
func Select(policies []models.DataProvider, requests []models.SearchAPIRequest) []models.SearchAPIRequest {
	var out []models.SearchAPIRequest
	for _, p := range policies {
		for _, r := range requests {
			if HasEligibleAttempt(p, r) {
				out = append(out, Normalize(p, r))
			}
		}
	}
	return out
}

// ReadyForSearch keeps requests in the ready status and clears their failed flag.
func ReadyForSearch(requests []models.SearchAPIRequest) []models.SearchAPIRequest {
	var out []models.SearchAPIRequest
	for _, r := range requests {
		if r.Status != models.StatusReadyForSearch {
			continue
		}
		c := r.Clone()
		c.IsFailed = false
		out = append(out, c)
	}
	return out
}

package test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbridge/internal/platform/metrics"
	apihandler "searchbridge/internal/searchapi/handler"
	apimodels "searchbridge/internal/searchapi/models"
	"searchbridge/internal/searchapi/policy"
	apiservice "searchbridge/internal/searchapi/service"
	apistore "searchbridge/internal/searchapi/store"
	srhandler "searchbridge/internal/searchrequest/handler"
	"searchbridge/internal/searchrequest/intake"
	"searchbridge/internal/searchrequest/notifier"
	srservice "searchbridge/internal/searchrequest/service"
	srstore "searchbridge/internal/searchrequest/store"
	httptransport "searchbridge/internal/transport/http"
	"searchbridge/pkg/testutil"
)

type stack struct {
	router   http.Handler
	apiStore *apistore.InMemoryStore
}

func newStack(t *testing.T) *stack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	orchestrator, err := srservice.New(srstore.NewInMemory(), srservice.WithLogger(logger))
	require.NoError(t, err)
	processor, err := intake.NewProcessor(orchestrator, notifier.Noop{}, intake.WithLogger(logger))
	require.NoError(t, err)

	memory := apistore.NewInMemory()
	catalog, err := policy.NewCatalog(memory, policy.WithLogger(logger))
	require.NoError(t, err)
	searchAPI, err := apiservice.New(memory, catalog, apiservice.WithLogger(logger))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  logger,
		Metrics: metrics.NewWith(reg, reg),
		Handlers: []httptransport.Registrar{
			srhandler.New(processor, logger),
			apihandler.New(searchAPI, logger),
		},
	})
	return &stack{router: router, apiStore: memory}
}

func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "the assembled HTTP router on in-memory stores", func(t *testing.T) {
		s := newStack(t)

		testutil.When(t, "checking liveness", func(t *testing.T) {
			rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

			testutil.Then(t, "it responds ok", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
			})
		})

		testutil.When(t, "ordering a search request", func(t *testing.T) {
			body := map[string]any{
				"searchRequestKey": "SR-100",
				"person":           map[string]any{"firstName": "Jordan", "lastName": "Lee"},
			}
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, "/search-requests", body))

			testutil.Then(t, "the created aggregate is returned", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusCreated)
				res := testutil.UnmarshalResponse[srhandler.Response](t, rr)
				require.NotNil(t, res.SearchRequest)
				assert.Equal(t, "SR-100", res.SearchRequest.SearchRequestKey)
				assert.Equal(t, "Jordan", res.SearchRequest.PersonSoughtFirstName)
			})
		})

		testutil.When(t, "cancelling an unknown search request", func(t *testing.T) {
			rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodPost, "/search-requests/SR-404/cancel"))

			testutil.Then(t, "it is reported as not found", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})

		testutil.When(t, "a search API request is waiting", func(t *testing.T) {
			created, err := s.apiStore.Create(context.Background(), apimodels.SearchAPIRequest{Status: apimodels.StatusReadyForSearch})
			require.NoError(t, err)
			rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/search-api-requests/ready"))

			testutil.Then(t, "the ready queue lists it", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				res := testutil.UnmarshalResponse[apihandler.ListResponse](t, rr)
				require.Equal(t, 1, res.Count)
				assert.Equal(t, created.ID, res.Requests[0].ID)
			})
		})

		testutil.When(t, "posting an event without a provider name", func(t *testing.T) {
			path := "/search-api-requests/" + "00000000-0000-0000-0000-000000000001" + "/events"
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, path, map[string]any{"type": "PersonSearchFailed"}))

			testutil.Then(t, "it is rejected as invalid", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
			})
		})
	})
}

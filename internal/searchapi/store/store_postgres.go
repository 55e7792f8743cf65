package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"searchbridge/internal/searchapi/models"
	id "searchbridge/pkg/domain"
	"searchbridge/pkg/platform/sentinel"
	"searchbridge/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists search API requests with one row per provider
// attempt, and provider policies in data_providers.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, req models.SearchAPIRequest) (*models.SearchAPIRequest, error) {
	if req.ID.IsNil() {
		req.ID = id.NewSearchAPIRequestID()
	}
	if req.Status == "" {
		req.Status = models.StatusReadyForSearch
	}
	req.IsFailed = false
	identifiers, err := json.Marshal(nonNil(req.Identifiers))
	if err != nil {
		return nil, fmt.Errorf("marshal identifiers: %w", err)
	}

	err = tx.Run(ctx, s.db, func(ctx context.Context) error {
		conn := tx.Conn(ctx, s.db)
		_, err := conn.ExecContext(ctx, `
			INSERT INTO search_api_requests (id, search_request_id, status, identifiers)
			VALUES ($1, $2, $3, $4)
		`, uuid.UUID(req.ID), uuid.UUID(req.SearchRequestID), string(req.Status), identifiers)
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert search api request: %w", err)
		}
		for _, a := range req.DataProviders {
			_, err := conn.ExecContext(ctx, `
				INSERT INTO search_api_provider_attempts
					(search_api_request_id, adaptor_name, number_of_failures, time_between_retries, number_of_retries)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.UUID(req.ID), a.AdaptorName, a.NumberOfFailures, a.TimeBetweenRetries, a.NumberOfRetries)
			if err != nil {
				if isUniqueViolation(err) {
					return sentinel.ErrConflict
				}
				return fmt.Errorf("insert provider attempt: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := req.Clone()
	return &out, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]models.SearchAPIRequest, error) {
	conn := tx.Conn(ctx, s.db)
	rows, err := conn.QueryContext(ctx, `
		SELECT id, search_request_id, status, identifiers
		FROM search_api_requests
		WHERE status = $1
		ORDER BY created_at, id
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("query search api requests: %w", err)
	}
	defer rows.Close()

	out := []models.SearchAPIRequest{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		index[uuid.UUID(req.ID)] = len(out)
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search api requests: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(out))
	for _, r := range out {
		ids = append(ids, uuid.UUID(r.ID))
	}
	attempts, err := s.attempts(ctx, conn, ids)
	if err != nil {
		return nil, err
	}
	for reqID, list := range attempts {
		out[index[reqID]].DataProviders = list
	}
	return out, nil
}

func (s *PostgresStore) ListFailing(ctx context.Context, adaptor string, maxFailures int) ([]id.SearchAPIRequestID, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT a.search_api_request_id
		FROM search_api_provider_attempts a
		JOIN search_api_requests r ON r.id = a.search_api_request_id
		WHERE a.adaptor_name = $1 AND a.number_of_failures > 0 AND a.number_of_failures < $2
		ORDER BY r.created_at, r.id
	`, adaptor, maxFailures)
	if err != nil {
		return nil, fmt.Errorf("query failing search api requests: %w", err)
	}
	defer rows.Close()

	var out []id.SearchAPIRequestID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan search api request id: %w", err)
		}
		out = append(out, id.SearchAPIRequestID(u))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failing search api requests: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, requestID id.SearchAPIRequestID) (*models.SearchAPIRequest, error) {
	conn := tx.Conn(ctx, s.db)
	req, err := scanRequest(conn.QueryRowContext(ctx, `
		SELECT id, search_request_id, status, identifiers
		FROM search_api_requests WHERE id = $1
	`, uuid.UUID(requestID)))
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts(ctx, conn, []uuid.UUID{uuid.UUID(requestID)})
	if err != nil {
		return nil, err
	}
	req.DataProviders = attempts[uuid.UUID(requestID)]
	return req, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, requestID id.SearchAPIRequestID, status models.Status) (*models.SearchAPIRequest, error) {
	var updated *models.SearchAPIRequest
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
			UPDATE search_api_requests SET status = $2, updated_at = NOW() WHERE id = $1
		`, uuid.UUID(requestID), string(status))
		if err != nil {
			return fmt.Errorf("update search api request status: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		updated, err = s.Get(ctx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostgresStore) AddEvent(ctx context.Context, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error) {
	if evt.ID.IsNil() {
		evt.ID = id.NewRecordID()
	}
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO search_api_events
			(id, search_api_request_id, provider_name, type, failure_category, message, time_stamp)
		SELECT $1, id, $3, $4, $5, $6, $7 FROM search_api_requests WHERE id = $2
	`, uuid.UUID(evt.ID), uuid.UUID(evt.SearchAPIRequestID), evt.ProviderName, string(evt.Type),
		string(evt.FailureCategory), evt.Message, evt.TimeStamp)
	if err != nil {
		return nil, fmt.Errorf("insert search api event: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return &evt, nil
}

func (s *PostgresStore) RecordFailure(ctx context.Context, requestID id.SearchAPIRequestID, adaptor string) error {
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE search_api_provider_attempts
		SET number_of_failures = number_of_failures + 1
		WHERE search_api_request_id = $1 AND adaptor_name = $2
	`, uuid.UUID(requestID), adaptor)
	if err != nil {
		return fmt.Errorf("record provider failure: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) ListDataProviders(ctx context.Context) ([]models.DataProvider, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT adaptor_name, number_of_days_to_retry, time_between_retries, number_of_retries
		FROM data_providers ORDER BY adaptor_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query data providers: %w", err)
	}
	defer rows.Close()

	out := []models.DataProvider{}
	for rows.Next() {
		var p models.DataProvider
		if err := rows.Scan(&p.AdaptorName, &p.NumberOfDaysToRetry, &p.TimeBetweenRetries, &p.NumberOfRetries); err != nil {
			return nil, fmt.Errorf("scan data provider: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate data providers: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpsertDataProvider(ctx context.Context, p models.DataProvider) error {
	_, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO data_providers (adaptor_name, number_of_days_to_retry, time_between_retries, number_of_retries)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (adaptor_name) DO UPDATE SET
			number_of_days_to_retry = EXCLUDED.number_of_days_to_retry,
			time_between_retries = EXCLUDED.time_between_retries,
			number_of_retries = EXCLUDED.number_of_retries
	`, p.AdaptorName, p.NumberOfDaysToRetry, p.TimeBetweenRetries, p.NumberOfRetries)
	if err != nil {
		return fmt.Errorf("upsert data provider: %w", err)
	}
	return nil
}

func (s *PostgresStore) attempts(ctx context.Context, conn tx.DBTX, ids []uuid.UUID) (map[uuid.UUID][]models.ProviderAttempt, error) {
	keys := make([]string, 0, len(ids))
	for _, u := range ids {
		keys = append(keys, u.String())
	}
	rows, err := conn.QueryContext(ctx, `
		SELECT search_api_request_id, adaptor_name, number_of_failures, time_between_retries, number_of_retries
		FROM search_api_provider_attempts
		WHERE search_api_request_id = ANY($1::uuid[])
		ORDER BY adaptor_name
	`, pq.StringArray(keys))
	if err != nil {
		return nil, fmt.Errorf("query provider attempts: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.ProviderAttempt, len(ids))
	for rows.Next() {
		var (
			reqID uuid.UUID
			a     models.ProviderAttempt
		)
		if err := rows.Scan(&reqID, &a.AdaptorName, &a.NumberOfFailures, &a.TimeBetweenRetries, &a.NumberOfRetries); err != nil {
			return nil, fmt.Errorf("scan provider attempt: %w", err)
		}
		out[reqID] = append(out[reqID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider attempts: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*models.SearchAPIRequest, error) {
	var (
		reqID, srID uuid.UUID
		status      string
		identifiers []byte
	)
	if err := row.Scan(&reqID, &srID, &status, &identifiers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan search api request: %w", err)
	}
	req := &models.SearchAPIRequest{
		ID:              id.SearchAPIRequestID(reqID),
		SearchRequestID: id.SearchRequestID(srID),
		Status:          models.Status(status),
	}
	if err := json.Unmarshal(identifiers, &req.Identifiers); err != nil {
		return nil, fmt.Errorf("decode identifiers: %w", err)
	}
	return req, nil
}

func nonNil(items []models.Identifier) []models.Identifier {
	if items == nil {
		return []models.Identifier{}
	}
	return items
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"searchbridge/internal/searchrequest/models"
	id "searchbridge/pkg/domain"
	"searchbridge/pkg/platform/sentinel"
	"searchbridge/pkg/platform/tx"
)

// Record kinds stored in search_request_records.
const (
	kindPerson            = "person"
	kindIdentifier        = "identifier"
	kindAddress           = "address"
	kindPhone             = "phone"
	kindName              = "name"
	kindEmployment        = "employment"
	kindEmploymentContact = "employment_contact"
	kindRelatedPerson     = "related_person"
	kindNote              = "note"
)

const uniqueViolation = "23505"

// PostgresStore persists the aggregate root in search_requests and every
// owned record as JSONB in search_request_records. It joins a transaction
// carried in ctx.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateSearchRequest(ctx context.Context, sr models.SearchRequest) (*models.SearchRequest, error) {
	sr = sr.WithoutCollections()
	if sr.ID.IsNil() {
		sr.ID = id.NewSearchRequestID()
	}
	data, err := json.Marshal(sr)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}
	_, err = tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO search_requests (id, search_request_key, status, data)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(sr.ID), sr.SearchRequestKey, int(sr.Status), data)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("insert search request: %w", err)
	}
	return &sr, nil
}

func (s *PostgresStore) UpdateSearchRequest(ctx context.Context, sr models.SearchRequest) (*models.SearchRequest, error) {
	sr = sr.WithoutCollections()
	data, err := json.Marshal(sr)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE search_requests
		SET search_request_key = $2, status = $3, data = $4, updated_at = NOW()
		WHERE id = $1
	`, uuid.UUID(sr.ID), sr.SearchRequestKey, int(sr.Status), data)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("update search request: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return &sr, nil
}

func (s *PostgresStore) GetSearchRequest(ctx context.Context, key string) (*models.SearchRequest, error) {
	conn := tx.Conn(ctx, s.db)
	sr, err := s.getRoot(ctx, conn, key)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT kind, parent_id, data
		FROM search_request_records
		WHERE search_request_id = $1 AND kind <> $2
		ORDER BY seq
	`, uuid.UUID(sr.ID), kindNote)
	if err != nil {
		return nil, fmt.Errorf("query search request records: %w", err)
	}
	defer rows.Close()

	var (
		persons     []models.Person
		employments []models.Employment
		children    []childRecord
	)
	for rows.Next() {
		var (
			kind   string
			parent uuid.NullUUID
			data   []byte
		)
		if err := rows.Scan(&kind, &parent, &data); err != nil {
			return nil, fmt.Errorf("scan search request record: %w", err)
		}
		switch kind {
		case kindPerson:
			var p models.Person
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, fmt.Errorf("decode person: %w", err)
			}
			persons = append(persons, p)
		case kindEmployment:
			var e models.Employment
			if err := json.Unmarshal(data, &e); err != nil {
				return nil, fmt.Errorf("decode employment: %w", err)
			}
			employments = append(employments, e)
		case kindRelatedPerson:
			var rp models.RelatedPerson
			if err := json.Unmarshal(data, &rp); err != nil {
				return nil, fmt.Errorf("decode related person: %w", err)
			}
			sr.RelatedPersons = append(sr.RelatedPersons, rp)
		default:
			children = append(children, childRecord{kind: kind, parent: parent.UUID, data: data})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search request records: %w", err)
	}

	if err := attachChildren(persons, employments, children); err != nil {
		return nil, err
	}
	sr.Persons = persons
	sr.Employments = employments
	return sr, nil
}

func (s *PostgresStore) CancelSearchRequest(ctx context.Context, key string) (*models.SearchRequest, error) {
	var cancelled *models.SearchRequest
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		sr, err := s.getRoot(ctx, tx.Conn(ctx, s.db), key)
		if err != nil {
			return err
		}
		sr.Status = models.SearchRequestCancelled
		cancelled, err = s.UpdateSearchRequest(ctx, *sr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *PostgresStore) SavePerson(ctx context.Context, p models.Person) (*models.Person, error) {
	p = stripPerson(p)
	if p.ID.IsNil() {
		p.ID = id.NewPersonID()
	}
	if err := s.insertRootOwned(ctx, kindPerson, uuid.UUID(p.ID), uuid.UUID(p.SearchRequestID), p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) UpdatePerson(ctx context.Context, p models.Person) (*models.Person, error) {
	p = stripPerson(p)
	if err := s.updateRecord(ctx, kindPerson, uuid.UUID(p.ID), p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) CreateIdentifier(ctx context.Context, rec models.Identifier) (*models.Identifier, error) {
	rec.ID = id.NewRecordID()
	if err := s.insertChild(ctx, kindIdentifier, uuid.UUID(rec.ID), uuid.UUID(rec.PersonID), kindPerson, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) CreateAddress(ctx context.Context, rec models.Address) (*models.Address, error) {
	rec.ID = id.NewRecordID()
	if err := s.insertChild(ctx, kindAddress, uuid.UUID(rec.ID), uuid.UUID(rec.PersonID), kindPerson, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) CreatePhoneNumber(ctx context.Context, rec models.PhoneNumber) (*models.PhoneNumber, error) {
	rec.ID = id.NewRecordID()
	if err := s.insertChild(ctx, kindPhone, uuid.UUID(rec.ID), uuid.UUID(rec.PersonID), kindPerson, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) CreateName(ctx context.Context, rec models.Name) (*models.Name, error) {
	rec.ID = id.NewRecordID()
	if err := s.insertChild(ctx, kindName, uuid.UUID(rec.ID), uuid.UUID(rec.PersonID), kindPerson, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) CreateEmployment(ctx context.Context, e models.Employment) (*models.Employment, error) {
	e.EmploymentContacts = nil
	e.ID = id.NewEmploymentID()
	if err := s.insertRootOwned(ctx, kindEmployment, uuid.UUID(e.ID), uuid.UUID(e.SearchRequestID), e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) UpdateEmployment(ctx context.Context, e models.Employment) (*models.Employment, error) {
	e.EmploymentContacts = nil
	if err := s.updateRecord(ctx, kindEmployment, uuid.UUID(e.ID), e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) CreateEmploymentContact(ctx context.Context, c models.EmploymentContact) (*models.EmploymentContact, error) {
	c.ID = id.NewRecordID()
	if err := s.insertChild(ctx, kindEmploymentContact, uuid.UUID(c.ID), uuid.UUID(c.EmploymentID), kindEmployment, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) CreateRelatedPerson(ctx context.Context, rp models.RelatedPerson) (*models.RelatedPerson, error) {
	rp.ID = id.NewRecordID()
	if err := s.insertRootOwned(ctx, kindRelatedPerson, uuid.UUID(rp.ID), uuid.UUID(rp.SearchRequestID), rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *PostgresStore) UpdateRelatedPerson(ctx context.Context, rp models.RelatedPerson) (*models.RelatedPerson, error) {
	if err := s.updateRecord(ctx, kindRelatedPerson, uuid.UUID(rp.ID), rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *PostgresStore) CreateNotes(ctx context.Context, n models.Note) (*models.Note, error) {
	n.ID = id.NewRecordID()
	if err := s.insertRootOwned(ctx, kindNote, uuid.UUID(n.ID), uuid.UUID(n.SearchRequestID), n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *PostgresStore) getRoot(ctx context.Context, conn tx.DBTX, key string) (*models.SearchRequest, error) {
	var data []byte
	err := conn.QueryRowContext(ctx, `
		SELECT data FROM search_requests WHERE search_request_key = $1
	`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get search request: %w", err)
	}
	var sr models.SearchRequest
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("decode search request: %w", err)
	}
	return &sr, nil
}

// insertRootOwned inserts a record owned directly by the root. It reports
// sentinel.ErrNotFound when the root does not exist.
func (s *PostgresStore) insertRootOwned(ctx context.Context, kind string, recID, srID uuid.UUID, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO search_request_records (id, search_request_id, kind, parent_id, data)
		SELECT $1, id, $2, NULL, $3 FROM search_requests WHERE id = $4
	`, recID, kind, data, srID)
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return requireAffected(res)
}

// insertChild inserts a record under a parent record of parentKind,
// inheriting the parent's search request.
func (s *PostgresStore) insertChild(ctx context.Context, kind string, recID, parentID uuid.UUID, parentKind string, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO search_request_records (id, search_request_id, kind, parent_id, data)
		SELECT $1, search_request_id, $2, id, $3
		FROM search_request_records WHERE id = $4 AND kind = $5
	`, recID, kind, data, parentID, parentKind)
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) updateRecord(ctx context.Context, kind string, recID uuid.UUID, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE search_request_records SET data = $3 WHERE id = $1 AND kind = $2
	`, recID, kind, data)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	return requireAffected(res)
}

type childRecord struct {
	kind   string
	parent uuid.UUID
	data   []byte
}

func attachChildren(persons []models.Person, employments []models.Employment, children []childRecord) error {
	personIdx := make(map[uuid.UUID]int, len(persons))
	for i, p := range persons {
		personIdx[uuid.UUID(p.ID)] = i
	}
	employmentIdx := make(map[uuid.UUID]int, len(employments))
	for i, e := range employments {
		employmentIdx[uuid.UUID(e.ID)] = i
	}

	for _, c := range children {
		if c.kind == kindEmploymentContact {
			i, ok := employmentIdx[c.parent]
			if !ok {
				continue
			}
			var rec models.EmploymentContact
			if err := json.Unmarshal(c.data, &rec); err != nil {
				return fmt.Errorf("decode employment contact: %w", err)
			}
			employments[i].EmploymentContacts = append(employments[i].EmploymentContacts, rec)
			continue
		}

		i, ok := personIdx[c.parent]
		if !ok {
			continue
		}
		p := &persons[i]
		var err error
		switch c.kind {
		case kindIdentifier:
			p.Identifiers, err = appendDecoded(p.Identifiers, c.data)
		case kindAddress:
			p.Addresses, err = appendDecoded(p.Addresses, c.data)
		case kindPhone:
			p.Phones, err = appendDecoded(p.Phones, c.data)
		case kindName:
			p.Names, err = appendDecoded(p.Names, c.data)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", c.kind, err)
		}
	}
	return nil
}

func appendDecoded[T any](items []T, data []byte) ([]T, error) {
	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return items, err
	}
	return append(items, rec), nil
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

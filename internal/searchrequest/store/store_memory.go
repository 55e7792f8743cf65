// Package store holds the search request record store implementations.
package store

import (
	"context"
	"slices"
	"sync"

	"searchbridge/internal/searchrequest/models"
	id "searchbridge/pkg/domain"
	"searchbridge/pkg/platform/sentinel"
)

// InMemoryStore keeps the aggregate in maps. Records are stored by value so
// callers never share memory with the store.
type InMemoryStore struct {
	mu sync.RWMutex

	requests       map[id.SearchRequestID]models.SearchRequest
	keys           map[string]id.SearchRequestID
	persons        map[id.PersonID]models.Person
	identifiers    []models.Identifier
	addresses      []models.Address
	phones         []models.PhoneNumber
	names          []models.Name
	employments    map[id.EmploymentID]models.Employment
	contacts       []models.EmploymentContact
	relatedPersons map[id.RecordID]models.RelatedPerson
	notes          []models.Note

	// insertion order for stable expansion
	personOrder     []id.PersonID
	employmentOrder []id.EmploymentID
	relatedOrder    []id.RecordID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		requests:       make(map[id.SearchRequestID]models.SearchRequest),
		keys:           make(map[string]id.SearchRequestID),
		persons:        make(map[id.PersonID]models.Person),
		employments:    make(map[id.EmploymentID]models.Employment),
		relatedPersons: make(map[id.RecordID]models.RelatedPerson),
	}
}

func (s *InMemoryStore) CreateSearchRequest(_ context.Context, sr models.SearchRequest) (*models.SearchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[sr.SearchRequestKey]; exists {
		return nil, sentinel.ErrConflict
	}
	sr = sr.WithoutCollections()
	if sr.ID.IsNil() {
		sr.ID = id.NewSearchRequestID()
	}
	s.requests[sr.ID] = sr
	s.keys[sr.SearchRequestKey] = sr.ID
	return &sr, nil
}

func (s *InMemoryStore) UpdateSearchRequest(_ context.Context, sr models.SearchRequest) (*models.SearchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.requests[sr.ID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	sr = sr.WithoutCollections()
	if sr.SearchRequestKey != current.SearchRequestKey {
		if _, taken := s.keys[sr.SearchRequestKey]; taken {
			return nil, sentinel.ErrConflict
		}
		delete(s.keys, current.SearchRequestKey)
		s.keys[sr.SearchRequestKey] = sr.ID
	}
	s.requests[sr.ID] = sr
	return &sr, nil
}

func (s *InMemoryStore) GetSearchRequest(_ context.Context, key string) (*models.SearchRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	srID, ok := s.keys[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	sr := s.expand(s.requests[srID])
	return &sr, nil
}

func (s *InMemoryStore) CancelSearchRequest(_ context.Context, key string) (*models.SearchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srID, ok := s.keys[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	sr := s.requests[srID]
	sr.Status = models.SearchRequestCancelled
	s.requests[srID] = sr
	return &sr, nil
}

func (s *InMemoryStore) SavePerson(_ context.Context, p models.Person) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[p.SearchRequestID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	p = stripPerson(p)
	if p.ID.IsNil() {
		p.ID = id.NewPersonID()
	}
	if _, exists := s.persons[p.ID]; !exists {
		s.personOrder = append(s.personOrder, p.ID)
	}
	s.persons[p.ID] = p
	return &p, nil
}

func (s *InMemoryStore) UpdatePerson(_ context.Context, p models.Person) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.persons[p.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	p = stripPerson(p)
	s.persons[p.ID] = p
	return &p, nil
}

func (s *InMemoryStore) CreateIdentifier(_ context.Context, rec models.Identifier) (*models.Identifier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPerson(rec.PersonID); err != nil {
		return nil, err
	}
	rec.ID = id.NewRecordID()
	s.identifiers = append(s.identifiers, rec)
	return &rec, nil
}

func (s *InMemoryStore) CreateAddress(_ context.Context, rec models.Address) (*models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPerson(rec.PersonID); err != nil {
		return nil, err
	}
	rec.ID = id.NewRecordID()
	s.addresses = append(s.addresses, rec)
	return &rec, nil
}

func (s *InMemoryStore) CreatePhoneNumber(_ context.Context, rec models.PhoneNumber) (*models.PhoneNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPerson(rec.PersonID); err != nil {
		return nil, err
	}
	rec.ID = id.NewRecordID()
	s.phones = append(s.phones, rec)
	return &rec, nil
}

func (s *InMemoryStore) CreateName(_ context.Context, rec models.Name) (*models.Name, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPerson(rec.PersonID); err != nil {
		return nil, err
	}
	rec.ID = id.NewRecordID()
	s.names = append(s.names, rec)
	return &rec, nil
}

func (s *InMemoryStore) CreateEmployment(_ context.Context, e models.Employment) (*models.Employment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[e.SearchRequestID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	e.EmploymentContacts = nil
	e.ID = id.NewEmploymentID()
	s.employments[e.ID] = e
	s.employmentOrder = append(s.employmentOrder, e.ID)
	return &e, nil
}

func (s *InMemoryStore) UpdateEmployment(_ context.Context, e models.Employment) (*models.Employment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employments[e.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	e.EmploymentContacts = nil
	s.employments[e.ID] = e
	return &e, nil
}

func (s *InMemoryStore) CreateEmploymentContact(_ context.Context, c models.EmploymentContact) (*models.EmploymentContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employments[c.EmploymentID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	c.ID = id.NewRecordID()
	s.contacts = append(s.contacts, c)
	return &c, nil
}

func (s *InMemoryStore) CreateRelatedPerson(_ context.Context, rp models.RelatedPerson) (*models.RelatedPerson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[rp.SearchRequestID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	rp.ID = id.NewRecordID()
	s.relatedPersons[rp.ID] = rp
	s.relatedOrder = append(s.relatedOrder, rp.ID)
	return &rp, nil
}

func (s *InMemoryStore) UpdateRelatedPerson(_ context.Context, rp models.RelatedPerson) (*models.RelatedPerson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.relatedPersons[rp.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	s.relatedPersons[rp.ID] = rp
	return &rp, nil
}

func (s *InMemoryStore) CreateNotes(_ context.Context, n models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[n.SearchRequestID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	n.ID = id.NewRecordID()
	s.notes = append(s.notes, n)
	return &n, nil
}

// Notes returns the note history of a request in creation order.
func (s *InMemoryStore) Notes(srID id.SearchRequestID) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Note
	for _, n := range s.notes {
		if n.SearchRequestID == srID {
			out = append(out, n)
		}
	}
	return out
}

func (s *InMemoryStore) checkPerson(personID id.PersonID) error {
	if _, ok := s.persons[personID]; !ok {
		return sentinel.ErrNotFound
	}
	return nil
}

// expand must be called with the lock held.
func (s *InMemoryStore) expand(sr models.SearchRequest) models.SearchRequest {
	for _, pid := range s.personOrder {
		p := s.persons[pid]
		if p.SearchRequestID != sr.ID {
			continue
		}
		for _, rec := range s.identifiers {
			if rec.PersonID == pid {
				p.Identifiers = append(p.Identifiers, rec)
			}
		}
		for _, rec := range s.addresses {
			if rec.PersonID == pid {
				p.Addresses = append(p.Addresses, rec)
			}
		}
		for _, rec := range s.phones {
			if rec.PersonID == pid {
				p.Phones = append(p.Phones, rec)
			}
		}
		for _, rec := range s.names {
			if rec.PersonID == pid {
				p.Names = append(p.Names, rec)
			}
		}
		sr.Persons = append(sr.Persons, p)
	}
	for _, eid := range s.employmentOrder {
		e := s.employments[eid]
		if e.SearchRequestID != sr.ID {
			continue
		}
		for _, c := range s.contacts {
			if c.EmploymentID == eid {
				e.EmploymentContacts = append(e.EmploymentContacts, c)
			}
		}
		sr.Employments = append(sr.Employments, e)
	}
	for _, rid := range s.relatedOrder {
		if rp := s.relatedPersons[rid]; rp.SearchRequestID == sr.ID {
			sr.RelatedPersons = append(sr.RelatedPersons, rp)
		}
	}
	return sr
}

func stripPerson(p models.Person) models.Person {
	p.Identifiers = nil
	p.Addresses = nil
	p.Phones = nil
	p.Names = nil
	return p
}

// Counts reports how many records of each kind belong to a request.
type Counts struct {
	Persons            int
	Identifiers        int
	Addresses          int
	Phones             int
	Names              int
	Employments        int
	EmploymentContacts int
	RelatedPersons     int
	Notes              int
}

// CountFor tallies the records stored for a request.
func (s *InMemoryStore) CountFor(srID id.SearchRequestID) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	owned := func(pid id.PersonID) bool {
		p, ok := s.persons[pid]
		return ok && p.SearchRequestID == srID
	}
	for _, p := range s.persons {
		if p.SearchRequestID == srID {
			c.Persons++
		}
	}
	c.Identifiers = countWhere(s.identifiers, func(r models.Identifier) bool { return owned(r.PersonID) })
	c.Addresses = countWhere(s.addresses, func(r models.Address) bool { return owned(r.PersonID) })
	c.Phones = countWhere(s.phones, func(r models.PhoneNumber) bool { return owned(r.PersonID) })
	c.Names = countWhere(s.names, func(r models.Name) bool { return owned(r.PersonID) })
	for _, e := range s.employments {
		if e.SearchRequestID != srID {
			continue
		}
		c.Employments++
		c.EmploymentContacts += countWhere(s.contacts, func(r models.EmploymentContact) bool { return r.EmploymentID == e.ID })
	}
	for _, rp := range s.relatedPersons {
		if rp.SearchRequestID == srID {
			c.RelatedPersons++
		}
	}
	c.Notes = countWhere(s.notes, func(n models.Note) bool { return n.SearchRequestID == srID })
	return c
}

func countWhere[T any](items []T, pred func(T) bool) int {
	return len(slices.DeleteFunc(slices.Clone(items), func(item T) bool { return !pred(item) }))
}

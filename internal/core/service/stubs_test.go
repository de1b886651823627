package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

// ---------------------------------------------------------------------------
// memStore: in-memory repositories sharing one transactional snapshot.
// ---------------------------------------------------------------------------

type memStore struct {
	accounts     map[string]*domain.Account // by id
	persons      map[string]*domain.Person
	roles        map[domain.RoleType]*domain.Role
	appointments map[string][]domain.Appointment // by person id

	// failAccountCreate simulates a unique index violation surfacing at insert
	// time after the pre-check passed.
	failAccountCreate error
	commits           int
	rollbacks         int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     make(map[string]*domain.Account),
		persons:      make(map[string]*domain.Person),
		roles:        make(map[domain.RoleType]*domain.Role),
		appointments: make(map[string][]domain.Appointment),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Roles = append([]domain.Role(nil), a.Roles...)
	return &c
}

func clonePerson(p *domain.Person) *domain.Person {
	c := *p
	if p.DocumentID != nil {
		doc := *p.DocumentID
		c.DocumentID = &doc
	}
	return &c
}

func (s *memStore) seedRole(t domain.RoleType) *domain.Role {
	r := &domain.Role{ID: "role-" + string(t), Type: t}
	s.roles[t] = r
	return r
}

func (s *memStore) seedAccount(a *domain.Account) { s.accounts[a.ID] = cloneAccount(a) }
func (s *memStore) seedPerson(p *domain.Person)   { s.persons[p.ID] = clonePerson(p) }

func (s *memStore) seedAppointment(a domain.Appointment) {
	s.appointments[a.PersonID] = append(s.appointments[a.PersonID], a)
}

func (s *memStore) setAvailability(personID, apptID string, available bool) {
	for i, a := range s.appointments[personID] {
		if a.ID == apptID {
			s.appointments[personID][i].Available = available
		}
	}
}

func (s *memStore) account(id string) *domain.Account { return cloneAccount(s.accounts[id]) }

// --- Transactor ---

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	accounts := make(map[string]*domain.Account, len(s.accounts))
	for k, v := range s.accounts {
		accounts[k] = cloneAccount(v)
	}
	persons := make(map[string]*domain.Person, len(s.persons))
	for k, v := range s.persons {
		persons[k] = clonePerson(v)
	}

	if err := fn(ctx); err != nil {
		s.accounts = accounts
		s.persons = persons
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

// --- AccountRepository ---

type memAccounts struct{ *memStore }

func (r memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r memAccounts) FindByPersonID(_ context.Context, personID string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.PersonID == personID {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r memAccounts) ListByRole(_ context.Context, role domain.RoleType) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.HasRole(role) {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r memAccounts) Create(_ context.Context, a *domain.Account) error {
	if r.failAccountCreate != nil {
		return r.failAccountCreate
	}
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r memAccounts) Save(_ context.Context, a *domain.Account) error {
	if _, ok := r.accounts[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	for id, existing := range r.accounts {
		if id != a.ID && existing.Email == a.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.accounts[a.ID] = cloneAccount(a)
	return nil
}

// --- PersonRepository ---

type memPersons struct{ *memStore }

func (r memPersons) FindByID(_ context.Context, id string) (*domain.Person, error) {
	p, ok := r.persons[id]
	if !ok {
		return nil, domain.ErrPersonNotFound
	}
	return clonePerson(p), nil
}

func (r memPersons) Create(_ context.Context, p *domain.Person) error {
	r.persons[p.ID] = clonePerson(p)
	return nil
}

func (r memPersons) Save(_ context.Context, p *domain.Person) error {
	if _, ok := r.persons[p.ID]; !ok {
		return domain.ErrPersonNotFound
	}
	r.persons[p.ID] = clonePerson(p)
	return nil
}

// --- RoleRepository ---

type memRoles struct{ *memStore }

func (r memRoles) FindByType(_ context.Context, t domain.RoleType) (*domain.Role, error) {
	role, ok := r.roles[t]
	if !ok {
		return nil, domain.ErrRoleNotConfigured
	}
	c := *role
	return &c, nil
}

// --- AppointmentRepository ---

type memAppointments struct{ *memStore }

func (r memAppointments) ListByPerson(_ context.Context, personID string) ([]domain.Appointment, error) {
	return append([]domain.Appointment(nil), r.appointments[personID]...), nil
}

func (s *memStore) repos() ClientRepositories {
	return ClientRepositories{
		Accounts:     memAccounts{s},
		Persons:      memPersons{s},
		Roles:        memRoles{s},
		Appointments: memAppointments{s},
		Tx:           s,
	}
}

// ---------------------------------------------------------------------------
// Other stubs
// ---------------------------------------------------------------------------

type stubGuard struct {
	acquired   bool
	acquireErr error
	released   []string
	tokens     []string
}

func (g *stubGuard) Acquire(context.Context, string) (string, bool, error) {
	return "tok-1", g.acquired, g.acquireErr
}

func (g *stubGuard) Release(_ context.Context, email, token string) error {
	g.released = append(g.released, email)
	g.tokens = append(g.tokens, token)
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.AccountEvent
}

func (p *stubPublisher) Publish(e domain.AccountEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

type stubIssuer struct {
	err    error
	issued []domain.IdentityClaims
}

func (i *stubIssuer) Issue(c domain.IdentityClaims) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	i.issued = append(i.issued, c)
	return "token-for-" + c.Subject, nil
}

type erroringAccounts struct {
	memAccounts
	err error
}

func (r erroringAccounts) FindByEmail(context.Context, string) (*domain.Account, error) {
	return nil, r.err
}

var errBoom = errors.New("boom")

// countingHasher wraps a real hasher and counts Verify calls.
type countingHasher struct {
	ports.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(hash, plain string) error {
	h.verifies++
	return h.PasswordHasher.Verify(hash, plain)
}

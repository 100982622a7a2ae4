// Package iomem is an in-memory implementation of store.Store. It backs the
// "memory" database backend used for development and tests.
package iomem

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gnames/fungidb/pkg/normalize"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
	"github.com/google/uuid"
)

type memstore struct {
	mu      sync.RWMutex
	species map[string]taxon.Species
	users   map[string]store.User
	notes   map[string]store.Note
	now     func() time.Time
}

// New creates an empty in-memory store.
func New() store.Store {
	return &memstore{
		species: make(map[string]taxon.Species),
		users:   make(map[string]store.User),
		notes:   make(map[string]store.Note),
		now:     time.Now,
	}
}

func (m *memstore) Init(context.Context) error { return nil }

func (m *memstore) Ping(context.Context) error { return nil }

func (m *memstore) Close(context.Context) error { return nil }

func (m *memstore) InsertSpecies(
	ctx context.Context,
	docs []taxon.Species,
) (store.WriteResult, error) {
	var res store.WriteResult
	if err := ctx.Err(); err != nil {
		return res, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range docs {
		if _, ok := m.species[v.ID]; ok {
			res.Duplicates++
			continue
		}
		m.species[v.ID] = v
		res.Inserted++
	}
	return res, nil
}

func (m *memstore) UpsertSpecies(
	ctx context.Context,
	docs []taxon.Species,
) (store.WriteResult, error) {
	var res store.WriteResult
	if err := ctx.Err(); err != nil {
		return res, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range docs {
		if _, ok := m.species[v.ID]; ok {
			res.Updated++
		} else {
			res.Inserted++
		}
		m.species[v.ID] = v
	}
	return res, nil
}

func (m *memstore) SaveSpecies(_ context.Context, doc taxon.Species) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.species[doc.ID]; ok {
		return store.ErrDuplicate
	}
	m.species[doc.ID] = doc
	return nil
}

func (m *memstore) SearchSpecies(
	_ context.Context,
	query string,
	limit int,
) ([]taxon.Species, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []taxon.Species{}, nil
	}
	qNorm := normalize.Normalize(q)

	m.mu.RLock()
	defer m.mu.RUnlock()

	res := []taxon.Species{}
	for _, v := range m.species {
		if matchSpecies(v, q, qNorm) {
			res = append(res, v)
		}
	}
	slices.SortFunc(res, func(a, b taxon.Species) int {
		return cmp.Compare(a.ScientificName, b.ScientificName)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func matchSpecies(sp taxon.Species, q, qNorm string) bool {
	if strings.Contains(strings.ToLower(sp.ScientificName), q) {
		return true
	}
	if sp.VernacularName != nil &&
		strings.Contains(strings.ToLower(*sp.VernacularName), q) {
		return true
	}
	if qNorm == "" {
		return false
	}
	return strings.Contains(sp.ScientificNameNorm, qNorm) ||
		strings.Contains(sp.VernacularNameNorm, qNorm)
}

func (m *memstore) CountSpecies(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.species)), nil
}

func (m *memstore) CreateUser(_ context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.Email = store.NormalizeEmail(u.Email)
	for _, v := range m.users {
		if v.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = m.now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *memstore) UserByEmail(_ context.Context, email string) (store.User, error) {
	email = store.NormalizeEmail(email)

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.users {
		if v.Email == email {
			return v, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m *memstore) CreateNote(_ context.Context, n *store.Note) error {
	if err := checkID(n.UserID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now
	m.notes[n.ID] = *n
	return nil
}

func (m *memstore) Notes(_ context.Context, userID string) ([]store.Note, error) {
	if userID != "" {
		if err := checkID(userID); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	res := []store.Note{}
	for _, v := range m.notes {
		if userID == "" || v.UserID == userID {
			res = append(res, v)
		}
	}
	slices.SortFunc(res, func(a, b store.Note) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return res, nil
}

func (m *memstore) UpdateNote(
	_ context.Context,
	id string,
	upd store.NoteUpdate,
) (store.Note, error) {
	if err := checkID(id); err != nil {
		return store.Note{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return store.Note{}, store.ErrNotFound
	}
	n.Apply(upd, m.now().UTC())
	m.notes[id] = n
	return n, nil
}

func (m *memstore) DeleteNote(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func checkID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

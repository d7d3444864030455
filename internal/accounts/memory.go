package accounts

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is the in-memory fallback used when no MongoDB is
// configured. State is lost on restart, which is fine for a dev server.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[int]*Account
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[int]*Account{}, nextID: 1}
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, a *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.ID == 0 {
		a.ID = r.nextID
	}
	if a.ID >= r.nextID {
		r.nextID = a.ID + 1
	}
	cp := *a
	r.byID[a.ID] = &cp
	return a, nil
}

func (r *MemoryRepository) Update(_ context.Context, a *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[a.ID]
	if !ok {
		return nil, nil
	}
	cur.FullName = a.FullName
	cur.Phone = a.Phone
	cur.Email = a.Email
	cur.Location = a.Location
	cur.Experience = a.Experience
	cur.TeamPosition = a.TeamPosition
	cur.Skills = a.Skills
	cur.UpdatedAt = time.Now().UTC()
	cp := *cur
	return &cp, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			a.PasswordHash = passwordHash
			a.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

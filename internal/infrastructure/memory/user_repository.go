package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementa repository.UserRepository en memoria.
type UserRepo struct{ base }

func (r *UserRepo) Upsert(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ref.get().users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.ref.get().users[id]
	if !ok {
		return nil, fmt.Errorf("usuario %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepo) ListByRole(_ context.Context, role entity.Role) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.User, 0)
	for _, u := range r.ref.get().users {
		if u.Role == role {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

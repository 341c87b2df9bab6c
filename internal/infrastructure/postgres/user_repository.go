package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert inserta o actualiza el usuario por ID.
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, role, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role`
	_, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Email, u.Role)
	return mapErr(err, "upsert usuario "+u.ID)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT id, name, email, role, created_at FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "usuario "+id)
	}
	return u, nil
}

// ListByRole usuarios de un rol ordenados por nombre.
func (r *UserRepo) ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, email, role, created_at FROM users WHERE role = $1 ORDER BY name`, string(role))
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

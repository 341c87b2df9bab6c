package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer_name, product_name, quantity, delivery_date, status,
	assigned_to_id, assigned_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.ProductName, &o.Quantity, &o.DeliveryDate, &o.Status,
		&o.AssignedToID, &o.AssignedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste un nuevo pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CustomerName, o.ProductName, o.Quantity, o.DeliveryDate, o.Status,
		o.AssignedToID, o.AssignedAt, o.CreatedAt, o.UpdatedAt,
	)
	return mapErr(err, "crear pedido "+o.ID)
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "pedido "+id)
	}
	return o, nil
}

// GetForUpdate obtiene el pedido y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapErr(err, "pedido "+id)
	}
	return o, nil
}

// Update guarda estado y asignación.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, assigned_to_id = $3, assigned_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Status, o.AssignedToID, o.AssignedAt, o.UpdatedAt)
	return mustAffect(tag, err, "actualizar pedido "+o.ID)
}

// List pedidos por fecha de entrega ascendente.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var w where
	if len(f.Statuses) > 0 {
		w.add("status = ANY($%d)", toStrings(f.Statuses))
	}
	if f.AssignedToID != "" {
		w.add("assigned_to_id = $%d", f.AssignedToID)
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + w.String() + ` ORDER BY delivery_date ASC, id`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CountByStatus cantidad de pedidos por estado.
func (r *OrderRepo) CountByStatus(ctx context.Context) (map[entity.OrderStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("contar pedidos: %w", err)
	}
	defer rows.Close()
	out := map[entity.OrderStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan conteo: %w", err)
		}
		out[entity.OrderStatus(status)] = n
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var (
	_ repository.ProductionRepository = (*ProductionRepo)(nil)
	_ repository.VarianceRepository   = (*VarianceRepo)(nil)
)

// ProductionRepo implementación de ProductionRepository sobre PostgreSQL.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

const productionColumns = `id, order_id, status, started_at, completed_at`

func scanProduction(row pgx.Row) (*entity.Production, error) {
	var p entity.Production
	if err := row.Scan(&p.ID, &p.OrderID, &p.Status, &p.StartedAt, &p.CompletedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la corrida. Una segunda corrida para el mismo pedido es ErrDuplicate.
func (r *ProductionRepo) Create(ctx context.Context, p *entity.Production) error {
	query := `INSERT INTO productions (` + productionColumns + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, p.ID, p.OrderID, p.Status, p.StartedAt, p.CompletedAt)
	return mapErr(err, "producción del pedido "+p.OrderID)
}

// GetByID obtiene una corrida.
func (r *ProductionRepo) GetByID(ctx context.Context, id string) (*entity.Production, error) {
	p, err := scanProduction(r.q.QueryRow(ctx, `SELECT `+productionColumns+` FROM productions WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "producción "+id)
	}
	return p, nil
}

// GetForUpdate obtiene la corrida y bloquea la fila.
func (r *ProductionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Production, error) {
	query := `SELECT ` + productionColumns + ` FROM productions WHERE id = $1 FOR UPDATE`
	p, err := scanProduction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr(err, "producción "+id)
	}
	return p, nil
}

// Update guarda estado y cierre.
func (r *ProductionRepo) Update(ctx context.Context, p *entity.Production) error {
	tag, err := r.q.Exec(ctx, `UPDATE productions SET status = $2, completed_at = $3 WHERE id = $1`,
		p.ID, p.Status, p.CompletedAt)
	return mustAffect(tag, err, "actualizar producción "+p.ID)
}

// List corridas más recientes primero; status vacío no filtra.
func (r *ProductionRepo) List(ctx context.Context, status entity.ProductionStatus) ([]*entity.Production, error) {
	var w where
	if status != "" {
		w.add("status = $%d", string(status))
	}
	query := `SELECT ` + productionColumns + ` FROM productions` + w.String() + ` ORDER BY started_at DESC, id`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listar producción: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Production, 0)
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producción: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddConsumption registra el consumo real de un material.
func (r *ProductionRepo) AddConsumption(ctx context.Context, c *entity.ActualConsumption) error {
	query := `
		INSERT INTO actual_consumption (id, production_id, item_name, actual_qty, actual_rate)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.ID, c.ProductionID, c.ItemName, c.ActualQty, c.ActualRate)
	return mapErr(err, "consumo "+c.ItemName)
}

// ListConsumption consumo real de una corrida.
func (r *ProductionRepo) ListConsumption(ctx context.Context, productionID string) ([]*entity.ActualConsumption, error) {
	query := `
		SELECT id, production_id, item_name, actual_qty, actual_rate
		FROM actual_consumption WHERE production_id = $1 ORDER BY item_name`
	rows, err := r.q.Query(ctx, query, productionID)
	if err != nil {
		return nil, fmt.Errorf("listar consumo: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.ActualConsumption, 0)
	for rows.Next() {
		var c entity.ActualConsumption
		if err := rows.Scan(&c.ID, &c.ProductionID, &c.ItemName, &c.ActualQty, &c.ActualRate); err != nil {
			return nil, fmt.Errorf("scan consumo: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// VarianceRepo implementación de VarianceRepository sobre PostgreSQL. Solo inserta y lee.
type VarianceRepo struct {
	q Querier
}

// NewVarianceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVarianceRepository(q Querier) *VarianceRepo {
	return &VarianceRepo{q: q}
}

const varianceColumns = `id, order_id, item_name, planned_qty, actual_qty, planned_rate, actual_rate,
	qty_variance, price_variance, total_variance, created_at`

// Create persiste la varianza. Una segunda para el mismo (pedido, material) es ErrDuplicate.
func (r *VarianceRepo) Create(ctx context.Context, v *entity.Variance) error {
	query := `
		INSERT INTO variances (` + varianceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.OrderID, v.ItemName, v.PlannedQty, v.ActualQty, v.PlannedRate, v.ActualRate,
		v.QtyVariance, v.PriceVariance, v.TotalVariance, v.CreatedAt,
	)
	return mapErr(err, "varianza "+v.OrderID+"/"+v.ItemName)
}

// ListByOrder varianzas del pedido por material.
func (r *VarianceRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Variance, error) {
	return r.list(ctx, `SELECT `+varianceColumns+` FROM variances WHERE order_id = $1 ORDER BY item_name`, orderID)
}

// List varianzas más recientes primero; limit 0 = sin límite.
func (r *VarianceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Variance, error) {
	var w where
	query := `SELECT ` + varianceColumns + ` FROM variances ORDER BY created_at DESC, order_id, item_name`
	query += w.page(limit, offset)
	return r.list(ctx, query, w.args...)
}

func (r *VarianceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Variance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar varianzas: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Variance, 0)
	for rows.Next() {
		var v entity.Variance
		err := rows.Scan(
			&v.ID, &v.OrderID, &v.ItemName, &v.PlannedQty, &v.ActualQty, &v.PlannedRate, &v.ActualRate,
			&v.QtyVariance, &v.PriceVariance, &v.TotalVariance, &v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan varianza: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

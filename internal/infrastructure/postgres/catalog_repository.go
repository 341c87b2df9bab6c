package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var (
	_ repository.BOMRepository       = (*BOMRepo)(nil)
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
)

// BOMRepo implementación de BOMRepository sobre PostgreSQL.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

const bomColumns = `id, product_name, item_name, quantity_per_unit, planned_rate, unit`

func scanBOM(row pgx.Row) (*entity.BOMEntry, error) {
	var e entity.BOMEntry
	if err := row.Scan(&e.ID, &e.ProductName, &e.ItemName, &e.QuantityPerUnit, &e.PlannedRate, &e.Unit); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *BOMRepo) list(ctx context.Context, query string, args ...any) ([]*entity.BOMEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar BOM: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.BOMEntry, 0)
	for rows.Next() {
		e, err := scanBOM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan BOM: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza la línea (producto, material). Conserva el ID existente.
func (r *BOMRepo) Upsert(ctx context.Context, e *entity.BOMEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bom_entries (` + bomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_name, item_name)
		DO UPDATE SET quantity_per_unit = EXCLUDED.quantity_per_unit,
			planned_rate = EXCLUDED.planned_rate, unit = EXCLUDED.unit
		RETURNING id`
	err := r.q.QueryRow(ctx, query, e.ID, e.ProductName, e.ItemName, e.QuantityPerUnit, e.PlannedRate, e.Unit).Scan(&e.ID)
	return mapErr(err, "upsert BOM "+e.ProductName+"/"+e.ItemName)
}

// ListByProduct líneas de un producto ordenadas por material.
func (r *BOMRepo) ListByProduct(ctx context.Context, productName string) ([]*entity.BOMEntry, error) {
	return r.list(ctx, `SELECT `+bomColumns+` FROM bom_entries WHERE product_name = $1 ORDER BY item_name`, productName)
}

// Get obtiene una línea por producto y material.
func (r *BOMRepo) Get(ctx context.Context, productName, itemName string) (*entity.BOMEntry, error) {
	query := `SELECT ` + bomColumns + ` FROM bom_entries WHERE product_name = $1 AND item_name = $2`
	e, err := scanBOM(r.q.QueryRow(ctx, query, productName, itemName))
	if err != nil {
		return nil, mapErr(err, "BOM "+productName+" / "+itemName)
	}
	return e, nil
}

// List todo el BOM.
func (r *BOMRepo) List(ctx context.Context) ([]*entity.BOMEntry, error) {
	return r.list(ctx, `SELECT `+bomColumns+` FROM bom_entries ORDER BY product_name, item_name`)
}

// ListProducts productos distintos con BOM.
func (r *BOMRepo) ListProducts(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT product_name FROM bom_entries ORDER BY product_name`)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AllocatedQuantities resuelve la reserva blanda en una sola consulta: por cada material del
// BOM de productName suma qpu × cantidad de los otros pedidos (de cualquier producto que use
// ese material) en los estados dados.
func (r *BOMRepo) AllocatedQuantities(
	ctx context.Context,
	productName, excludeOrderID string,
	statuses []entity.OrderStatus,
) (map[string]decimal.Decimal, error) {
	query := `
		SELECT mine.item_name, SUM(other.quantity_per_unit * o.quantity)
		FROM bom_entries mine
		JOIN bom_entries other ON other.item_name = mine.item_name
		JOIN orders o ON o.product_name = other.product_name
		WHERE mine.product_name = $1
		  AND o.id <> $2
		  AND o.status = ANY($3)
		GROUP BY mine.item_name`
	rows, err := r.q.Query(ctx, query, productName, excludeOrderID, toStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("reservas de %s: %w", productName, err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			item  string
			total decimal.Decimal
		)
		if err := rows.Scan(&item, &total); err != nil {
			return nil, fmt.Errorf("scan reserva: %w", err)
		}
		out[item] = total
	}
	return out, rows.Err()
}

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, item_name, current_stock, on_order_stock, reorder_level,
	daily_consumption, lead_time, safety_stock, unit, updated_at`

func scanInventory(row pgx.Row) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	err := row.Scan(
		&i.ID, &i.ItemName, &i.CurrentStock, &i.OnOrderStock, &i.ReorderLevel,
		&i.DailyConsumption, &i.LeadTime, &i.SafetyStock, &i.Unit, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InventoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar inventario: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.InventoryItem, 0)
	for rows.Next() {
		i, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventario: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza el saldo por nombre de material. Conserva el ID existente.
func (r *InventoryRepo) Upsert(ctx context.Context, i *entity.InventoryItem) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (item_name)
		DO UPDATE SET current_stock = EXCLUDED.current_stock, on_order_stock = EXCLUDED.on_order_stock,
			reorder_level = EXCLUDED.reorder_level, daily_consumption = EXCLUDED.daily_consumption,
			lead_time = EXCLUDED.lead_time, safety_stock = EXCLUDED.safety_stock,
			unit = EXCLUDED.unit, updated_at = now()
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		i.ID, i.ItemName, i.CurrentStock, i.OnOrderStock, i.ReorderLevel,
		i.DailyConsumption, i.LeadTime, i.SafetyStock, i.Unit,
	).Scan(&i.ID)
	return mapErr(err, "upsert material "+i.ItemName)
}

// GetByItemName obtiene el saldo de un material.
func (r *InventoryRepo) GetByItemName(ctx context.Context, itemName string) (*entity.InventoryItem, error) {
	i, err := scanInventory(r.q.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE item_name = $1`, itemName))
	if err != nil {
		return nil, mapErr(err, "material "+itemName)
	}
	return i, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, itemName string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE item_name = $1 FOR UPDATE`
	i, err := scanInventory(r.q.QueryRow(ctx, query, itemName))
	if err != nil {
		return nil, mapErr(err, "material "+itemName)
	}
	return i, nil
}

// ListByItemNames saldos existentes de los materiales pedidos.
func (r *InventoryRepo) ListByItemNames(ctx context.Context, names []string) (map[string]*entity.InventoryItem, error) {
	out := make(map[string]*entity.InventoryItem, len(names))
	if len(names) == 0 {
		return out, nil
	}
	list, err := r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE item_name = ANY($1)`, names)
	if err != nil {
		return nil, err
	}
	for _, i := range list {
		out[i.ItemName] = i
	}
	return out, nil
}

// List todos los saldos por nombre de material.
func (r *InventoryRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory_items ORDER BY item_name`)
}

// Update guarda los saldos de un material.
func (r *InventoryRepo) Update(ctx context.Context, i *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET current_stock = $2, on_order_stock = $3, reorder_level = $4, daily_consumption = $5,
			lead_time = $6, safety_stock = $7, unit = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		i.ID, i.CurrentStock, i.OnOrderStock, i.ReorderLevel, i.DailyConsumption,
		i.LeadTime, i.SafetyStock, i.Unit, i.UpdatedAt,
	)
	return mustAffect(tag, err, "actualizar material "+i.ItemName)
}

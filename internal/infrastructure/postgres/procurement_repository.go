package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var (
	_ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*PurchaseOrderRepo)(nil)
)

// MaterialRequestRepo implementación de MaterialRequestRepository sobre PostgreSQL.
// La cabecera y sus líneas se guardan en tablas separadas; llamar dentro de una tx.
type MaterialRequestRepo struct {
	q Querier
}

// NewMaterialRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRequestRepository(q Querier) *MaterialRequestRepo {
	return &MaterialRequestRepo{q: q}
}

const requestColumns = `id, order_id, status, assigned_to_id, assigned_at, created_at, updated_at`

const requestItemColumns = `id, material_request_id, item_name, required_qty, shortage_qty,
	actual_physical_count, status`

func scanRequest(row pgx.Row) (*entity.MaterialRequest, error) {
	var m entity.MaterialRequest
	if err := row.Scan(&m.ID, &m.OrderID, &m.Status, &m.AssignedToID, &m.AssignedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste la cabecera y sus líneas en el orden recibido.
func (r *MaterialRequestRepo) Create(ctx context.Context, m *entity.MaterialRequest) error {
	query := `INSERT INTO material_requests (` + requestColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.OrderID, m.Status, m.AssignedToID, m.AssignedAt, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return mapErr(err, "crear solicitud "+m.ID)
	}
	itemQuery := `
		INSERT INTO material_request_items (position, ` + requestItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for pos := range m.Items {
		it := &m.Items[pos]
		it.MaterialRequestID = m.ID
		_, err := r.q.Exec(ctx, itemQuery,
			pos, it.ID, it.MaterialRequestID, it.ItemName, it.RequiredQty, it.ShortageQty,
			it.ActualPhysicalCount, it.Status,
		)
		if err != nil {
			return mapErr(err, "crear línea "+it.ID)
		}
	}
	return nil
}

// GetByID obtiene la solicitud con sus líneas.
func (r *MaterialRequestRepo) GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM material_requests WHERE id = $1`, id)
}

// GetForUpdate obtiene la solicitud y bloquea la cabecera (SELECT FOR UPDATE).
func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM material_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *MaterialRequestRepo) get(ctx context.Context, query, id string) (*entity.MaterialRequest, error) {
	m, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr(err, "solicitud "+id)
	}
	items, err := r.items(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	m.Items = items[id]
	return m, nil
}

// items líneas de las solicitudes indicadas, agrupadas por solicitud y en orden de creación.
func (r *MaterialRequestRepo) items(ctx context.Context, ids []string) (map[string][]entity.MaterialRequestItem, error) {
	query := `
		SELECT ` + requestItemColumns + `
		FROM material_request_items
		WHERE material_request_id = ANY($1)
		ORDER BY material_request_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("listar líneas: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.MaterialRequestItem, len(ids))
	for rows.Next() {
		var it entity.MaterialRequestItem
		err := rows.Scan(
			&it.ID, &it.MaterialRequestID, &it.ItemName, &it.RequiredQty, &it.ShortageQty,
			&it.ActualPhysicalCount, &it.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan línea: %w", err)
		}
		out[it.MaterialRequestID] = append(out[it.MaterialRequestID], it)
	}
	return out, rows.Err()
}

// Update guarda la cabecera y el estado/conteo de cada línea.
func (r *MaterialRequestRepo) Update(ctx context.Context, m *entity.MaterialRequest) error {
	query := `
		UPDATE material_requests
		SET status = $2, assigned_to_id = $3, assigned_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Status, m.AssignedToID, m.AssignedAt, m.UpdatedAt)
	if err := mustAffect(tag, err, "actualizar solicitud "+m.ID); err != nil {
		return err
	}
	itemQuery := `
		UPDATE material_request_items
		SET status = $2, actual_physical_count = $3
		WHERE id = $1`
	for _, it := range m.Items {
		tag, err := r.q.Exec(ctx, itemQuery, it.ID, it.Status, it.ActualPhysicalCount)
		if err := mustAffect(tag, err, "actualizar línea "+it.ID); err != nil {
			return err
		}
	}
	return nil
}

// List solicitudes más recientes primero.
func (r *MaterialRequestRepo) List(ctx context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, error) {
	var w where
	if len(f.Statuses) > 0 {
		w.add("status = ANY($%d)", toStrings(f.Statuses))
	}
	if f.AssignedToID != "" {
		w.add("assigned_to_id = $%d", f.AssignedToID)
	}
	if f.OrderID != "" {
		w.add("order_id = $%d", f.OrderID)
	}
	query := `SELECT ` + requestColumns + ` FROM material_requests` + w.String() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes: %w", err)
	}
	out := make([]*entity.MaterialRequest, 0)
	ids := make([]string, 0)
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		out = append(out, m)
		ids = append(ids, m.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range out {
		m.Items = items[m.ID]
	}
	return out, nil
}

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseColumns = `id, material_request_id, material_request_item_id, item_name, quantity, rate,
	supplier_name, expected_date, status, created_at, received_at`

func scanPurchase(row pgx.Row) (*entity.PurchaseOrder, error) {
	var p entity.PurchaseOrder
	err := row.Scan(
		&p.ID, &p.MaterialRequestID, &p.MaterialRequestItemID, &p.ItemName, &p.Quantity, &p.Rate,
		&p.SupplierName, &p.ExpectedDate, &p.Status, &p.CreatedAt, &p.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la orden de compra. Una segunda compra para la misma línea es ErrDuplicate.
func (r *PurchaseOrderRepo) Create(ctx context.Context, p *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.MaterialRequestID, p.MaterialRequestItemID, p.ItemName, p.Quantity, p.Rate,
		p.SupplierName, p.ExpectedDate, p.Status, p.CreatedAt, p.ReceivedAt,
	)
	return mapErr(err, "crear orden de compra "+p.ID)
}

// GetByID obtiene una orden de compra.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "orden de compra "+id)
	}
	return p, nil
}

// GetForUpdate obtiene la orden de compra y bloquea la fila.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_orders WHERE id = $1 FOR UPDATE`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr(err, "orden de compra "+id)
	}
	return p, nil
}

// Update guarda estado y fecha de recepción.
func (r *PurchaseOrderRepo) Update(ctx context.Context, p *entity.PurchaseOrder) error {
	query := `UPDATE purchase_orders SET status = $2, received_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Status, p.ReceivedAt)
	return mustAffect(tag, err, "actualizar orden de compra "+p.ID)
}

// List órdenes de compra más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	var w where
	if f.Status != "" {
		w.add("status = $%d", string(f.Status))
	}
	if f.MaterialRequestID != "" {
		w.add("material_request_id = $%d", f.MaterialRequestID)
	}
	query := `SELECT ` + purchaseColumns + ` FROM purchase_orders` + w.String() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes de compra: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.PurchaseOrder, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan orden de compra: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SuppliersByOrder material → proveedor de la compra más reciente de las solicitudes del pedido.
func (r *PurchaseOrderRepo) SuppliersByOrder(ctx context.Context, orderID string) (map[string]string, error) {
	query := `
		SELECT DISTINCT ON (po.item_name) po.item_name, po.supplier_name
		FROM purchase_orders po
		JOIN material_requests mr ON mr.id = po.material_request_id
		WHERE mr.order_id = $1
		ORDER BY po.item_name, po.created_at DESC, po.id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("proveedores del pedido %s: %w", orderID, err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var item, supplier string
		if err := rows.Scan(&item, &supplier); err != nil {
			return nil, fmt.Errorf("scan proveedor: %w", err)
		}
		out[item] = supplier
	}
	return out, rows.Err()
}

// Package seed carga usuarios, BOM e inventario desde archivos CSV con encabezado.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

// Nombres de archivo que LoadDir busca en el directorio.
const (
	UsersFile     = "users.csv"
	BOMFile       = "bom.csv"
	InventoryFile = "inventory.csv"
)

// Result resumen de una carga.
type Result struct {
	Users     []*entity.User
	BOM       int
	Inventory int
}

// Loader lee los CSV y los persiste con upsert.
type Loader struct {
	tx     ports.TxRunner
	latin1 bool
}

// NewLoader construye el cargador. latin1=true decodifica los archivos como ISO-8859-1
// (exportaciones de Excel en Windows).
func NewLoader(tx ports.TxRunner, latin1 bool) *Loader {
	return &Loader{tx: tx, latin1: latin1}
}

// LoadDir carga users.csv, bom.csv e inventory.csv de dir en una sola transacción.
// Los archivos ausentes se omiten.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Result, error) {
	tables := make(map[string][]map[string]string, 3)
	for _, name := range []string{UsersFile, BOMFile, InventoryFile} {
		f, err := os.Open(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows, err := l.readRows(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		tables[name] = rows
	}

	res := &Result{}
	err := l.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		if res.Users, err = loadUsers(ctx, repos.Users, tables[UsersFile]); err != nil {
			return fmt.Errorf("%s: %w", UsersFile, err)
		}
		if res.BOM, err = loadBOM(ctx, repos.BOM, tables[BOMFile]); err != nil {
			return fmt.Errorf("%s: %w", BOMFile, err)
		}
		if res.Inventory, err = loadInventory(ctx, repos.Inventory, tables[InventoryFile]); err != nil {
			return fmt.Errorf("%s: %w", InventoryFile, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// readRows devuelve cada fila como columna → valor, con los encabezados en minúscula.
func (l *Loader) readRows(r io.Reader) ([]map[string]string, error) {
	if l.latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, v := range rec {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func loadUsers(ctx context.Context, repo repository.UserRepository, rows []map[string]string) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(rows))
	for i, row := range rows {
		role, ok := entity.ParseRole(strings.ToUpper(row["role"]))
		if !ok {
			return nil, rowErr(i, "rol %q desconocido", row["role"])
		}
		if row["name"] == "" {
			return nil, rowErr(i, "name vacío")
		}
		u := &entity.User{ID: row["id"], Name: row["name"], Email: row["email"], Role: role}
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		if err := repo.Upsert(ctx, u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func loadBOM(ctx context.Context, repo repository.BOMRepository, rows []map[string]string) (int, error) {
	for i, row := range rows {
		if row["product_name"] == "" || row["item_name"] == "" {
			return 0, rowErr(i, "product_name e item_name son obligatorios")
		}
		qpu, err := dec(row, "quantity_per_unit")
		if err != nil {
			return 0, rowErr(i, "%v", err)
		}
		if !qpu.IsPositive() {
			return 0, rowErr(i, "quantity_per_unit debe ser > 0")
		}
		rate, err := dec(row, "planned_rate")
		if err != nil {
			return 0, rowErr(i, "%v", err)
		}
		e := &entity.BOMEntry{
			ProductName:     row["product_name"],
			ItemName:        row["item_name"],
			QuantityPerUnit: qpu,
			PlannedRate:     rate,
			Unit:            row["unit"],
		}
		if err := repo.Upsert(ctx, e); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func loadInventory(ctx context.Context, repo repository.InventoryRepository, rows []map[string]string) (int, error) {
	for i, row := range rows {
		if row["item_name"] == "" {
			return 0, rowErr(i, "item_name es obligatorio")
		}
		it := &entity.InventoryItem{ItemName: row["item_name"], Unit: row["unit"]}
		for col, dst := range map[string]*decimal.Decimal{
			"current_stock":     &it.CurrentStock,
			"on_order_stock":    &it.OnOrderStock,
			"reorder_level":     &it.ReorderLevel,
			"daily_consumption": &it.DailyConsumption,
			"safety_stock":      &it.SafetyStock,
		} {
			v, err := dec(row, col)
			if err != nil {
				return 0, rowErr(i, "%v", err)
			}
			*dst = v
		}
		if s := row["lead_time"]; s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return 0, rowErr(i, "lead_time %q inválido", s)
			}
			it.LeadTime = n
		}
		if err := repo.Upsert(ctx, it); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// dec lee una columna decimal; vacía = 0. Acepta coma decimal.
func dec(row map[string]string, col string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(row[col], ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q no es numérico", col, row[col])
	}
	return d, nil
}

// rowErr numera filas como en la hoja (encabezado = fila 1).
func rowErr(i int, format string, args ...any) error {
	return fmt.Errorf("fila %d: %s: %w", i+2, fmt.Sprintf(format, args...), domain.ErrInvalidInput)
}

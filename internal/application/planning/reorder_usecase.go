package planning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	calc "github.com/jhoicas/procura-api/internal/domain/planning"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

// ReorderUseCase expone el inventario con semáforo de cobertura y la lista de alertas.
type ReorderUseCase struct {
	inventory repository.InventoryRepository
	sheet     AlertSheetGenerator
}

// NewReorderUseCase construye el caso de uso. sheet puede ser nil si no se exporta XLSX.
func NewReorderUseCase(inventory repository.InventoryRepository, sheet AlertSheetGenerator) *ReorderUseCase {
	return &ReorderUseCase{inventory: inventory, sheet: sheet}
}

// ListInventory devuelve todos los saldos con su evaluación de reorden.
func (uc *ReorderUseCase) ListInventory(ctx context.Context, actor entity.Actor) (*dto.InventoryListResponse, error) {
	if err := actor.Require(entity.CapViewInventory); err != nil {
		return nil, err
	}
	items, err := uc.inventory.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.FromInventoryItem(it))
	}
	return &dto.InventoryListResponse{Items: out}, nil
}

// ListAlerts devuelve los materiales en alerta: semáforo distinto de HEALTHY o
// stock bajo el nivel estático. Ordena CRITICAL primero y luego por días de cobertura.
func (uc *ReorderUseCase) ListAlerts(ctx context.Context, actor entity.Actor) (*dto.InventoryListResponse, error) {
	all, err := uc.ListInventory(ctx, actor)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.InventoryItemDTO, 0)
	for _, it := range all.Items {
		if it.IsAlert {
			alerts = append(alerts, it)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := severity(alerts[i].Status), severity(alerts[j].Status)
		if ri != rj {
			return ri < rj
		}
		return alerts[i].DaysRemaining.LessThan(alerts[j].DaysRemaining)
	})
	return &dto.InventoryListResponse{Items: alerts}, nil
}

// AlertSheet genera el XLSX de alertas. Devuelve (bytes, nombre de archivo).
func (uc *ReorderUseCase) AlertSheet(ctx context.Context, actor entity.Actor) ([]byte, string, error) {
	if uc.sheet == nil {
		return nil, "", fmt.Errorf("alertas: generador XLSX no configurado")
	}
	alerts, err := uc.ListAlerts(ctx, actor)
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	data, err := uc.sheet.GenerateAlertSheet(alerts.Items, now)
	if err != nil {
		return nil, "", fmt.Errorf("alertas: generar XLSX: %w", err)
	}
	return data, fmt.Sprintf("inventory-alerts-%s.xlsx", now.Format("20060102")), nil
}

func severity(status string) int {
	switch calc.AlertStatus(status) {
	case calc.StatusCritical:
		return 0
	case calc.StatusWarning:
		return 1
	default:
		return 2
	}
}

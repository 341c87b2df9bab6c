package planning

import (
	"time"

	"github.com/jhoicas/procura-api/internal/application/dto"
)

// AlertSheetGenerator genera la hoja de cálculo de alertas de inventario.
type AlertSheetGenerator interface {
	GenerateAlertSheet(items []dto.InventoryItemDTO, generatedAt time.Time) ([]byte, error)
}

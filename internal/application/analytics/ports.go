package analytics

import (
	"time"

	"github.com/jhoicas/procura-api/internal/application/dto"
)

// VarianceReportGenerator define el puerto para generar el PDF de varianzas de un pedido.
type VarianceReportGenerator interface {
	GenerateVarianceReport(report *dto.OrderVarianceReport, generatedAt time.Time) ([]byte, error)
}

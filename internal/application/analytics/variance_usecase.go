// Package analytics contiene los casos de uso de reportes: varianzas plan vs. real
// y el tablero de gerencia.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

// VarianceUseCase consulta las varianzas registradas al cerrar producción.
type VarianceUseCase struct {
	repos  repository.Repositories
	report VarianceReportGenerator
}

// NewVarianceUseCase construye el caso de uso. report puede ser nil si no se exponen PDFs.
func NewVarianceUseCase(repos repository.Repositories, report VarianceReportGenerator) *VarianceUseCase {
	return &VarianceUseCase{repos: repos, report: report}
}

// List varianzas más recientes primero, con el proveedor de la última compra del material
// para el pedido ("Internal Inventory" si salió del almacén sin compra).
func (uc *VarianceUseCase) List(ctx context.Context, actor entity.Actor, q dto.PageRequest) (*dto.VarianceListResponse, error) {
	if err := actor.Require(entity.CapViewVariance); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repos.Variances.List(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}

	suppliers := map[string]map[string]string{}
	items := make([]dto.VarianceDTO, 0, len(list))
	for _, v := range list {
		byItem, ok := suppliers[v.OrderID]
		if !ok {
			byItem, err = uc.repos.PurchaseOrders.SuppliersByOrder(ctx, v.OrderID)
			if err != nil {
				return nil, err
			}
			suppliers[v.OrderID] = byItem
		}
		items = append(items, withSupplier(v, byItem))
	}
	return &dto.VarianceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// ByOrder varianzas de un pedido por material, con totales.
func (uc *VarianceUseCase) ByOrder(ctx context.Context, actor entity.Actor, orderID string) (*dto.OrderVarianceReport, error) {
	if err := actor.Require(entity.CapViewVariance); err != nil {
		return nil, err
	}
	o, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Variances.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	byItem, err := uc.repos.PurchaseOrders.SuppliersByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	report := &dto.OrderVarianceReport{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		ProductName:   o.ProductName,
		Quantity:      o.Quantity,
		Lines:         make([]dto.VarianceDTO, 0, len(list)),
		PlannedAmount: decimal.Zero,
		ActualAmount:  decimal.Zero,
		QtyVariance:   decimal.Zero,
		PriceVariance: decimal.Zero,
		TotalVariance: decimal.Zero,
	}
	for _, v := range list {
		line := withSupplier(v, byItem)
		report.Lines = append(report.Lines, line)
		report.PlannedAmount = report.PlannedAmount.Add(line.PlannedAmount)
		report.ActualAmount = report.ActualAmount.Add(line.ActualAmount)
		report.QtyVariance = report.QtyVariance.Add(line.QtyVariance)
		report.PriceVariance = report.PriceVariance.Add(line.PriceVariance)
		report.TotalVariance = report.TotalVariance.Add(line.TotalVariance)
	}
	report.IsUnfavorable = report.TotalVariance.IsPositive()
	return report, nil
}

// ReportPDF genera el PDF de varianzas del pedido. Devuelve el contenido y el nombre de archivo.
func (uc *VarianceUseCase) ReportPDF(ctx context.Context, actor entity.Actor, orderID string) ([]byte, string, error) {
	report, err := uc.ByOrder(ctx, actor, orderID)
	if err != nil {
		return nil, "", err
	}
	if len(report.Lines) == 0 {
		return nil, "", fmt.Errorf("pedido %s sin varianzas registradas: %w", orderID, domain.ErrNotFound)
	}
	if uc.report == nil {
		return nil, "", fmt.Errorf("generador de reportes no configurado")
	}
	pdf, err := uc.report.GenerateVarianceReport(report, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("varianzas: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("variance-%s.pdf", orderID), nil
}

func withSupplier(v *entity.Variance, byItem map[string]string) dto.VarianceDTO {
	out := dto.FromVariance(v)
	out.SupplierName = dto.InternalSupplier
	if s, ok := byItem[v.ItemName]; ok && s != "" {
		out.SupplierName = s
	}
	return out
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

// CatalogUseCase consulta la lista de materiales (BOM).
type CatalogUseCase struct {
	repo repository.BOMRepository
}

// NewCatalogUseCase construye el caso de uso con el puerto de persistencia.
func NewCatalogUseCase(repo repository.BOMRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// Products lista los productos que tienen BOM registrado.
func (uc *CatalogUseCase) Products(ctx context.Context, actor entity.Actor) (*dto.BOMProductsResponse, error) {
	if err := actor.Require(entity.CapViewInventory); err != nil {
		return nil, err
	}
	products, err := uc.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BOMProductsResponse{Products: products}, nil
}

// ByProduct devuelve el BOM del producto. NotFound si no tiene líneas.
func (uc *CatalogUseCase) ByProduct(ctx context.Context, actor entity.Actor, productName string) (*dto.BOMResponse, error) {
	if err := actor.Require(entity.CapViewInventory); err != nil {
		return nil, err
	}
	productName = strings.TrimSpace(productName)
	entries, err := uc.repo.ListByProduct(ctx, productName)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("BOM del producto %q: %w", productName, domain.ErrNotFound)
	}
	out := &dto.BOMResponse{ProductName: productName, Items: make([]dto.BOMEntryDTO, 0, len(entries))}
	for _, e := range entries {
		out.Items = append(out.Items, dto.FromBOMEntry(e))
	}
	return out, nil
}

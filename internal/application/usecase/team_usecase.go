package usecase

import (
	"context"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

// TeamUseCase vistas de carga de trabajo de los equipos de planeación y materiales.
type TeamUseCase struct {
	repos repository.Repositories
}

// NewTeamUseCase construye el caso de uso.
func NewTeamUseCase(repos repository.Repositories) *TeamUseCase {
	return &TeamUseCase{repos: repos}
}

// PPCTeam empleados de planeación con sus pedidos abiertos asignados.
func (uc *TeamUseCase) PPCTeam(ctx context.Context, actor entity.Actor) ([]dto.TeamMemberDTO, error) {
	if err := actor.Require(entity.CapViewPPCTeam); err != nil {
		return nil, err
	}
	return uc.team(ctx, entity.RolePPCEmployee, func(userID string) (int, error) {
		list, err := uc.repos.Orders.List(ctx, repository.OrderFilter{
			AssignedToID: userID,
			Statuses:     entity.OpenOrderStatuses,
		})
		return len(list), err
	})
}

// MaterialsTeam empleados de materiales con sus verificaciones pendientes.
func (uc *TeamUseCase) MaterialsTeam(ctx context.Context, actor entity.Actor) ([]dto.TeamMemberDTO, error) {
	if err := actor.Require(entity.CapViewMaterialsTeam); err != nil {
		return nil, err
	}
	return uc.team(ctx, entity.RoleMaterialsEmployee, func(userID string) (int, error) {
		list, err := uc.repos.MaterialRequests.List(ctx, repository.MaterialRequestFilter{
			AssignedToID: userID,
			Statuses:     []entity.RequestStatus{entity.RequestPending},
		})
		return len(list), err
	})
}

func (uc *TeamUseCase) team(ctx context.Context, role entity.Role, open func(userID string) (int, error)) ([]dto.TeamMemberDTO, error) {
	users, err := uc.repos.Users.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TeamMemberDTO, 0, len(users))
	for _, u := range users {
		n, err := open(u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.TeamMemberDTO{
			ID:              u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Role:            string(u.Role),
			OpenAssignments: n,
		})
	}
	return out, nil
}

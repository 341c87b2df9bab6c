package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/procura-api/internal/domain"
)

// Role es el conjunto cerrado de roles de Procura.
type Role string

// Roles válidos para User.
const (
	RoleSales             Role = "SALES"
	RolePPCManager        Role = "PPC_MANAGER"
	RolePPCEmployee       Role = "PPC_EMPLOYEE"
	RoleMaterialsManager  Role = "MATERIALS_MANAGER"
	RoleMaterialsEmployee Role = "MATERIALS_EMPLOYEE"
	RolePurchase          Role = "PURCHASE"
	RoleManagement        Role = "MANAGEMENT"
)

// Capability es una operación protegida. Cada ruta y cada caso de uso declara la suya.
type Capability string

const (
	CapCreateOrder        Capability = "order:create"
	CapViewOrders         Capability = "order:view"
	CapCancelOrder        Capability = "order:cancel"
	CapAssignOrder        Capability = "order:assign"
	CapPlanOrder          Capability = "order:plan" // lock, requerimientos, solicitar materiales, producción
	CapViewOwnOrders      Capability = "order:my-tasks"
	CapViewRequests       Capability = "material-request:view"
	CapRequestReplenish   Capability = "material-request:replenish"
	CapAssignRequest      Capability = "material-request:assign"
	CapVerifyRequest      Capability = "material-request:verify"
	CapApproveRequest     Capability = "material-request:approve"
	CapViewOwnRequests    Capability = "material-request:my-tasks"
	CapViewPurchaseOrders Capability = "purchase-order:view"
	CapCreatePurchase     Capability = "purchase-order:create"
	CapReceivePurchase    Capability = "purchase-order:receive"
	CapViewInventory      Capability = "inventory:view"
	CapViewVariance       Capability = "variance:view"
	CapViewStats          Capability = "management:stats"
	CapViewPPCTeam        Capability = "team:ppc"
	CapViewMaterialsTeam  Capability = "team:materials"
)

var ppcRoles = []Role{RolePPCManager, RolePPCEmployee}

var capabilities = map[Capability][]Role{
	CapCreateOrder:        {RoleSales},
	CapViewOrders:         {RoleSales, RolePPCManager, RolePPCEmployee, RoleMaterialsManager, RoleManagement},
	CapCancelOrder:        {RoleSales, RolePPCManager},
	CapAssignOrder:        {RolePPCManager},
	CapPlanOrder:          ppcRoles,
	CapViewOwnOrders:      {RolePPCEmployee},
	CapViewRequests:       {RolePPCManager, RolePPCEmployee, RoleMaterialsManager, RoleMaterialsEmployee, RolePurchase, RoleManagement},
	CapRequestReplenish:   {RoleMaterialsManager},
	CapAssignRequest:      {RoleMaterialsManager},
	CapVerifyRequest:      {RoleMaterialsEmployee},
	CapApproveRequest:     {RoleMaterialsManager},
	CapViewOwnRequests:    {RoleMaterialsEmployee},
	CapViewPurchaseOrders: {RolePurchase, RoleMaterialsManager, RolePPCManager, RoleManagement},
	CapCreatePurchase:     {RolePurchase},
	CapReceivePurchase:    {RolePurchase, RoleMaterialsManager},
	CapViewInventory:      {RolePPCManager, RolePPCEmployee, RoleMaterialsManager, RoleMaterialsEmployee, RolePurchase, RoleManagement},
	CapViewVariance:       {RolePPCManager, RoleManagement},
	CapViewStats:          {RoleManagement},
	CapViewPPCTeam:        {RolePPCManager},
	CapViewMaterialsTeam:  {RoleMaterialsManager},
}

// ParseRole convierte el claim del token en un Role. ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	switch r {
	case RoleSales, RolePPCManager, RolePPCEmployee, RoleMaterialsManager,
		RoleMaterialsEmployee, RolePurchase, RoleManagement:
		return r, true
	}
	return "", false
}

// Can indica si el rol tiene la capacidad pedida.
func (r Role) Can(c Capability) bool {
	for _, allowed := range capabilities[c] {
		if allowed == r {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema. La autenticación vive fuera del servicio;
// aquí solo se usan para validar asignaciones y para las vistas de equipo.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// Actor es quien ejecuta una operación (extraído del token).
type Actor struct {
	UserID string
	Role   Role
}

// Can es un atajo sobre Role.Can.
func (a Actor) Can(c Capability) bool { return a.Role.Can(c) }

// Require devuelve ErrUnauthorized si el actor no tiene la capacidad.
func (a Actor) Require(c Capability) error {
	if !a.Role.Can(c) {
		return fmt.Errorf("rol %q sin permiso %s: %w", a.Role, c, domain.ErrUnauthorized)
	}
	return nil
}

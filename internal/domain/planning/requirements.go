// Package planning contiene las fórmulas puras del motor de requerimientos de material:
// necesidad por BOM, stock disponible blando, faltantes, nivel de reorden y varianzas.
// No accede a la base de datos; los casos de uso le pasan los datos ya leídos.
package planning

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RequiredQuantity necesidad de un material: cantidad por unidad × cantidad del pedido.
func RequiredQuantity(quantityPerUnit decimal.Decimal, orderQty int) decimal.Decimal {
	return quantityPerUnit.Mul(decimal.NewFromInt(int64(orderQty)))
}

// SoftAvailable stock físico menos lo reservado por otros pedidos en curso.
// No se acota en cero: un valor negativo indica sobre-reserva y eleva el faltante.
func SoftAvailable(physicalStock, allocatedByOthers decimal.Decimal) decimal.Decimal {
	return physicalStock.Sub(allocatedByOthers)
}

// Shortage faltante del pedido: max(0, requerido − disponible blando).
func Shortage(required, softAvailable decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, required.Sub(softAvailable))
}

// UtilizationPercent porcentaje del stock físico que consume el pedido.
// Sin stock físico positivo se reporta 100.
func UtilizationPercent(required, physicalStock decimal.Decimal) decimal.Decimal {
	if !physicalStock.IsPositive() {
		return hundred
	}
	return required.Div(physicalStock).Mul(hundred)
}

// Requirement resultado por material de un pedido.
type Requirement struct {
	Material           string
	Unit               string
	QuantityPerUnit    decimal.Decimal
	Required           decimal.Decimal
	PhysicalStock      decimal.Decimal
	SoftAvailable      decimal.Decimal
	Shortage           decimal.Decimal
	ReorderShortage    decimal.Decimal
	UtilizationPercent decimal.Decimal
	// OnOrder suma al disponible blando lo comprado y aún no recibido. Es
	// informativo: el faltante que se solicita sigue siendo Shortage.
	OnOrderStock decimal.Decimal
	OnOrder      Availability
}

// RequirementInput datos leídos para un material.
type RequirementInput struct {
	Material          string
	Unit              string
	QuantityPerUnit   decimal.Decimal
	OrderQuantity     int
	PhysicalStock     decimal.Decimal // 0 si el material no existe en inventario
	AllocatedByOthers decimal.Decimal // excluye al propio pedido
	OnOrderStock      decimal.Decimal
	DailyConsumption  decimal.Decimal
	LeadTime          int
	SafetyStock       decimal.Decimal
}

// CalculateRequirement aplica todas las fórmulas a un material.
func CalculateRequirement(in RequirementInput) Requirement {
	required := RequiredQuantity(in.QuantityPerUnit, in.OrderQuantity)
	soft := SoftAvailable(in.PhysicalStock, in.AllocatedByOthers)
	return Requirement{
		Material:           in.Material,
		Unit:               in.Unit,
		QuantityPerUnit:    in.QuantityPerUnit,
		Required:           required,
		PhysicalStock:      in.PhysicalStock,
		SoftAvailable:      soft,
		Shortage:           Shortage(required, soft),
		ReorderShortage:    ReorderQuantity(ReorderLevel(in.DailyConsumption, in.LeadTime, in.SafetyStock), in.PhysicalStock),
		UtilizationPercent: UtilizationPercent(required, in.PhysicalStock),
		OnOrderStock:       in.OnOrderStock,
		OnOrder:            CheckStockAvailability(soft, in.OnOrderStock, required),
	}
}

// Availability resultado de CheckStockAvailability.
type Availability struct {
	Available   decimal.Decimal
	Shortage    decimal.Decimal
	IsAvailable bool
}

// CheckStockAvailability compara lo requerido contra stock físico + en camino.
func CheckStockAvailability(currentStock, onOrderStock, required decimal.Decimal) Availability {
	available := currentStock.Add(onOrderStock)
	shortage := required.Sub(available)
	return Availability{
		Available:   available,
		Shortage:    decimal.Max(decimal.Zero, shortage),
		IsAvailable: !shortage.IsPositive(),
	}
}

package dto

import "time"

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerName string `json:"customer_name" validate:"required,min=1,max=200"`
	ProductName  string `json:"product_name" validate:"required,min=1,max=200"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	DeliveryDate string `json:"delivery_date" validate:"required,datetime=2006-01-02"`
}

// LockOrderRequest body para POST /api/ppc/lock.
type LockOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// OrderListQuery filtros de GET /api/orders.
type OrderListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=PENDING CALCULATING MATERIAL_REQUESTED IN_PRODUCTION COMPLETED CANCELLED"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customer_name"`
	ProductName  string     `json:"product_name"`
	Quantity     int        `json:"quantity"`
	DeliveryDate string     `json:"delivery_date"`
	Status       string     `json:"status"`
	AssignedToID *string    `json:"assigned_to_id,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

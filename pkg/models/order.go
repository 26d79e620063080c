package models

// OrderItem is one entry of a persisted reorder: the entity id and its new position.
type OrderItem struct {
	ID          string `json:"id" validate:"required"`
	OrderNumber int    `json:"order_number" validate:"gte=0"`
}

type ReorderRequest struct {
	Items []OrderItem `json:"items" validate:"required,dive"`
}

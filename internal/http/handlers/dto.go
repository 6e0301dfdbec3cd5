package handlers

import "storefront/internal/domain"

type SizeRequest struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// CreateProductRequest is the body of POST /products. Pointer and slice fields
// let a missing key be told apart from a zero value.
type CreateProductRequest struct {
	Name  string        `json:"name"`
	Price *float64      `json:"price"`
	Sizes []SizeRequest `json:"sizes"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// CreateOrderRequest is the body of POST /orders. UserID is a pointer so a missing
// key can be told apart from an empty id.
type CreateOrderRequest struct {
	UserID *string            `json:"userId"`
	Items  []OrderItemRequest `json:"items"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type ProductPage struct {
	Data []domain.ProductSummary `json:"data"`
	Page domain.PageInfo         `json:"page"`
}

type OrderPage struct {
	Data []domain.OrderView `json:"data"`
	Page domain.PageInfo    `json:"page"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (r CreateProductRequest) sizes() []domain.Size {
	if r.Sizes == nil {
		return nil
	}
	out := make([]domain.Size, len(r.Sizes))
	for i, s := range r.Sizes {
		out[i] = domain.Size{Size: s.Size, Quantity: s.Quantity}
	}
	return out
}

func (r CreateOrderRequest) userID() string {
	if r.UserID == nil {
		return ""
	}
	return *r.UserID
}

func (r CreateOrderRequest) items() []domain.OrderItem {
	out := make([]domain.OrderItem, len(r.Items))
	for i, it := range r.Items {
		out[i] = domain.OrderItem{ProductID: it.ProductID, Qty: it.Qty}
	}
	return out
}

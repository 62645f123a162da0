package client

import (
	"strings"
	"time"
)

// Timestamp accepts RFC 3339 values and the zone-less local date-times the
// services emit.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	var err error
	for _, layout := range timestampLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// Customer is a customer-service record.
type Customer struct {
	ID         int64      `json:"id,omitempty"`
	FullName   string     `json:"fullName"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone"`
	Street     string     `json:"street,omitempty"`
	City       string     `json:"city,omitempty"`
	Country    string     `json:"country,omitempty"`
	PostalCode string     `json:"postalCode,omitempty"`
	Active     *bool      `json:"active,omitempty"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt  *Timestamp `json:"updatedAt,omitempty"`
}

// CustomerStats is the aggregate returned by /stats.
type CustomerStats struct {
	TotalCustomers        int64   `json:"totalCustomers"`
	ActiveCustomers       int64   `json:"activeCustomers"`
	InactiveCustomers     int64   `json:"inactiveCustomers"`
	NewCustomersToday     int64   `json:"newCustomersToday"`
	NewCustomersThisWeek  int64   `json:"newCustomersThisWeek"`
	NewCustomersThisMonth int64   `json:"newCustomersThisMonth"`
	ActivePercentage      float64 `json:"activePercentage"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Product is an inventory-service record.
type Product struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// APIResponse is the billing service's envelope.
type APIResponse[T any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      T         `json:"data"`
	Timestamp Timestamp `json:"timestamp"`
}

type BillSummary struct {
	ID           int64     `json:"id"`
	BillingDate  Timestamp `json:"billingDate"`
	CustomerID   int64     `json:"customerId"`
	CustomerName string    `json:"customerName"`
	ItemCount    int       `json:"itemCount"`
	TotalAmount  float64   `json:"totalAmount"`
}

type BillDetail struct {
	ID           int64         `json:"id"`
	BillingDate  Timestamp     `json:"billingDate"`
	CustomerID   int64         `json:"customerId"`
	Customer     *Customer     `json:"customer,omitempty"`
	ProductItems []ProductItem `json:"productItems"`
	Subtotal     float64       `json:"subtotal"`
	Tax          float64       `json:"tax"`
	TotalAmount  float64       `json:"totalAmount"`
}

type ProductItem struct {
	ID         int64    `json:"id"`
	ProductID  int64    `json:"productId"`
	Product    *Product `json:"product,omitempty"`
	Quantity   int      `json:"quantity"`
	Price      float64  `json:"price"`
	TotalPrice float64  `json:"totalPrice"`
}

// CreateBill is the body of a new bill.
type CreateBill struct {
	CustomerID   int64               `json:"customerId"`
	ProductItems []CreateProductItem `json:"productItems"`
}

type CreateProductItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

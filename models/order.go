package models

import (
	"time"

	"github.com/novamart/novamartbackend/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderItem is a frozen copy of the product at purchase time. Later product
// edits must not alter historical orders, so nothing here is a live reference
// except the ProductID kept for traceability.
type OrderItem struct {
	ProductID bson.ObjectID `bson:"productId" json:"productId"`
	Name      string        `bson:"name" json:"name"`
	Image     string        `bson:"image,omitempty" json:"image,omitempty"`
	Category  string        `bson:"category,omitempty" json:"category,omitempty"`
	Price     float64       `bson:"price" json:"price"`
	Quantity  int           `bson:"quantity" json:"quantity"`
	Variant   *CartVariant  `bson:"variant,omitempty" json:"variant,omitempty"`
}

// ShippingAddress is an address snapshot, not a live Address reference.
type ShippingAddress struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

type AdminNote struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	AuthorID    bson.ObjectID `bson:"authorId" json:"authorId"`
	AuthorEmail string        `bson:"authorEmail" json:"authorEmail"`
	Content     string        `bson:"content" json:"content"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}

type Order struct {
	ID              bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Number          string          `bson:"number" json:"number"`
	UserID          bson.ObjectID   `bson:"user" json:"user"`
	CustomerName    string          `bson:"customerName" json:"customerName"`
	CustomerEmail   string          `bson:"customerEmail" json:"customerEmail"`
	Items           []OrderItem     `bson:"items" json:"items"`
	Total           float64         `bson:"total" json:"total"`
	Status          OrderStatus     `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus   `bson:"paymentStatus" json:"paymentStatus"`
	PaymentProvider string          `bson:"paymentProvider,omitempty" json:"paymentProvider,omitempty"`
	ShippingAddress ShippingAddress `bson:"shippingAddress" json:"shippingAddress"`
	Notes           []AdminNote     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// ComputeTotal sums price x quantity over the line items. When the sum comes
// out zero (an empty item list), the client-supplied total is used instead;
// a final total of zero is rejected. The stored total is frozen at creation
// and never recomputed from current product prices.
func ComputeTotal(items []OrderItem, clientTotal float64) (float64, error) {
	var computed float64
	for _, item := range items {
		computed += item.Price * float64(item.Quantity)
	}
	if computed == 0 {
		computed = clientTotal
	}
	if computed == 0 {
		return 0, apperr.Validation("order total is required")
	}
	return computed, nil
}

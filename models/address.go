package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Address belongs to one user. At most one address per user carries
// isDefault=true; the controllers enforce this by unsetting every other
// default before setting a new one (best-effort, not a store constraint).
type Address struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     bson.ObjectID `bson:"user" json:"user"`
	FullName   string        `bson:"fullName" json:"fullName"`
	Phone      string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Line1      string        `bson:"line1" json:"line1"`
	Line2      string        `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string        `bson:"city" json:"city"`
	State      string        `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string        `bson:"postalCode" json:"postalCode"`
	Country    string        `bson:"country" json:"country"`
	IsDefault  bool          `bson:"isDefault" json:"isDefault"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Snapshot freezes the address for storage on an order.
func (a *Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

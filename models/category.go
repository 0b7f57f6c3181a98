package models

import "go.mongodb.org/mongo-driver/v2/bson"

type CatalogStatus string

const (
	CatalogStatusActive   CatalogStatus = "active"
	CatalogStatusInactive CatalogStatus = "inactive"
)

type Category struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string        `bson:"name" json:"name"`
	Slug     string        `bson:"slug" json:"slug"`
	Status   CatalogStatus `bson:"status" json:"status"`
	ImageURL string        `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`

	// Recomputed when categories are listed, never maintained by product writes.
	ProductCount int64 `bson:"-" json:"productCount"`
}

type Brand struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string        `bson:"name" json:"name"`
	Slug    string        `bson:"slug" json:"slug"`
	Status  CatalogStatus `bson:"status" json:"status"`
	LogoURL string        `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`

	// Slug of the one category this brand belongs to. Not a foreign key.
	Category string `bson:"category" json:"category"`

	ProductCount int64 `bson:"-" json:"productCount"`
}

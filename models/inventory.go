package models

import (
	"database/sql"
	"strconv"
	"strings"
)

// Item is one row of the Item table, as read by the storage layer.
// Nullable columns keep their NULL-ness so the catalog can emit null.
type Item struct {
	ID            int64           `db:"id"`
	InventoryCode string          `db:"inventory_code"`
	CategoryID    sql.NullInt64   `db:"category_id"`
	ItemName      sql.NullString  `db:"item_name"`
	Brand         sql.NullString  `db:"brand"`
	ModelNumber   sql.NullString  `db:"model_number"`
	SerialNumber  sql.NullString  `db:"serial_number"`
	Quantity      sql.NullInt64   `db:"quantity_on_hand"`
	Location      sql.NullString  `db:"location"`
	Condition     sql.NullString  `db:"condition"`
	SalePrice     sql.NullFloat64 `db:"sale_price"`
	Notes         sql.NullString  `db:"notes"`
	CreatedAt     sql.NullString  `db:"created_at"`
	UpdatedAt     sql.NullString  `db:"updated_at"`
}

// Category is a row of the Category table.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ParsedLocation is the structured form of a free-text location string.
// Country is always set and serialized first. City and State are nil when
// the parser never assigned them; an assigned empty string is kept.
type ParsedLocation struct {
	Country string  `json:"country"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Region  string  `json:"region,omitempty"`
}

// AssetMatch lists the images found for an item, relative to the repository
// root, and the name of the folder they came from ("" when none matched).
type AssetMatch struct {
	Images     []string
	FolderName string
}

// CatalogItem is the denormalized record the front-end renders.
// Field order is the serialized key order.
type CatalogItem struct {
	Code           string         `json:"code"`
	Title          string         `json:"title"`
	Category       string         `json:"category"`
	CategoryID     *int64         `json:"categoryId"`
	Manufacturer   string         `json:"manufacturer"`
	Brand          *string        `json:"brand"`
	ModelNumber    *string        `json:"modelNumber"`
	SerialNumber   *string        `json:"serialNumber"`
	Location       string         `json:"location"`
	LocationParsed ParsedLocation `json:"locationParsed"`
	Price          *Price         `json:"price"`
	Currency       string         `json:"currency"`
	Condition      *string        `json:"condition"`
	Quantity       *int64         `json:"quantity"`
	Description    string         `json:"description"`
	Images         []string       `json:"images"`
	ImageFolder    string         `json:"imageFolder"`
}

// Catalog is the exported document.
type Catalog struct {
	Items         []CatalogItem `json:"items"`
	Categories    []Category    `json:"categories"`
	Manufacturers []string      `json:"manufacturers"`
	Locations     []string      `json:"locations"`
}

// Price is a float that always serializes with a fractional part or an
// exponent (1500 is written as 1500.0), matching what the catalog consumers
// have always received.
type Price float64

func (p Price) MarshalJSON() ([]byte, error) {
	f := float64(p)
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return []byte(strconv.FormatFloat(f, 'e', -1, 64)), nil
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return []byte(s), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// NullableString returns a pointer to the value, or nil when NULL.
func NullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// NullableInt returns a pointer to the value, or nil when NULL.
func NullableInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}

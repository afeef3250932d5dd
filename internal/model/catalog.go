package model

import "strings"

// Positioned lo implementan los elementos del catálogo que se ordenan y
// se pueden desactivar desde el back-office.
type Positioned interface {
	SortKey() int
	IsActive() bool
}

func isActive(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == "" || s == "active"
}

type Category struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	Image        string    `json:"image,omitempty"`
	Status       string    `json:"status,omitempty"`
	DisplayOrder int       `json:"display_order,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

func (c Category) SortKey() int   { return c.DisplayOrder }
func (c Category) IsActive() bool { return isActive(c.Status) }

type Product struct {
	ID         ID        `json:"id"`
	Name       string    `json:"name"`
	CategoryID ID        `json:"category_id,omitempty"`
	Price      Number    `json:"price"`
	MRP        Number    `json:"mrp"`
	Unit       string    `json:"unit,omitempty"`
	Image      string    `json:"image,omitempty"`
	Status     string    `json:"status,omitempty"`
	Position   int       `json:"position,omitempty"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

func (p Product) SortKey() int   { return p.Position }
func (p Product) IsActive() bool { return isActive(p.Status) }

type Offer struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	Discount  Number    `json:"discount"`
	Status    string    `json:"status,omitempty"`
	Position  int       `json:"position,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

func (o Offer) SortKey() int   { return o.Position }
func (o Offer) IsActive() bool { return isActive(o.Status) }

type Banner struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	Link      string    `json:"link,omitempty"`
	Status    string    `json:"status,omitempty"`
	Position  int       `json:"position,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

func (b Banner) SortKey() int   { return b.Position }
func (b Banner) IsActive() bool { return isActive(b.Status) }

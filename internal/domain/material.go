package domain

import "time"

// Material is a rentable product (skis, boots, helmets...) with an optional daily price.
type Material struct {
	ID          int32      `json:"id"`
	CategoryID  int32      `json:"category_id"`
	Name        string     `json:"name" validate:"required,max=120"`
	Brand       string     `json:"brand,omitempty"`
	Model       string     `json:"model,omitempty"`
	Description string     `json:"description,omitempty"`
	Price       *float64   `json:"price" validate:"omitempty,gte=0"` // per day; nil when the material is not priced
	Active      bool       `json:"active"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedOn   time.Time  `json:"created_on"`
	UpdatedOn   *time.Time `json:"updated_on,omitempty"`
}

// UnitPrice returns the per-day price, treating an unpriced material as free.
func (m Material) UnitPrice() float64 {
	if m.Price == nil {
		return 0
	}
	return *m.Price
}

// MaterialPatch carries a partial update; nil fields are left untouched.
type MaterialPatch struct {
	CategoryID  *int32   `json:"category_id,omitempty"`
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Brand       *string  `json:"brand,omitempty"`
	Model       *string  `json:"model,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Active      *bool    `json:"active,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// Apply copies the set fields of p onto m.
func (p MaterialPatch) Apply(m *Material) {
	if p.CategoryID != nil {
		m.CategoryID = *p.CategoryID
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Brand != nil {
		m.Brand = *p.Brand
	}
	if p.Model != nil {
		m.Model = *p.Model
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Price != nil {
		price := *p.Price
		m.Price = &price
	}
	if p.Active != nil {
		m.Active = *p.Active
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
}

type Category struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

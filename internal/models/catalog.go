package models

import "time"

// Brand is the root of the brand → category → model catalog hierarchy that
// constrains equipment selection in the radio form.
type Brand struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category belongs to exactly one brand.
type Category struct {
	ID          string    `json:"id"`
	BrandID     string    `json:"brand_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Model belongs to exactly one category.
type Model struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BrandFormData struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type CategoryFormData struct {
	BrandID     string  `json:"brand_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type ModelFormData struct {
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CatalogStats are the catalog totals shown on the brands page.
type CatalogStats struct {
	TotalBrands     int `json:"total_brands"`
	TotalCategories int `json:"total_categories"`
	TotalModels     int `json:"total_models"`
}

// DashboardStats is the aggregate served to the dashboard page.
type DashboardStats struct {
	TotalRadios         int            `json:"total_radios"`
	PortableRadios      int            `json:"portable_radios"`
	MobileRadios        int            `json:"mobile_radios"`
	BaseRadios          int            `json:"base_radios"`
	TotalAccessories    int            `json:"total_accessories"`
	RecentInstallations []Installation `json:"recent_installations"`
	RecentIssues        []Issue        `json:"recent_issues"`
	RecentRegistrations []Radio        `json:"recent_registrations"`
}

package models

import (
	_ "embed"
)

// AllCategories is the pseudo-category that disables filtering.
const AllCategories = "Todos"

// ProductCatalogYAML is the embedded store catalog.
//
//go:embed catalog/products.yaml
var ProductCatalogYAML []byte

// Product is an item of the community store.
type Product struct {
	Slug           string  `yaml:"slug" json:"slug"`
	Name           string  `yaml:"name" json:"name"`
	Description    string  `yaml:"description" json:"description"`
	Price          float64 `yaml:"price" json:"price"`
	FormattedPrice string  `yaml:"-" json:"formatted_price"`
	Image          string  `yaml:"image" json:"image"`
	Category       string  `yaml:"category" json:"category"`
	Rating         float64 `yaml:"rating" json:"rating"`
	InStock        bool    `yaml:"in_stock" json:"in_stock"`
}

package services

import (
	"fmt"
	"sort"
	"strings"

	"trilha-do-cristo/models"

	"github.com/gosimple/slug"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// StoreService serves the read-only product catalog of the community store.
type StoreService struct {
	products []models.Product
	bySlug   map[string]int
}

// NewStoreService parses a YAML catalog, assigning slugs and pt-BR prices.
func NewStoreService(catalog []byte) (*StoreService, error) {
	var doc struct {
		Products []models.Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(catalog, &doc); err != nil {
		return nil, fmt.Errorf("parse product catalog: %w", err)
	}

	printer := message.NewPrinter(language.BrazilianPortuguese)
	s := &StoreService{bySlug: make(map[string]int, len(doc.Products))}
	for _, p := range doc.Products {
		if p.Slug == "" {
			p.Slug = slug.Make(p.Name)
		}
		if _, dup := s.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate product slug %q", p.Slug)
		}
		p.FormattedPrice = printer.Sprintf("R$ %.2f", p.Price)
		s.bySlug[p.Slug] = len(s.products)
		s.products = append(s.products, p)
	}
	return s, nil
}

// Products lists the catalog, filtered by category unless it is empty or "Todos".
func (s *StoreService) Products(category string) []models.Product {
	category = strings.TrimSpace(category)
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || category == models.AllCategories || strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

func (s *StoreService) Product(productSlug string) (models.Product, error) {
	i, ok := s.bySlug[productSlug]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return s.products[i], nil
}

// Categories returns "Todos" followed by the distinct categories, sorted.
func (s *StoreService) Categories() []string {
	seen := map[string]bool{}
	var cats []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return append([]string{models.AllCategories}, cats...)
}

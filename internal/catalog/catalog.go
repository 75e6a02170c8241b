// Package catalog holds the immutable product catalog of the storefront:
// products, categories, promotional banners and subscription plans.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Product is a catalog entry. Price is held in minor currency units.
type Product struct {
	ID              int    `koanf:"id" json:"id"`
	Name            string `koanf:"name" json:"name"`
	Description     string `koanf:"description" json:"description"`
	Price           int64  `koanf:"price" json:"price"`
	Image           string `koanf:"image" json:"image"`
	Category        string `koanf:"category" json:"category"`
	DefaultQuantity string `koanf:"defaultQuantity" json:"defaultQuantity"`
	Discount        string `koanf:"discount" json:"discount,omitempty"`
}

type Category struct {
	ID   string `koanf:"id" json:"id"`
	Name string `koanf:"name" json:"name"`
}

type Banner struct {
	ID         int    `koanf:"id" json:"id"`
	Title      string `koanf:"title" json:"title"`
	Subtitle   string `koanf:"subtitle" json:"subtitle"`
	Image      string `koanf:"image" json:"image"`
	ProductIDs []int  `koanf:"productIds" json:"productIds"`
}

// Frequency is the delivery cadence of a subscription plan.
type Frequency string

const (
	Daily   Frequency = "Daily"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
)

type PlanProduct struct {
	ID       int    `koanf:"id" json:"id"`
	Name     string `koanf:"name" json:"name"`
	Quantity int    `koanf:"quantity" json:"quantity"`
	Unit     string `koanf:"unit" json:"unit"`
	Price    int64  `koanf:"price" json:"price"`
}

type SubscriptionPlan struct {
	ID            string        `koanf:"id" json:"id"`
	Title         string        `koanf:"title" json:"title"`
	Description   string        `koanf:"description" json:"description"`
	Price         int64         `koanf:"price" json:"price"`
	OriginalPrice int64         `koanf:"originalPrice" json:"originalPrice,omitempty"`
	Unit          string        `koanf:"unit" json:"unit"`
	Image         string        `koanf:"image" json:"image"`
	Category      string        `koanf:"category" json:"category"`
	Discount      string        `koanf:"discount" json:"discount,omitempty"`
	BestValue     bool          `koanf:"bestValue" json:"isBestValue"`
	Frequency     Frequency     `koanf:"frequency" json:"frequency"`
	Products      []PlanProduct `koanf:"products" json:"products"`
}

// Data is the raw content a Catalog is built from.
type Data struct {
	Categories []Category         `koanf:"categories"`
	Products   []Product          `koanf:"products"`
	Banners    []Banner           `koanf:"banners"`
	Plans      []SubscriptionPlan `koanf:"plans"`
}

// Catalog is a read-only view over the storefront's products.
// It is safe for concurrent use since nothing mutates it after construction.
type Catalog struct {
	data     Data
	products map[int]Product
	plans    map[string]SubscriptionPlan
}

// Load builds the catalog shipped with the binary.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}
	var data Data
	if err := k.Unmarshal("", &data); err != nil {
		return nil, fmt.Errorf("error unmarshalling catalog: %w", err)
	}
	return New(data)
}

// New validates data and indexes it by id.
func New(data Data) (*Catalog, error) {
	c := &Catalog{
		products: make(map[int]Product, len(data.Products)),
		plans:    make(map[string]SubscriptionPlan, len(data.Plans)),
	}
	for _, p := range data.Products {
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %d has a negative price", p.ID)
		}
		c.products[p.ID] = p
	}
	for _, p := range data.Plans {
		if _, dup := c.plans[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plan id %q", p.ID)
		}
		c.plans[p.ID] = p
	}
	// the same category may be listed twice in hand-edited fixtures
	seen := make(map[string]bool, len(data.Categories))
	categories := make([]Category, 0, len(data.Categories))
	for _, cat := range data.Categories {
		if seen[cat.ID] {
			continue
		}
		seen[cat.ID] = true
		categories = append(categories, cat)
	}
	data.Categories = categories
	c.data = data
	return c, nil
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []Product {
	return slices.Clone(c.data.Products)
}

// FindByID returns the product with the given id or ErrProductNotFound.
func (c *Catalog) FindByID(id int) (Product, error) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", id, storeerrors.ErrProductNotFound)
	}
	return p, nil
}

// ByCategory returns the products of a category.
// When the category has no products the whole catalog is returned,
// so the home listing is never empty.
func (c *Catalog) ByCategory(category string) []Product {
	var out []Product
	for _, p := range c.data.Products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return c.Products()
	}
	return out
}

// Search matches products whose name contains query, ignoring case.
// An empty query matches nothing.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Product{}
	if q == "" {
		return out
	}
	for _, p := range c.data.Products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Categories() []Category {
	return slices.Clone(c.data.Categories)
}

func (c *Catalog) Banners() []Banner {
	return slices.Clone(c.data.Banners)
}

// BannerProducts resolves the products promoted by a banner, skipping unknown ids.
func (c *Catalog) BannerProducts(bannerID int) []Product {
	out := []Product{}
	for _, b := range c.data.Banners {
		if b.ID != bannerID {
			continue
		}
		for _, id := range b.ProductIDs {
			if p, ok := c.products[id]; ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// Plans returns subscription plans, filtered by frequency when one is given.
func (c *Catalog) Plans(frequency Frequency) []SubscriptionPlan {
	out := []SubscriptionPlan{}
	for _, p := range c.data.Plans {
		if frequency == "" || p.Frequency == frequency {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) FindPlan(id string) (SubscriptionPlan, error) {
	p, ok := c.plans[id]
	if !ok {
		return SubscriptionPlan{}, fmt.Errorf("plan %q: %w", id, storeerrors.ErrPlanNotFound)
	}
	return p, nil
}

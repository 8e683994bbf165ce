// Package catalog holds the static product catalog and the seed order history.
// The catalog is loaded once at startup (from the embedded catalog.yaml or an
// override file) and is read-only afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

var (
	// ErrProductNotFound is returned when a product id is not in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidCatalog is returned when catalog data violates the data model.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Product is an immutable catalog entry.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string // display token (emoji)
	Rating      float64
	Stock       int
}

// Catalog is the read-only set of purchasable products for a session.
type Catalog struct {
	products   []Product
	index      map[int]int
	categories []string
	orders     []Order
}

// rawFile mirrors catalog.yaml. Money and dates are kept as strings so that
// parsing errors carry the offending value.
type rawFile struct {
	Products []rawProduct `yaml:"products"`
	Orders   []rawOrder   `yaml:"orders"`
}

type rawProduct struct {
	ID          int     `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Category    string  `yaml:"category"`
	Image       string  `yaml:"image"`
	Rating      float64 `yaml:"rating"`
	Stock       int     `yaml:"stock"`
}

type rawOrder struct {
	ID     string `yaml:"id"`
	Date   string `yaml:"date"`
	Total  string `yaml:"total"`
	Status string `yaml:"status"`
	Items  int    `yaml:"items"`
}

// Default returns the catalog built from the embedded seed data.
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// LoadFile reads a catalog override from disk. An empty path yields the
// embedded catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML and validates it.
func Parse(data []byte) (*Catalog, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]Product, 0, len(raw.Products))
	for _, rp := range raw.Products {
		price, err := decimal.NewFromString(rp.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d price %q: %v", ErrInvalidCatalog, rp.ID, rp.Price, err)
		}
		products = append(products, Product{
			ID:          rp.ID,
			Name:        rp.Name,
			Description: rp.Description,
			Price:       price,
			Category:    rp.Category,
			Image:       rp.Image,
			Rating:      rp.Rating,
			Stock:       rp.Stock,
		})
	}

	orders := make([]Order, 0, len(raw.Orders))
	for _, ro := range raw.Orders {
		date, err := time.Parse(time.DateOnly, ro.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: order %s date %q: %v", ErrInvalidCatalog, ro.ID, ro.Date, err)
		}
		total, err := decimal.NewFromString(ro.Total)
		if err != nil {
			return nil, fmt.Errorf("%w: order %s total %q: %v", ErrInvalidCatalog, ro.ID, ro.Total, err)
		}
		status, err := ParseOrderStatus(ro.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: order %s: %v", ErrInvalidCatalog, ro.ID, err)
		}
		orders = append(orders, Order{
			ID:        ro.ID,
			Date:      date,
			Total:     total,
			Status:    status,
			ItemCount: ro.Items,
		})
	}

	return New(products, orders)
}

// New builds a catalog from already-decoded records. Products keep the given
// order, which is also the display order.
func New(products []Product, orders []Order) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[int]int, len(products)),
		orders:   append([]Order(nil), orders...),
	}

	seenCategory := make(map[string]bool)
	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", ErrInvalidCatalog, p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
		if !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			c.categories = append(c.categories, p.Category)
		}
	}

	for _, o := range c.orders {
		if o.ItemCount < 0 || o.Total.IsNegative() {
			return nil, fmt.Errorf("%w: order %s has negative values", ErrInvalidCatalog, o.ID)
		}
	}

	return c, nil
}

func validateProduct(p Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: product %d has no name", ErrInvalidCatalog, p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: product %d has negative price", ErrInvalidCatalog, p.ID)
	case p.Stock < 0:
		return fmt.Errorf("%w: product %d has negative stock", ErrInvalidCatalog, p.ID)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: product %d rating %.1f outside [0,5]", ErrInvalidCatalog, p.ID, p.Rating)
	}
	return nil
}

// Products returns the catalog in display order. The slice is a copy.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id int) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Get is Lookup with an error for callers that propagate failures.
func (c *Catalog) Get(id int) (Product, error) {
	p, ok := c.Lookup(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return p, nil
}

// Categories returns the category vocabulary in first-seen order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Orders returns the seed order history.
func (c *Catalog) Orders() []Order {
	return append([]Order(nil), c.orders...)
}

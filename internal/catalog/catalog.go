package catalog

import (
	"fmt"
	"regexp"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Catalog is the validated, read-only set of products.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New validates products and builds a catalog over them.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, product := range products {
		if err := product.validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("product %q", product.ID))
		}
		if _, dup := c.byID[product.ID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate product id %q", product.ID))
		}
		c.byID[product.ID] = len(c.products)
		c.products = append(c.products, product)
	}
	return c, nil
}

// Get returns the product with the given id.
func (c *Catalog) Get(productID string) (*Product, error) {
	idx, ok := c.byID[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q not found", productID))
	}
	product := c.products[idx]
	return &product, nil
}

// List returns every product in declaration order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

func (p *Product) validate() error {
	if !slugPattern.MatchString(p.ID) {
		return fmt.Errorf("id must be a lowercase slug")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("invalid category %q", p.Category)
	}
	if p.BasePrice.IsNegative() {
		return fmt.Errorf("base price must not be negative")
	}

	seen := make(map[string]struct{}, len(p.Options))
	for i := range p.Options {
		opt := &p.Options[i]
		if err := opt.validate(); err != nil {
			return fmt.Errorf("option %q: %w", opt.ID, err)
		}
		if _, dup := seen[opt.ID]; dup {
			return fmt.Errorf("duplicate option %q", opt.ID)
		}
		seen[opt.ID] = struct{}{}
	}

	if p.Category == enums.ProductCategoryGarage {
		if p.GaragePricing == nil {
			return fmt.Errorf("garage products need garage_pricing")
		}
		return p.validateGarage()
	}
	if p.GaragePricing != nil {
		return fmt.Errorf("garage_pricing is only valid for garage products")
	}
	return nil
}

func (p *Product) validateGarage() error {
	gp := p.GaragePricing
	gp.Bindings = gp.Bindings.withDefaults()
	if !gp.BayPrice.IsPositive() {
		return fmt.Errorf("bay price must be positive")
	}

	bayCount, ok := p.Option(gp.Bindings.BayCount)
	if !ok {
		return fmt.Errorf("garage needs a %q option", gp.Bindings.BayCount)
	}
	if bayCount.Type != enums.OptionTypeBoundedNumber || !bayCount.Min.IsPositive() {
		return fmt.Errorf("option %q must be a bounded number starting at 1 or more", bayCount.ID)
	}

	tables := []struct {
		optionID string
		table    map[string]decimal.Decimal
	}{
		{gp.Bindings.BaySize, gp.BaySizeMultipliers},
		{gp.Bindings.Truss, gp.TrussPrices},
		{gp.Bindings.BeamSize, gp.BeamSizePrices},
	}
	for _, entry := range tables {
		opt, ok := p.Option(entry.optionID)
		if !ok {
			return fmt.Errorf("garage needs a %q option", entry.optionID)
		}
		if opt.Type.IsNumeric() {
			return fmt.Errorf("option %q must be a choice", opt.ID)
		}
		for _, choice := range opt.Choices {
			if _, ok := entry.table[choice.Value]; !ok {
				return fmt.Errorf("option %q choice %q has no pricing entry", opt.ID, choice.Value)
			}
		}
	}

	if catSlide, ok := p.Option(gp.Bindings.CatSlide); ok && catSlide.Type != enums.OptionTypeBooleanToggle {
		return fmt.Errorf("option %q must be a boolean toggle", catSlide.ID)
	}
	return nil
}

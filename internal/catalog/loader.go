package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type fileCatalog struct {
	Products []fileProduct `yaml:"products"`
}

type fileProduct struct {
	ID            string             `yaml:"id"`
	Name          string             `yaml:"name"`
	Category      string             `yaml:"category"`
	BasePrice     string             `yaml:"base_price"`
	Options       []fileOption       `yaml:"options"`
	GaragePricing *fileGaragePricing `yaml:"garage_pricing"`
}

type fileOption struct {
	ID           string       `yaml:"id"`
	Label        string       `yaml:"label"`
	Type         string       `yaml:"type"`
	Default      string       `yaml:"default"`
	Choices      []fileChoice `yaml:"choices"`
	Min          string       `yaml:"min"`
	Max          string       `yaml:"max"`
	Step         string       `yaml:"step"`
	PricePerUnit string       `yaml:"price_per_unit"`
}

type fileChoice struct {
	Value           string `yaml:"value"`
	Label           string `yaml:"label"`
	PriceAdjustment string `yaml:"price_adjustment"`
	MediaURL        string `yaml:"media_url"`
}

type fileGaragePricing struct {
	BayPrice            string            `yaml:"bay_price"`
	CatSlidePricePerBay string            `yaml:"cat_slide_price_per_bay"`
	TrussPrices         map[string]string `yaml:"truss_prices"`
	BeamSizePrices      map[string]string `yaml:"beam_size_prices"`
	BaySizeMultipliers  map[string]string `yaml:"bay_size_multipliers"`
	Bindings            struct {
		BayCount string `yaml:"bay_count"`
		BaySize  string `yaml:"bay_size"`
		Truss    string `yaml:"truss"`
		BeamSize string `yaml:"beam_size"`
		CatSlide string `yaml:"cat_slide"`
	} `yaml:"bindings"`
}

// Load reads the catalog at path, falling back to the embedded catalog when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(embeddedCatalog)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("read catalog %s", path))
	}
	return Parse(raw)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Parse decodes and validates a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode catalog")
	}
	if len(doc.Products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog declares no products")
	}

	products := make([]Product, 0, len(doc.Products))
	for _, fp := range doc.Products {
		product, err := fp.build()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return New(products)
}

func (fp fileProduct) build() (Product, error) {
	invalid := func(format string, args ...any) error {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q: ", fp.ID)+fmt.Sprintf(format, args...))
	}

	category, err := enums.ParseProductCategory(fp.Category)
	if err != nil {
		return Product{}, invalid("%v", err)
	}
	base, err := parseMoney(fp.BasePrice, true)
	if err != nil {
		return Product{}, invalid("base_price: %v", err)
	}

	product := Product{
		ID:        fp.ID,
		Name:      fp.Name,
		Category:  category,
		BasePrice: base,
		Options:   make([]Option, 0, len(fp.Options)),
	}
	for _, fo := range fp.Options {
		opt, err := fo.build()
		if err != nil {
			return Product{}, invalid("option %q: %v", fo.ID, err)
		}
		product.Options = append(product.Options, opt)
	}

	if fp.GaragePricing != nil {
		gp, err := fp.GaragePricing.build()
		if err != nil {
			return Product{}, invalid("garage_pricing: %v", err)
		}
		product.GaragePricing = gp
	}
	return product, nil
}

func (fo fileOption) build() (Option, error) {
	optType, err := enums.ParseOptionType(fo.Type)
	if err != nil {
		return Option{}, err
	}
	opt := Option{
		ID:      fo.ID,
		Label:   fo.Label,
		Type:    optType,
		Default: fo.Default,
	}

	if optType.IsNumeric() {
		if len(fo.Choices) > 0 {
			return Option{}, fmt.Errorf("%s options take a range, not choices", optType)
		}
		if opt.Min, err = parseMoney(fo.Min, false); err != nil {
			return Option{}, fmt.Errorf("min: %w", err)
		}
		if opt.Max, err = parseMoney(fo.Max, false); err != nil {
			return Option{}, fmt.Errorf("max: %w", err)
		}
		if opt.Step, err = parseMoney(fo.Step, true); err != nil {
			return Option{}, fmt.Errorf("step: %w", err)
		}
		if opt.PricePerUnit, err = parseMoney(fo.PricePerUnit, true); err != nil {
			return Option{}, fmt.Errorf("price_per_unit: %w", err)
		}
		return opt, nil
	}

	opt.Choices = make([]Choice, 0, len(fo.Choices))
	for _, fc := range fo.Choices {
		adj, err := parseMoney(fc.PriceAdjustment, true)
		if err != nil {
			return Option{}, fmt.Errorf("choice %q price_adjustment: %w", fc.Value, err)
		}
		opt.Choices = append(opt.Choices, Choice{
			Value:           fc.Value,
			Label:           fc.Label,
			PriceAdjustment: adj,
			MediaURL:        fc.MediaURL,
		})
	}
	return opt, nil
}

func (fg fileGaragePricing) build() (*GaragePricing, error) {
	bayPrice, err := parseMoney(fg.BayPrice, false)
	if err != nil {
		return nil, fmt.Errorf("bay_price: %w", err)
	}
	catSlide, err := parseMoney(fg.CatSlidePricePerBay, true)
	if err != nil {
		return nil, fmt.Errorf("cat_slide_price_per_bay: %w", err)
	}
	truss, err := parseTable(fg.TrussPrices)
	if err != nil {
		return nil, fmt.Errorf("truss_prices: %w", err)
	}
	beams, err := parseTable(fg.BeamSizePrices)
	if err != nil {
		return nil, fmt.Errorf("beam_size_prices: %w", err)
	}
	multipliers, err := parseTable(fg.BaySizeMultipliers)
	if err != nil {
		return nil, fmt.Errorf("bay_size_multipliers: %w", err)
	}
	return &GaragePricing{
		BayPrice:            bayPrice,
		CatSlidePricePerBay: catSlide,
		TrussPrices:         truss,
		BeamSizePrices:      beams,
		BaySizeMultipliers:  multipliers,
		Bindings: GarageBindings{
			BayCount: fg.Bindings.BayCount,
			BaySize:  fg.Bindings.BaySize,
			Truss:    fg.Bindings.Truss,
			BeamSize: fg.Bindings.BeamSize,
			CatSlide: fg.Bindings.CatSlide,
		}.withDefaults(),
	}, nil
}

func parseMoney(raw string, optional bool) (decimal.Decimal, error) {
	if raw == "" {
		if optional {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("value is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a decimal", raw)
	}
	return d, nil
}

func parseTable(raw map[string]string) (map[string]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("table is empty")
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]decimal.Decimal, len(raw))
	for _, k := range keys {
		d, err := parseMoney(raw[k], false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = d
	}
	return out, nil
}

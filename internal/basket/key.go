package basket

import (
	"encoding/base64"
	"sort"
	"strings"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
)

const (
	productSeparator = '|'
	pairSeparator    = ';'
	valueSeparator   = ':'
	escapeChar       = '\\'
)

var keyEncoding = base64.RawURLEncoding

// CanonicalKey derives the basket identity of a configured product. Values
// equal to the option default are dropped, so selecting a default explicitly
// and leaving the option untouched produce the same key.
func CanonicalKey(product *catalog.Product, cfg pricing.Configuration) string {
	pairs := make([]pricing.Selection, 0, len(cfg))
	for _, sel := range cfg {
		if opt, ok := product.Option(sel.OptionID); ok && opt.Default == sel.Value {
			continue
		}
		pairs = append(pairs, pricing.Selection{OptionID: sel.OptionID, Value: sel.Value})
	}
	return KeyFor(product.ID, pairs)
}

// KeyFor encodes productID and pairs without consulting the catalog. A
// product with no pairs keys to its bare id.
func KeyFor(productID string, pairs []pricing.Selection) string {
	if len(pairs) == 0 {
		return productID
	}

	sorted := make([]pricing.Selection, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OptionID == sorted[j].OptionID {
			return sorted[i].Value < sorted[j].Value
		}
		return sorted[i].OptionID < sorted[j].OptionID
	})

	var b strings.Builder
	b.WriteString(escapeKeyPart(productID))
	b.WriteByte(productSeparator)
	for i, sel := range sorted {
		if i > 0 {
			b.WriteByte(pairSeparator)
		}
		b.WriteString(escapeKeyPart(sel.OptionID))
		b.WriteByte(valueSeparator)
		b.WriteString(escapeKeyPart(sel.Value))
	}
	return keyEncoding.EncodeToString([]byte(b.String()))
}

// DecodeKey reverses KeyFor. Keys that do not decode to a canonical
// product/pairs string are treated as bare product ids.
func DecodeKey(key string) (string, []pricing.Selection, error) {
	if key == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "item key is required")
	}
	raw, err := keyEncoding.DecodeString(key)
	if err != nil || !strings.ContainsRune(string(raw), productSeparator) {
		// bare product ids are valid keys
		return key, nil, nil
	}

	parts := splitEscaped(string(raw), productSeparator)
	if len(parts) != 2 || parts[0] == "" {
		return key, nil, nil
	}
	productID := unescapeKeyPart(parts[0])

	var pairs []pricing.Selection
	for _, fragment := range splitEscaped(parts[1], pairSeparator) {
		kv := splitEscaped(fragment, valueSeparator)
		if len(kv) != 2 {
			return key, nil, nil
		}
		pairs = append(pairs, pricing.Selection{OptionID: unescapeKeyPart(kv[0]), Value: unescapeKeyPart(kv[1])})
	}
	if KeyFor(productID, pairs) != key {
		return key, nil, nil
	}
	return productID, pairs, nil
}

func escapeKeyPart(s string) string {
	if !strings.ContainsAny(s, `\|;:`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case escapeChar, productSeparator, pairSeparator, valueSeparator:
			b.WriteRune(escapeChar)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unescapeKeyPart(s string) string {
	if !strings.ContainsRune(s, escapeChar) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == escapeChar {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// splitEscaped splits s on unescaped occurrences of sep, leaving escapes in place.
func splitEscaped(s string, sep rune) []string {
	var (
		parts   []string
		current strings.Builder
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == escapeChar:
			escaped = true
		case r == sep:
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	return append(parts, current.String())
}

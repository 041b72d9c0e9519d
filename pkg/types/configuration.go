package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SelectedOption is one resolved option value stored with a basket line.
type SelectedOption struct {
	OptionID        string          `json:"option_id"`
	Value           string          `json:"value"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// ConfigurationSnapshot is the configuration a basket line was priced with,
// persisted as JSONB.
type ConfigurationSnapshot []SelectedOption

// Value serializes the snapshot to JSON text.
func (c ConfigurationSnapshot) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes JSONB into the snapshot.
func (c *ConfigurationSnapshot) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded ConfigurationSnapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*c = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}

package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConfigurationSnapshotValueAndScan(t *testing.T) {
	t.Parallel()

	snapshot := ConfigurationSnapshot{
		{OptionID: "sizeType", Value: "4x4", PriceAdjustment: decimal.NewFromInt(500)},
		{OptionID: "balustrade", Value: "true", PriceAdjustment: decimal.RequireFromString("390.5")},
	}

	raw, err := snapshot.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded ConfigurationSnapshot
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if len(decoded) != 2 || decoded[1].OptionID != "balustrade" {
		t.Fatalf("unexpected snapshot %+v", decoded)
	}
	if !decoded[1].PriceAdjustment.Equal(decimal.RequireFromString("390.5")) {
		t.Fatalf("adjustment lost precision: %s", decoded[1].PriceAdjustment)
	}

	if err := decoded.Scan([]byte(raw.(string))); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if err := decoded.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if err := decoded.Scan(nil); err != nil || decoded != nil {
		t.Fatalf("expected nil snapshot, got %+v (%v)", decoded, err)
	}
}

func TestConfigurationSnapshotNilValue(t *testing.T) {
	t.Parallel()

	var snapshot ConfigurationSnapshot
	raw, err := snapshot.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if raw.(string) != "[]" {
		t.Fatalf("expected empty array, got %s", raw)
	}
}

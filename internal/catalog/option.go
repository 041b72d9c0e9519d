package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	"github.com/shopspring/decimal"
)

// Normalize validates value against the option's constraints and returns its
// canonical spelling. Numbers lose insignificant zeros and booleans become
// "true" or "false", so equal selections always spell the same.
func (o *Option) Normalize(value string) (string, error) {
	value = strings.TrimSpace(value)
	switch o.Type {
	case enums.OptionTypeSingleChoice, enums.OptionTypeExclusiveChoiceMedia:
		if _, ok := o.Choice(value); !ok {
			return "", fmt.Errorf("%q is not one of the permitted choices", value)
		}
		return value, nil
	case enums.OptionTypeBooleanToggle:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%q is not a boolean", value)
		}
		canonical := strconv.FormatBool(b)
		if _, ok := o.Choice(canonical); !ok {
			return "", fmt.Errorf("%q is not permitted", canonical)
		}
		return canonical, nil
	case enums.OptionTypeContinuousRange, enums.OptionTypeBoundedNumber:
		n, err := decimal.NewFromString(value)
		if err != nil {
			return "", fmt.Errorf("%q is not a number", value)
		}
		if o.Type == enums.OptionTypeBoundedNumber && !n.IsInteger() {
			return "", fmt.Errorf("%s must be a whole number", n)
		}
		if n.LessThan(o.Min) || n.GreaterThan(o.Max) {
			return "", fmt.Errorf("%s is outside %s..%s", n, o.Min, o.Max)
		}
		if o.Step.IsPositive() && !n.Sub(o.Min).Mod(o.Step).IsZero() {
			return "", fmt.Errorf("%s is not a multiple of %s from %s", n, o.Step, o.Min)
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("unsupported option type %q", o.Type)
	}
}

// Adjustment returns the price contribution of an already normalized value.
func (o *Option) Adjustment(value string) decimal.Decimal {
	if o.Type.IsNumeric() {
		n, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero
		}
		return n.Mul(o.PricePerUnit)
	}
	if choice, ok := o.Choice(value); ok {
		return choice.PriceAdjustment
	}
	return decimal.Zero
}

func (o *Option) validate() error {
	if o.ID == "" {
		return fmt.Errorf("option id is required")
	}
	if !o.Type.IsValid() {
		return fmt.Errorf("invalid option type %q", o.Type)
	}

	if o.Type.IsNumeric() {
		if o.Min.GreaterThan(o.Max) {
			return fmt.Errorf("min %s exceeds max %s", o.Min, o.Max)
		}
		if o.Step.IsNegative() {
			return fmt.Errorf("step must not be negative")
		}
		if o.Type == enums.OptionTypeBoundedNumber {
			if !o.Min.IsInteger() || !o.Max.IsInteger() || !o.Step.IsInteger() {
				return fmt.Errorf("bounded numbers need whole-number bounds and step")
			}
		}
		if o.Default == "" {
			o.Default = o.Min.String()
		}
	} else {
		if o.Type == enums.OptionTypeBooleanToggle && len(o.Choices) == 0 {
			o.Choices = []Choice{{Value: "false", Label: "No"}, {Value: "true", Label: "Yes"}}
		}
		if o.Type == enums.OptionTypeBooleanToggle && o.Default == "" {
			o.Default = "false"
		}
		if len(o.Choices) == 0 {
			return fmt.Errorf("at least one choice is required")
		}
		seen := make(map[string]struct{}, len(o.Choices))
		for _, choice := range o.Choices {
			if choice.Value == "" {
				return fmt.Errorf("choice value is required")
			}
			if _, dup := seen[choice.Value]; dup {
				return fmt.Errorf("duplicate choice %q", choice.Value)
			}
			seen[choice.Value] = struct{}{}
		}
		if o.Type == enums.OptionTypeExclusiveChoiceMedia {
			for _, choice := range o.Choices {
				if choice.MediaURL == "" {
					return fmt.Errorf("choice %q needs a media_url", choice.Value)
				}
			}
		}
		if o.Default == "" {
			o.Default = o.Choices[0].Value
		}
	}

	canonical, err := o.Normalize(o.Default)
	if err != nil {
		return fmt.Errorf("default: %w", err)
	}
	o.Default = canonical
	return nil
}

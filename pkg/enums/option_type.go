package enums

import "fmt"

// OptionType describes how a configurable option constrains its values.
type OptionType string

const (
	OptionTypeSingleChoice         OptionType = "single_choice"
	OptionTypeExclusiveChoiceMedia OptionType = "exclusive_choice_media"
	OptionTypeContinuousRange      OptionType = "continuous_range"
	OptionTypeBooleanToggle        OptionType = "boolean_toggle"
	OptionTypeBoundedNumber        OptionType = "bounded_number"
)

var validOptionTypes = []OptionType{
	OptionTypeSingleChoice,
	OptionTypeExclusiveChoiceMedia,
	OptionTypeContinuousRange,
	OptionTypeBooleanToggle,
	OptionTypeBoundedNumber,
}

// String implements fmt.Stringer.
func (t OptionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OptionType.
func (t OptionType) IsValid() bool {
	for _, candidate := range validOptionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsNumeric reports whether values of this type are numbers rather than enumerated choices.
func (t OptionType) IsNumeric() bool {
	return t == OptionTypeContinuousRange || t == OptionTypeBoundedNumber
}

// ParseOptionType converts raw input into an OptionType.
func ParseOptionType(value string) (OptionType, error) {
	for _, candidate := range validOptionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid option type %q", value)
}

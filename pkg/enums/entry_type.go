package enums

import "fmt"

// EntryType classifies a financial ledger posting.
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

var validEntryTypes = []EntryType{
	EntryTypeIncome,
	EntryTypeExpense,
}

// String implements fmt.Stringer.
func (e EntryType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntryType.
func (e EntryType) IsValid() bool {
	for _, candidate := range validEntryTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntryType converts raw input into an EntryType.
func ParseEntryType(value string) (EntryType, error) {
	for _, candidate := range validEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entry type %q", value)
}

package enums

import "fmt"

// BinType classifies a storage location.
type BinType string

const (
	BinTypeShelf  BinType = "shelf"
	BinTypePallet BinType = "pallet"
	BinTypeFloor  BinType = "floor"
)

var validBinTypes = []BinType{
	BinTypeShelf,
	BinTypePallet,
	BinTypeFloor,
}

// String implements fmt.Stringer.
func (b BinType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BinType.
func (b BinType) IsValid() bool {
	for _, candidate := range validBinTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBinType converts raw input into a BinType.
func ParseBinType(value string) (BinType, error) {
	for _, candidate := range validBinTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bin type %q", value)
}

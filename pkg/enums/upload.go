package enums

import "fmt"

// UploadKind constrains which MIME types an upload may carry.
type UploadKind string

const (
	UploadKindImage    UploadKind = "image"
	UploadKindDocument UploadKind = "document"
)

var validUploadKinds = []UploadKind{
	UploadKindImage,
	UploadKindDocument,
}

// String implements fmt.Stringer.
func (v UploadKind) String() string {
	return string(v)
}

// IsValid reports whether the value is a known UploadKind.
func (v UploadKind) IsValid() bool {
	for _, candidate := range validUploadKinds {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseUploadKind converts raw input into a UploadKind.
func ParseUploadKind(value string) (UploadKind, error) {
	for _, candidate := range validUploadKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upload kind %q", value)
}

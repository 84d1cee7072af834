package enums

import "fmt"

// MediaKind distinguishes how an attachment was sent and must be re-sent.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindFile  MediaKind = "file"
)

var validMediaKinds = []MediaKind{
	MediaKindImage,
	MediaKindFile,
}

// String implements fmt.Stringer.
func (m MediaKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MediaKind.
func (m MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// Alternate returns the other kind, used when delivery as m fails.
func (m MediaKind) Alternate() MediaKind {
	if m == MediaKindFile {
		return MediaKindImage
	}
	return MediaKindFile
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}

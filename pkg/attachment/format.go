package attachment

import (
	"fmt"

	// Packages
	units "github.com/docker/go-units"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// HumanSize formats a byte count in decimal units, for example "1.5MB"
func HumanSize(bytes int64) string {
	return units.HumanSize(float64(bytes))
}

// BinarySize formats a byte count in binary units, for example "1.5MiB"
func BinarySize(bytes int64) string {
	return units.BytesSize(float64(bytes))
}

// FormatSize formats a byte count with the formatter. Without a formatter
// the literal byte count is returned.
func FormatSize(bytes int64, format SizeFormatter) string {
	if format == nil {
		return fmt.Sprintf("%d bytes", bytes)
	}
	return format(bytes)
}

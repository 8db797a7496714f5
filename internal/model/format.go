package model

import "fmt"

// Decimal size units
const (
	KB = 1_000
	MB = 1_000 * KB
	GB = 1_000 * MB
	TB = 1_000 * GB
)

// FormatSize formats bytes using the largest decimal unit the value
// reaches, e.g. "999 B", "1.50 KB", "3.20 GB".
func FormatSize(bytes int64) string {
	negative := bytes < 0
	if negative {
		bytes = -bytes
	}

	var result string
	switch {
	case bytes >= TB:
		result = fmt.Sprintf("%.2f TB", float64(bytes)/TB)
	case bytes >= GB:
		result = fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		result = fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		result = fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		result = fmt.Sprintf("%d B", bytes)
	}

	if negative {
		return "-" + result
	}
	return result
}

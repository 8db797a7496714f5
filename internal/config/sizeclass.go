package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSizeClass is returned for an unknown summary size
var ErrInvalidSizeClass = errors.New("invalid size class")

// SizeClass is the footprint of the volume summary view
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
	SizeAll    SizeClass = "all"
)

// Limit returns how many volumes the size class shows. 0 means no limit.
func (c SizeClass) Limit() int {
	switch c {
	case SizeSmall:
		return 1
	case SizeMedium:
		return 4
	case SizeLarge:
		return 8
	default:
		return 0
	}
}

// ParseSizeClass converts a flag value into a SizeClass
func ParseSizeClass(s string) (SizeClass, error) {
	switch c := SizeClass(strings.ToLower(s)); c {
	case SizeSmall, SizeMedium, SizeLarge, SizeAll:
		return c, nil
	}
	return "", fmt.Errorf("%w %q (want small, medium, large or all)", ErrInvalidSizeClass, s)
}

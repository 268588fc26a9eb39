// Package bytesize parses and formats request body limits such as "16MiB".
package bytesize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Binary multiples. "MB" and "MiB" both mean 1<<20 here; nobody sizes an
// upload cap in powers of ten.
const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
	GiB int64 = 1 << 30
)

var suffixes = []struct {
	names []string
	mult  int64
}{
	{[]string{"GIB", "GB", "G"}, GiB},
	{[]string{"MIB", "MB", "M"}, MiB},
	{[]string{"KIB", "KB", "K"}, KiB},
	{[]string{"B"}, 1},
}

// Parse reads a size like "512", "64KiB", "16MB" or "1.5G".
// A bare number is a count of bytes.
func Parse(s string) (int64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	mult := int64(1)
	num := s
found:
	for _, sfx := range suffixes {
		for _, name := range sfx.names {
			if v, ok := strings.CutSuffix(s, name); ok {
				mult, num = sfx.mult, strings.TrimSpace(v)
				break found
			}
		}
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", raw, err)
	}
	if value < 0 || math.IsNaN(value) {
		return 0, fmt.Errorf("invalid size %q: must not be negative", raw)
	}

	result := value * float64(mult)
	if result >= math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", raw)
	}
	return int64(result), nil
}

// Format renders n with the largest binary unit that divides it evenly.
func Format(n int64) string {
	switch {
	case n >= GiB && n%GiB == 0:
		return strconv.FormatInt(n/GiB, 10) + "GiB"
	case n >= MiB && n%MiB == 0:
		return strconv.FormatInt(n/MiB, 10) + "MiB"
	case n >= KiB && n%KiB == 0:
		return strconv.FormatInt(n/KiB, 10) + "KiB"
	default:
		return strconv.FormatInt(n, 10) + "B"
	}
}

package providers

import (
	"math"
	"strconv"
	"strings"
)

// ParseCount liest Zählerangaben wie "1,234 views", "1.2M" oder "15K".
func ParseCount(s string) int64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	switch rest := strings.TrimSpace(s[end:]); {
	case strings.HasPrefix(rest, "k"):
		n *= 1e3
	case strings.HasPrefix(rest, "m"):
		n *= 1e6
	case strings.HasPrefix(rest, "b"):
		n *= 1e9
	}
	n = math.Round(n)
	if n >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

package utils

import (
	"math"
	"strings"
	"time"
)

func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TrimmedPtr returns nil for blank input so optional columns are stored as NULL.
func TrimmedPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizePtr trims a pointed-to string and maps blank values to nil.
func NormalizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	return TrimmedPtr(*s)
}

func RoundFloat64(f float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(f*factor) / factor
}

// Package util provides helpers for reading the environment and normalizing
// the loosely formatted values found in organization records.
//
//revive:disable-next-line:var-naming
package util

import (
	"math"
	"os"
	"strconv"
	"strings"
)

// Missing is the single display token used for absent optional values
const Missing = "N/A"

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// IsNALike reports whether a raw value is a placeholder for "no value"
func IsNALike(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null", "n/a":
		return true
	}
	return false
}

// CleanValue trims a raw value and maps placeholders to the empty string
func CleanValue(s string) string {
	if IsNALike(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// DisplayOrMissing returns the cleaned value or the Missing token
func DisplayOrMissing(s string) string {
	return DisplayOr(s, Missing)
}

// DisplayOr returns the cleaned value or the given fallback
func DisplayOr(s, fallback string) string {
	if v := CleanValue(s); v != "" {
		return v
	}
	return fallback
}

// WebsiteHref returns a link target for a website value, adding https:// when the scheme is missing.
// The boolean is false when the value is a placeholder.
func WebsiteHref(website string) (string, bool) {
	w := CleanValue(website)
	if w == "" {
		return "", false
	}
	if strings.HasPrefix(w, "http://") || strings.HasPrefix(w, "https://") {
		return w, true
	}
	return "https://" + w, true
}

// ParseCoordinate parses a coordinate, returning nil for placeholders and non-finite values
func ParseCoordinate(raw string) *float64 {
	v := CleanValue(raw)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// NormalizeZipcode renders float-formatted zipcodes ("22030.0") as integers
func NormalizeZipcode(raw string) string {
	v := CleanValue(raw)
	if v == "" {
		return ""
	}
	if !strings.Contains(v, ".") {
		return v
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return v
}

// SplitList splits a comma separated value, trimming entries and dropping empty ones
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

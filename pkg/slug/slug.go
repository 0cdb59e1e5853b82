package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from name. Accents are stripped by
// decomposing to NFD and dropping combining marks, "&" reads as "and", and
// every other run of non-alphanumerics becomes a single hyphen.
//
//	"Banarasi Silk Saree"    → "banarasi-silk-saree"
//	"Kurtas & Kurtis"        → "kurtas-and-kurtis"
//	"Crêpe Dupatta (Rosé)"   → "crepe-dupatta-rose"
func Generate(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	s := strings.ToLower(strings.TrimSpace(folded))
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return validSlug.MatchString(s)
}

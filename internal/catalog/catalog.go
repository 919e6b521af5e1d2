// Package catalog holds the small pieces of catalog logic shared by the
// store and the handlers: slug generation and the fuzzy category matcher.
package catalog

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// Slug converts a display name into a URL-safe identifier.
// "Velvet Matte Lipstick" -> "velvet-matte-lipstick"
//
// Symbols become separators before slug.Make sees them, so "&" and "@" are
// dropped rather than spelled out. Accented letters are still transliterated.
func Slug(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, name)
	return slug.Make(strings.TrimSpace(cleaned))
}

// synonyms maps a requested category to product category names that should
// also be listed under it. Keys and values are lowercase.
var synonyms = map[string][]string{
	"beauty":    {"makeup", "skincare", "skin", "face", "facial", "lips", "eyes", "nails", "fragrance", "haircare"},
	"skincare":  {"skin", "face", "facial"},
	"skin":      {"skincare", "face", "facial"},
	"face":      {"skincare", "skin", "facial", "makeup"},
	"facial":    {"skincare", "skin", "face"},
	"makeup":    {"cosmetics", "lips", "eyes", "face"},
	"cosmetics": {"makeup"},
	"haircare":  {"hair"},
	"hair":      {"haircare"},
	"fragrance": {"perfume", "perfumes"},
	"perfume":   {"fragrance"},
	"bodycare":  {"body", "bath"},
	"body":      {"bodycare", "bath"},
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Matches reports whether a product whose category text is productCategory
// belongs under the requested category. Checks run in order: exact match,
// substring in either direction, then the synonym table.
func Matches(productCategory, requested string) bool {
	p := normalize(productCategory)
	r := normalize(requested)
	if p == "" || r == "" {
		return false
	}

	// 1. Exact
	if p == r {
		return true
	}

	// 2. Substring either direction ("skin care" vs "skincare" collapses here too)
	if strings.Contains(p, r) || strings.Contains(r, p) {
		return true
	}
	pc := strings.ReplaceAll(p, " ", "")
	rc := strings.ReplaceAll(r, " ", "")
	if strings.Contains(pc, rc) || strings.Contains(rc, pc) {
		return true
	}

	// 3. Synonyms
	for _, syn := range synonyms[rc] {
		if pc == syn || strings.Contains(pc, syn) {
			return true
		}
	}
	return false
}

// Filter keeps the items whose category matches requested.
func Filter[T any](items []T, requested string, category func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(category(it), requested) {
			out = append(out, it)
		}
	}
	return out
}

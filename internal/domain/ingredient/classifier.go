// Package ingredient classifies free-text ingredient strings coming back
// from the language model and collapses duplicates before they reach the
// shopping list.
//
// Classification is a keyword heuristic: the lower-cased text is searched for
// substrings, and the first rule that matches decides the category. Matching
// is deliberately loose, so "buttermilk" is Dairy and "eggplant" is treated as
// needing the fridge.
package ingredient

import (
	"regexp"
	"strings"

	"github.com/sousa/mealplan/internal/domain/pantry"
)

type rule struct {
	pattern  *regexp.Regexp
	category pantry.Category
}

// Rules are evaluated in order; the first match wins.
var categoryRules = []rule{
	{regexp.MustCompile(`milk|cheese|yogurt|butter|cream`), pantry.CategoryDairy},
	{regexp.MustCompile(`lettuce|tomato|carrot|onion|pepper|vegetable|fruit`), pantry.CategoryProduce},
	{regexp.MustCompile(`chicken|beef|pork|fish|meat`), pantry.CategoryMeat},
}

var coldPattern = regexp.MustCompile(`milk|cheese|yogurt|butter|cream|meat|chicken|beef|pork|fish|egg`)

// Categorize maps an ingredient to a pantry category, defaulting to Pantry.
func Categorize(s string) pantry.Category {
	lower := strings.ToLower(s)
	for _, r := range categoryRules {
		if r.pattern.MatchString(lower) {
			return r.category
		}
	}
	return pantry.CategoryPantry
}

// IsRefrigerated reports whether the ingredient should be kept cold.
func IsRefrigerated(s string) bool {
	return coldPattern.MatchString(strings.ToLower(s))
}

// Classification is the result of running both heuristics on one string
type Classification struct {
	Name     string
	Category pantry.Category
	Cold     bool
}

// Classify trims the ingredient and classifies it
func Classify(s string) Classification {
	name := strings.TrimSpace(s)
	return Classification{
		Name:     name,
		Category: Categorize(name),
		Cold:     IsRefrigerated(name),
	}
}

// Dedupe returns the distinct ingredients in first-seen order. Entries are
// compared exactly after trimming; blank entries are dropped.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ClassifyAll dedupes then classifies a batch of ingredients
func ClassifyAll(items []string) []Classification {
	unique := Dedupe(items)
	out := make([]Classification, len(unique))
	for i, item := range unique {
		out[i] = Classify(item)
	}
	return out
}

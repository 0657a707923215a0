package assistant

import (
	"strings"

	"github.com/sousa/mealplan/internal/domain/profile"
)

const planSystemPrompt = "You are a helpful meal planning assistant. Always respond with valid JSON only, no markdown or extra text."

// recipeSystemPrompt personalizes the assistant with the user's onboarding
// answers. A missing profile yields the generic wording.
func recipeSystemPrompt(p *profile.Profile) string {
	dietary := "suitable for any dietary preference"
	focus := ""
	if p != nil {
		if p.IsVegetarian() {
			dietary = "vegetarian-friendly"
		}
		if cuisines := p.Cuisines(); len(cuisines) > 0 {
			focus = " focusing on " + strings.Join(cuisines, ", ") + " cuisines"
		}
	}

	var b strings.Builder
	b.WriteString("You are Sousa, a friendly meal planning assistant. Create structured recipes that are ")
	b.WriteString(dietary)
	b.WriteString(focus)
	b.WriteString(".\nAlways return recipes with clear ingredients and step-by-step instructions.")
	return b.String()
}

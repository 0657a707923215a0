package mealplan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sousa/mealplan/internal/domain/recipe"
)

// Effort is how much cooking the user is willing to do
type Effort string

const (
	EffortQuick     Effort = "quick"
	EffortMedium    Effort = "medium"
	EffortElaborate Effort = "elaborate"
)

const (
	defaultPrepTime  = "30 minutes"
	variousCuisines  = "various"
	maxMealsPerWeek  = 21
	maxPeoplePerPlan = 12
)

// Preferences are the answers from the plan-week dialog
type Preferences struct {
	IsVegetarian     bool     `json:"isVegetarian"`
	NumMeals         int      `json:"numMeals"`
	IncludeBreakfast bool     `json:"includeBreakfast"`
	EffortLevel      Effort   `json:"effortLevel"`
	Cuisines         []string `json:"cuisines"`
	NumPeople        int      `json:"numPeople"`
}

// Validate checks ranges and fills the effort default
func (p *Preferences) Validate() error {
	if p.NumMeals < 1 || p.NumMeals > maxMealsPerWeek {
		return ErrInvalidNumMeals
	}
	if p.NumPeople < 1 || p.NumPeople > maxPeoplePerPlan {
		return ErrInvalidNumPeople
	}
	switch Effort(strings.ToLower(string(p.EffortLevel))) {
	case "":
		p.EffortLevel = EffortMedium
	case EffortQuick, EffortMedium, EffortElaborate:
		p.EffortLevel = Effort(strings.ToLower(string(p.EffortLevel)))
	default:
		return ErrInvalidEffort
	}
	return nil
}

// MealTypes returns the slots the plan fills, in rotation order
func (p Preferences) MealTypes() []MealType {
	if p.IncludeBreakfast {
		return []MealType{Breakfast, Lunch, Dinner}
	}
	return []MealType{Lunch, Dinner}
}

// CuisineList joins the chosen cuisines, or "various" when none were chosen
func (p Preferences) CuisineList() string {
	cuisines := recipe.CleanLines(p.Cuisines)
	if len(cuisines) == 0 {
		return variousCuisines
	}
	return strings.Join(cuisines, ", ")
}

// DefaultCuisine is the first entry of CuisineList
func (p Preferences) DefaultCuisine() string {
	list := p.CuisineList()
	if i := strings.Index(list, ","); i >= 0 {
		return list[:i]
	}
	return list
}

// Prompt renders the user message sent to the model
func (p Preferences) Prompt() string {
	dietary := "Regular (can include meat)"
	if p.IsVegetarian {
		dietary = "Vegetarian"
	}
	types := make([]string, 0, 3)
	for _, t := range p.MealTypes() {
		types = append(types, string(t))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d meal suggestions for a week with the following preferences:\n", p.NumMeals)
	fmt.Fprintf(&b, "- Dietary: %s\n", dietary)
	fmt.Fprintf(&b, "- Meal types: %s\n", strings.Join(types, ", "))
	fmt.Fprintf(&b, "- Effort level: %s cooking time\n", p.EffortLevel)
	fmt.Fprintf(&b, "- Cuisines: %s\n", p.CuisineList())
	fmt.Fprintf(&b, "- Servings: %d people\n\n", p.NumPeople)
	b.WriteString("For each meal, provide:\n")
	b.WriteString("1. title (creative, appetizing name)\n")
	b.WriteString("2. meal_type (breakfast/lunch/dinner)\n")
	fmt.Fprintf(&b, "3. ingredients: list of strings with quantities for %d servings\n", p.NumPeople)
	b.WriteString("4. instructions: brief cooking steps (2-4 strings)\n")
	b.WriteString("5. prep_time estimate\n")
	b.WriteString("6. cuisine\n\n")
	b.WriteString("Format as a JSON array of meal objects.")
	return b.String()
}

// Lines decodes either a JSON array of strings, a single string, or an
// array of {name, quantity} objects into plain lines.
type Lines []string

func (l *Lines) UnmarshalJSON(data []byte) error {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			*l = nil
			return nil
		}
		*l = Lines{single}
		return nil
	}

	out := make(Lines, 0, len(list))
	for _, raw := range list {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Name     string `json:"name"`
			Item     string `json:"item"`
			Quantity string `json:"quantity"`
			Amount   string `json:"amount"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			name := obj.Name
			if name == "" {
				name = obj.Item
			}
			qty := obj.Quantity
			if qty == "" {
				qty = obj.Amount
			}
			out = append(out, strings.TrimSpace(qty+" "+name))
		}
	}
	*l = out
	return nil
}

// Text decodes a JSON scalar into its textual form. Numbers and booleans keep
// their literal text; null, objects and arrays decode to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, bool:
		*t = Text(strings.TrimSpace(string(data)))
	default:
		*t = ""
	}
	return nil
}

// Suggestion is one meal as returned by the model
type Suggestion struct {
	Title        Text  `json:"title"`
	MealType     Text  `json:"meal_type"`
	Ingredients  Lines `json:"ingredients"`
	Instructions Lines `json:"instructions"`
	PrepTime     Text  `json:"prep_time"`
	Cuisine      Text  `json:"cuisine"`
}

var codeFence = regexp.MustCompile("```(?:json)?\\n?")

// ParseSuggestions strips markdown fences and decodes a JSON array of meals.
// A top-level object with a "meals" array is accepted as well. A null reply
// is malformed.
func ParseSuggestions(content string) ([]Suggestion, error) {
	clean := strings.TrimSpace(codeFence.ReplaceAllString(content, ""))
	if clean == "" {
		return nil, ErrNoSuggestions
	}

	var meals []Suggestion
	if err := json.Unmarshal([]byte(clean), &meals); err == nil {
		if meals == nil {
			return nil, ErrMalformedResponse
		}
		return meals, nil
	}

	var wrapped struct {
		Meals []Suggestion `json:"meals"`
	}
	if err := json.Unmarshal([]byte(clean), &wrapped); err != nil || wrapped.Meals == nil {
		return nil, ErrMalformedResponse
	}
	return wrapped.Meals, nil
}

// PlannedMeal is a suggestion resolved to a day, a slot and recipe content
type PlannedMeal struct {
	Index    int
	Date     time.Time
	MealType MealType
	Recipe   recipe.Content
}

// Title is the name the meal is scheduled under
func (m PlannedMeal) Title() string {
	return m.Recipe.Title
}

// BuildPlan resolves suggestions into at most NumMeals planned meals. Meal i
// lands on weekStart + (i mod 7) days. Missing fields are defaulted and an
// unrecognized meal type falls back to the rotation of MealTypes.
func BuildPlan(p Preferences, weekStart time.Time, suggestions []Suggestion) []PlannedMeal {
	n := len(suggestions)
	if p.NumMeals < n {
		n = p.NumMeals
	}
	start := TruncateDate(weekStart)
	rotation := p.MealTypes()

	plan := make([]PlannedMeal, 0, n)
	for i := 0; i < n; i++ {
		s := suggestions[i]

		title := strings.TrimSpace(string(s.Title))
		if title == "" {
			title = fmt.Sprintf("Meal %d", i+1)
		}
		prep := strings.TrimSpace(string(s.PrepTime))
		if prep == "" {
			prep = defaultPrepTime
		}
		cuisine := strings.TrimSpace(string(s.Cuisine))
		if cuisine == "" {
			cuisine = p.DefaultCuisine()
		}
		mealType, err := ParseMealType(string(s.MealType))
		if err != nil {
			mealType = rotation[i%len(rotation)]
		}

		plan = append(plan, PlannedMeal{
			Index:    i,
			Date:     start.AddDate(0, 0, i%7),
			MealType: mealType,
			Recipe: recipe.Content{
				Title:        title,
				Ingredients:  s.Ingredients,
				Instructions: s.Instructions,
				PrepTime:     prep,
				Cuisine:      cuisine,
			},
		})
	}
	return plan
}

// PlanResult summarizes what PlanWeek wrote
type PlanResult struct {
	MealsCreated     int `json:"mealsCreated"`
	IngredientsAdded int `json:"ingredientsAdded"`
}

// Package recipe contains the recipe aggregate
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/shared"
)

const (
	maxTitleLength = 200
	maxSteps       = 100
)

// Source records how a recipe came to exist
type Source string

const (
	SourceManual    Source = "manual"
	SourceAssistant Source = "assistant"
	SourcePlanner   Source = "planner"
)

// Recipe is a titled list of ingredients and instructions owned by a user
type Recipe struct {
	shared.AggregateRoot

	id           uuid.UUID
	userID       uuid.UUID
	title        string
	ingredients  []string
	instructions []string
	prepTime     string
	cuisine      string
	source       Source
	createdAt    time.Time
	updatedAt    time.Time
}

// Content is the editable part of a recipe
type Content struct {
	Title        string
	Ingredients  []string
	Instructions []string
	PrepTime     string
	Cuisine      string
}

// NewRecipe creates a recipe and records a RecipeCreatedEvent
func NewRecipe(userID uuid.UUID, c Content, source Source) (*Recipe, error) {
	if userID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	now := time.Now().UTC()
	r := &Recipe{
		id:        uuid.New(),
		userID:    userID,
		source:    source,
		createdAt: now,
		updatedAt: now,
	}
	if err := r.apply(c); err != nil {
		return nil, err
	}

	r.AddEvent(RecipeCreatedEvent{
		BaseEvent: shared.NewBaseEvent(EventRecipeCreated, r.id, userID),
		Title:     r.title,
		Source:    source,
	})
	return r, nil
}

// Edit replaces the recipe content
func (r *Recipe) Edit(c Content) error {
	if err := r.apply(c); err != nil {
		return err
	}
	r.updatedAt = time.Now().UTC()
	r.AddEvent(RecipeUpdatedEvent{BaseEvent: shared.NewBaseEvent(EventRecipeUpdated, r.id, r.userID)})
	return nil
}

// MarkDeleted records a RecipeDeletedEvent
func (r *Recipe) MarkDeleted() {
	r.AddEvent(RecipeDeletedEvent{BaseEvent: shared.NewBaseEvent(EventRecipeDeleted, r.id, r.userID)})
}

func (r *Recipe) apply(c Content) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	ingredients := CleanLines(c.Ingredients)
	instructions := CleanLines(c.Instructions)
	if len(ingredients) > maxSteps || len(instructions) > maxSteps {
		return ErrTooManyLines
	}

	r.title = title
	r.ingredients = ingredients
	r.instructions = instructions
	r.prepTime = strings.TrimSpace(c.PrepTime)
	r.cuisine = strings.TrimSpace(c.Cuisine)
	return nil
}

// CleanLines trims every entry and drops the blank ones
func CleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func (r *Recipe) ID() uuid.UUID        { return r.id }
func (r *Recipe) UserID() uuid.UUID    { return r.userID }
func (r *Recipe) Title() string        { return r.title }
func (r *Recipe) PrepTime() string     { return r.prepTime }
func (r *Recipe) Cuisine() string      { return r.cuisine }
func (r *Recipe) Source() Source       { return r.source }
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }
func (r *Recipe) UpdatedAt() time.Time { return r.updatedAt }

// Ingredients returns a copy of the ingredient lines
func (r *Recipe) Ingredients() []string {
	return append([]string(nil), r.ingredients...)
}

// Instructions returns a copy of the instruction lines
func (r *Recipe) Instructions() []string {
	return append([]string(nil), r.instructions...)
}

// Snapshot is the persisted form of a recipe
type Snapshot struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Ingredients  []string
	Instructions []string
	PrepTime     string
	Cuisine      string
	Source       Source
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Restore rebuilds a recipe from storage
func Restore(s Snapshot) *Recipe {
	return &Recipe{
		id:           s.ID,
		userID:       s.UserID,
		title:        s.Title,
		ingredients:  s.Ingredients,
		instructions: s.Instructions,
		prepTime:     s.PrepTime,
		cuisine:      s.Cuisine,
		source:       s.Source,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot exports the recipe for persistence
func (r *Recipe) Snapshot() Snapshot {
	return Snapshot{
		ID:           r.id,
		UserID:       r.userID,
		Title:        r.title,
		Ingredients:  r.Ingredients(),
		Instructions: r.Instructions(),
		PrepTime:     r.prepTime,
		Cuisine:      r.cuisine,
		Source:       r.source,
		CreatedAt:    r.createdAt,
		UpdatedAt:    r.updatedAt,
	}
}

package recipe

import "github.com/sousa/mealplan/internal/domain/shared"

const (
	EventRecipeCreated = "recipe.created"
	EventRecipeUpdated = "recipe.updated"
	EventRecipeDeleted = "recipe.deleted"
)

// RecipeCreatedEvent is raised when a recipe is saved for the first time
type RecipeCreatedEvent struct {
	shared.BaseEvent
	Title  string `json:"title"`
	Source Source `json:"source"`
}

// RecipeUpdatedEvent is raised when a recipe is edited
type RecipeUpdatedEvent struct {
	shared.BaseEvent
}

// RecipeDeletedEvent is raised when a recipe is removed
type RecipeDeletedEvent struct {
	shared.BaseEvent
}

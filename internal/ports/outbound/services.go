package outbound

import (
	"context"
	"errors"

	"github.com/sousa/mealplan/internal/domain/shared"
)

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// ErrNoToolCall is returned when the model answered in prose instead of
// calling the requested tool
var ErrNoToolCall = errors.New("no recipe returned by AI")

// ChatMessage is one turn of a conversation with the model
type ChatMessage struct {
	Role    string
	Content string
}

// CompletionRequest asks the model for a free-text completion
type CompletionRequest struct {
	System string
	Prompt string
}

// RecipeRequest asks the model to call the create_recipe tool
type RecipeRequest struct {
	System string
	Prompt string
}

// GeneratedRecipe holds the arguments the model passed to create_recipe
type GeneratedRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prep_time"`
	Cuisine      string   `json:"cuisine"`
}

// LanguageModel defines the interface to the hosted chat-completion model
type LanguageModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	GenerateRecipe(ctx context.Context, req RecipeRequest) (*GeneratedRecipe, error)
}

// EventPublisher delivers domain events after a change is committed.
// Delivery failures are the publisher's concern and are not returned.
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent)
}

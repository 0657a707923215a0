// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/application/dto"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo   outbound.RecipeRepository
	mealRepo     outbound.MealRepository
	shoppingRepo outbound.ShoppingRepository
	tx           outbound.Transactor
	events       outbound.EventPublisher
	logger       *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	mealRepo outbound.MealRepository,
	shoppingRepo outbound.ShoppingRepository,
	tx outbound.Transactor,
	events outbound.EventPublisher,
	logger *zap.Logger,
) inbound.RecipeService {
	return &RecipeService{
		recipeRepo:   recipeRepo,
		mealRepo:     mealRepo,
		shoppingRepo: shoppingRepo,
		tx:           tx,
		events:       events,
		logger:       logger.Named("recipe-service"),
	}
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.String("user_id", cmd.UserID.String()),
	)

	entity, err := recipe.NewRecipe(cmd.UserID, recipe.Content{
		Title:        cmd.Title,
		Ingredients:  cmd.Ingredients,
		Instructions: cmd.Instructions,
		PrepTime:     cmd.PrepTime,
		Cuisine:      cmd.Cuisine,
	}, recipe.SourceManual)
	if err != nil {
		return nil, dto.ValidationError(err)
	}

	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}
	s.events.Publish(ctx, entity.Events()...)

	s.logger.Info("Recipe created successfully",
		zap.String("recipe_id", entity.ID().String()),
	)
	return dto.Recipe(entity), nil
}

// UpdateRecipe replaces the content of an existing recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	entity, err := s.load(ctx, cmd.UserID, cmd.RecipeID)
	if err != nil {
		return nil, err
	}

	if err := entity.Edit(recipe.Content{
		Title:        cmd.Title,
		Ingredients:  cmd.Ingredients,
		Instructions: cmd.Instructions,
		PrepTime:     cmd.PrepTime,
		Cuisine:      cmd.Cuisine,
	}); err != nil {
		return nil, dto.ValidationError(err)
	}

	if err := s.recipeRepo.Update(ctx, entity); err != nil {
		return nil, errors.NewDatabaseError("update recipe", err)
	}
	s.events.Publish(ctx, entity.Events()...)

	s.logger.Info("Recipe updated", zap.String("recipe_id", entity.ID().String()))
	return dto.Recipe(entity), nil
}

// DeleteRecipe removes a recipe and unlinks the meals and shopping items
// that referenced it
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	entity, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.mealRepo.DetachRecipe(ctx, userID, recipeID); err != nil {
			return err
		}
		if err := s.shoppingRepo.DetachRecipe(ctx, userID, recipeID); err != nil {
			return err
		}
		return s.recipeRepo.Delete(ctx, userID, recipeID)
	})
	if err != nil {
		return errors.NewDatabaseError("delete recipe", err)
	}

	entity.MarkDeleted()
	s.events.Publish(ctx, entity.Events()...)

	s.logger.Info("Recipe deleted", zap.String("recipe_id", recipeID.String()))
	return nil
}

// GetRecipe returns one recipe owned by the user
func (s *RecipeService) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	entity, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	return dto.Recipe(entity), nil
}

// ListRecipes returns the user's recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	params = params.Normalize()

	recipes, total, err := s.recipeRepo.FindByUser(ctx, userID, params.Offset(), params.PageSize)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	list := &inbound.RecipeList{
		Recipes:    make([]inbound.RecipeDTO, len(recipes)),
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: (total + params.PageSize - 1) / params.PageSize,
	}
	for i, r := range recipes {
		list.Recipes[i] = *dto.Recipe(r)
	}
	return list, nil
}

func (s *RecipeService) load(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error) {
	entity, err := s.recipeRepo.FindByID(ctx, userID, recipeID)
	if stderrors.Is(err, recipe.ErrRecipeNotFound) {
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	return entity, nil
}

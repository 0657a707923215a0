// Package assistant implements the two model-backed use cases: generating a
// single recipe from a prompt and planning a week of meals.
package assistant

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/application/dto"
	"github.com/sousa/mealplan/internal/domain/ingredient"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/domain/shared"
	"github.com/sousa/mealplan/internal/domain/shopping"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ProfileFinder returns a user's profile, or nil before onboarding
type ProfileFinder interface {
	Find(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
}

// QuotaObserver is told about every request refused by the daily quota
type QuotaObserver interface {
	AIQuotaRejected()
}

// Config tunes the assistant
type Config struct {
	DailyQuota int
}

// Service implements inbound.AssistantService
type Service struct {
	llm      outbound.LanguageModel
	profiles ProfileFinder
	recipes  outbound.RecipeRepository
	meals    outbound.MealRepository
	shopping outbound.ShoppingRepository
	tx       outbound.Transactor
	cache    outbound.CacheRepository
	events   outbound.EventPublisher
	quota    QuotaObserver
	cfg      Config
	tracer   trace.Tracer
	logger   *zap.Logger
	now      func() time.Time
}

// Deps groups the collaborators of the assistant
type Deps struct {
	LLM      outbound.LanguageModel
	Profiles ProfileFinder
	Recipes  outbound.RecipeRepository
	Meals    outbound.MealRepository
	Shopping outbound.ShoppingRepository
	Tx       outbound.Transactor
	Cache    outbound.CacheRepository
	Events   outbound.EventPublisher
	Quota    QuotaObserver
}

// NewService creates the assistant service
func NewService(deps Deps, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		llm:      deps.LLM,
		profiles: deps.Profiles,
		recipes:  deps.Recipes,
		meals:    deps.Meals,
		shopping: deps.Shopping,
		tx:       deps.Tx,
		cache:    deps.Cache,
		events:   deps.Events,
		quota:    deps.Quota,
		cfg:      cfg,
		tracer:   otel.Tracer("sousa/assistant"),
		logger:   logger.Named("assistant-service"),
		now:      time.Now,
	}
}

var _ inbound.AssistantService = (*Service)(nil)

// GenerateRecipe asks the model for one recipe, saves it, schedules it as
// today's dinner and puts its ingredients on the shopping list.
func (s *Service) GenerateRecipe(ctx context.Context, cmd inbound.GenerateRecipeCommand) (*inbound.RecipeDTO, error) {
	ctx, span := s.tracer.Start(ctx, "assistant.GenerateRecipe")
	defer span.End()

	if cmd.UserID == uuid.Nil {
		return nil, errors.NewBadRequestError("User ID is required")
	}
	prompt := strings.TrimSpace(cmd.Prompt)
	if prompt == "" {
		return nil, errors.NewValidationError("prompt is required")
	}
	if err := s.checkQuota(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	p, err := s.profiles.Find(ctx, cmd.UserID)
	if err != nil {
		s.logger.Warn("Profile lookup failed, generating without preferences", zap.Error(err))
		p = nil
	}

	generated, err := s.llm.GenerateRecipe(ctx, outbound.RecipeRequest{
		System: recipeSystemPrompt(p),
		Prompt: prompt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, modelError(err)
	}

	entity, err := recipe.NewRecipe(cmd.UserID, recipe.Content{
		Title:        generated.Title,
		Ingredients:  generated.Ingredients,
		Instructions: generated.Instructions,
		PrepTime:     generated.PrepTime,
		Cuisine:      generated.Cuisine,
	}, recipe.SourceAssistant)
	if err != nil {
		return nil, errors.NewAppError(errors.CodeExternalServiceError, "Invalid AI response format", err.Error()).WithCause(err)
	}

	today := mealplan.TruncateDate(s.now())
	var meal *mealplan.ScheduledMeal
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.recipes.Create(ctx, entity); err != nil {
			return err
		}
		meal, err = s.schedule(ctx, cmd.UserID, entity, today, mealplan.Dinner)
		return err
	})
	if err != nil {
		return nil, errors.NewDatabaseError("save generated recipe", err)
	}

	recipeID := entity.ID()
	s.addToShopping(ctx, cmd.UserID, entity.Ingredients(), &recipeID, false)
	s.events.Publish(ctx, append(entity.Events(), meal.Events()...)...)

	span.SetAttributes(
		attribute.String("recipe.id", recipeID.String()),
		attribute.Int("recipe.ingredients", len(entity.Ingredients())),
	)
	s.logger.Info("Generated recipe saved",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("recipe_id", recipeID.String()),
		zap.String("title", entity.Title()),
	)
	return dto.Recipe(entity), nil
}

// PlanWeek asks the model for a week of meals, stores each as a recipe plus
// a scheduled meal, and adds the distinct ingredients to the shopping list.
// A meal that fails to save is skipped.
func (s *Service) PlanWeek(ctx context.Context, cmd inbound.PlanWeekCommand) (*mealplan.PlanResult, error) {
	ctx, span := s.tracer.Start(ctx, "assistant.PlanWeek")
	defer span.End()

	prefs := cmd.Preferences
	if err := prefs.Validate(); err != nil {
		return nil, dto.ValidationError(err)
	}
	weekStart := mealplan.TruncateDate(s.now())
	if strings.TrimSpace(cmd.WeekStart) != "" {
		d, err := mealplan.ParseDate(cmd.WeekStart)
		if err != nil {
			return nil, dto.ValidationError(err)
		}
		weekStart = d
	}
	if err := s.checkQuota(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	s.logger.Info("Planning week",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("num_meals", prefs.NumMeals),
		zap.String("effort", string(prefs.EffortLevel)),
		zap.String("cuisines", prefs.CuisineList()),
	)

	content, err := s.llm.Complete(ctx, outbound.CompletionRequest{
		System: planSystemPrompt,
		Prompt: prefs.Prompt(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, modelError(err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.NewAppError(errors.CodeExternalServiceError, "No content from AI", "")
	}

	suggestions, err := mealplan.ParseSuggestions(content)
	if err != nil {
		s.logger.Error("Unparseable plan from model", zap.String("content", truncate(content, 500)), zap.Error(err))
		return nil, errors.NewAppError(errors.CodeExternalServiceError, "Invalid AI response format", err.Error()).WithCause(err)
	}

	plan := mealplan.BuildPlan(prefs, weekStart, suggestions)
	var (
		created     int
		ingredients []string
		events      []shared.DomainEvent
	)
	for _, planned := range plan {
		r, m, err := s.savePlanned(ctx, cmd.UserID, planned)
		if err != nil {
			s.logger.Warn("Skipping planned meal",
				zap.Int("index", planned.Index),
				zap.String("title", planned.Title()),
				zap.Error(err),
			)
			continue
		}
		created++
		ingredients = append(ingredients, r.Ingredients()...)
		events = append(events, r.Events()...)
		events = append(events, m.Events()...)
	}

	added := s.addToShopping(ctx, cmd.UserID, ingredients, nil, true)
	s.events.Publish(ctx, events...)

	span.SetAttributes(
		attribute.Int("plan.suggestions", len(suggestions)),
		attribute.Int("plan.meals_created", created),
		attribute.Int("plan.ingredients_added", added),
	)
	s.logger.Info("Week planned",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("meals_created", created),
		zap.Int("ingredients_added", added),
	)
	return &mealplan.PlanResult{MealsCreated: created, IngredientsAdded: added}, nil
}

func (s *Service) savePlanned(ctx context.Context, userID uuid.UUID, planned mealplan.PlannedMeal) (*recipe.Recipe, *mealplan.ScheduledMeal, error) {
	r, err := recipe.NewRecipe(userID, planned.Recipe, recipe.SourcePlanner)
	if err != nil {
		return nil, nil, err
	}
	var m *mealplan.ScheduledMeal
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.recipes.Create(ctx, r); err != nil {
			return err
		}
		m, err = s.schedule(ctx, userID, r, planned.Date, planned.MealType)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return r, m, nil
}

func (s *Service) schedule(ctx context.Context, userID uuid.UUID, r *recipe.Recipe, date time.Time, mealType mealplan.MealType) (*mealplan.ScheduledMeal, error) {
	recipeID := r.ID()
	meal, err := mealplan.NewScheduledMeal(userID, mealplan.Schedule{
		RecipeID: &recipeID,
		Title:    r.Title(),
		MealType: string(mealType),
		Date:     mealplan.FormatDate(date),
	})
	if err != nil {
		return nil, err
	}
	pos, err := s.meals.NextPosition(ctx, userID, meal.Date(), meal.MealType())
	if err != nil {
		return nil, err
	}
	meal.SetPosition(pos)
	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// addToShopping classifies the ingredients and inserts them in one batch.
// With dedupe set, repeated lines are collapsed first. Failure is logged and
// reported as zero items added.
func (s *Service) addToShopping(ctx context.Context, userID uuid.UUID, lines []string, recipeID *uuid.UUID, dedupe bool) int {
	var classified []ingredient.Classification
	if dedupe {
		classified = ingredient.ClassifyAll(lines)
	} else {
		for _, line := range recipe.CleanLines(lines) {
			classified = append(classified, ingredient.Classify(line))
		}
	}
	if len(classified) == 0 {
		return 0
	}

	items := make([]*shopping.Item, 0, len(classified))
	for _, c := range classified {
		item, err := shopping.NewClassifiedItem(userID, c, recipeID)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	if err := s.shopping.CreateBatch(ctx, items); err != nil {
		s.logger.Error("Failed to add ingredients to shopping list",
			zap.String("user_id", userID.String()),
			zap.Int("count", len(items)),
			zap.Error(err),
		)
		return 0
	}
	return len(items)
}

// checkQuota counts model calls per user per UTC day. A cache outage does
// not block the user.
func (s *Service) checkQuota(ctx context.Context, userID uuid.UUID) error {
	if s.cfg.DailyQuota <= 0 {
		return nil
	}
	key := fmt.Sprintf("ai-quota:%s:%s", userID, mealplan.FormatDate(s.now().UTC()))
	n, err := s.cache.Increment(ctx, key, 24*time.Hour)
	if err != nil {
		s.logger.Warn("Quota counter unavailable", zap.Error(err))
		return nil
	}
	if n > int64(s.cfg.DailyQuota) {
		if s.quota != nil {
			s.quota.AIQuotaRejected()
		}
		return errors.NewQuotaExceededError("daily AI", s.cfg.DailyQuota)
	}
	return nil
}

func modelError(err error) error {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	if stderrors.Is(err, outbound.ErrNoToolCall) {
		return errors.NewAppError(errors.CodeExternalServiceError, "No recipe returned by AI", "").WithCause(err)
	}
	e := errors.NewExternalServiceError("AI service", err)
	e.Message = "AI service error"
	return e
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// Package mealplan implements the meal calendar use cases
package mealplan

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/application/dto"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// MealPlanService implements inbound.MealPlanService
type MealPlanService struct {
	meals  outbound.MealRepository
	tx     outbound.Transactor
	events outbound.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewMealPlanService creates a new meal plan service
func NewMealPlanService(
	meals outbound.MealRepository,
	tx outbound.Transactor,
	events outbound.EventPublisher,
	logger *zap.Logger,
) inbound.MealPlanService {
	return &MealPlanService{
		meals:  meals,
		tx:     tx,
		events: events,
		logger: logger.Named("mealplan-service"),
		now:    time.Now,
	}
}

// AddMeal schedules a meal at the end of its slot
func (s *MealPlanService) AddMeal(ctx context.Context, cmd inbound.AddMealCommand) (*inbound.MealDTO, error) {
	meal, err := mealplan.NewScheduledMeal(cmd.UserID, mealplan.Schedule{
		RecipeID:      cmd.RecipeID,
		Title:         cmd.Title,
		MealType:      cmd.MealType,
		Date:          cmd.Date,
		ScheduledTime: cmd.ScheduledTime,
		Notes:         cmd.Notes,
	})
	if err != nil {
		return nil, dto.ValidationError(err)
	}

	pos, err := s.meals.NextPosition(ctx, cmd.UserID, meal.Date(), meal.MealType())
	if err != nil {
		return nil, errors.NewDatabaseError("find slot position", err)
	}
	meal.SetPosition(pos)

	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, errors.NewDatabaseError("create scheduled meal", err)
	}
	s.events.Publish(ctx, meal.Events()...)

	out := dto.Meal(meal)
	return &out, nil
}

// UpdateMeal applies a partial change. A meal that changes slot goes to the
// end of the new slot.
func (s *MealPlanService) UpdateMeal(ctx context.Context, cmd inbound.UpdateMealCommand) (*inbound.MealDTO, error) {
	meal, err := s.load(ctx, cmd.UserID, cmd.MealID)
	if err != nil {
		return nil, err
	}
	fromDate, fromType := meal.Date(), meal.MealType()

	patch := mealplan.Patch{
		Title:         cmd.Title,
		MealType:      cmd.MealType,
		Date:          cmd.Date,
		ScheduledTime: cmd.ScheduledTime,
		Notes:         cmd.Notes,
	}
	switch {
	case cmd.ClearRecipe:
		var none *uuid.UUID
		patch.RecipeID = &none
	case cmd.RecipeID != nil:
		patch.RecipeID = &cmd.RecipeID
	}
	if err := meal.Update(patch); err != nil {
		return nil, dto.ValidationError(err)
	}

	if meal.Date().Equal(fromDate) && meal.MealType() == fromType {
		if err := s.meals.Update(ctx, meal); err != nil {
			return nil, errors.NewDatabaseError("update scheduled meal", err)
		}
		out := dto.Meal(meal)
		return &out, nil
	}

	// A slot change appends to the new slot and closes the gap in the old one
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		pos, err := s.meals.NextPosition(ctx, cmd.UserID, meal.Date(), meal.MealType())
		if err != nil {
			return err
		}
		meal.SetPosition(pos)
		if err := s.meals.Update(ctx, meal); err != nil {
			return err
		}

		source, err := s.meals.FindBySlot(ctx, cmd.UserID, fromDate, fromType)
		if err != nil {
			return err
		}
		changed := mealplan.Compact(without(source, meal.ID()))
		if len(changed) == 0 {
			return nil
		}
		return s.meals.UpdatePositions(ctx, changed)
	})
	if err != nil {
		return nil, errors.NewDatabaseError("update scheduled meal", err)
	}
	out := dto.Meal(meal)
	return &out, nil
}

// MoveMeal is the drag-and-drop reorder: the meal lands in the target slot at
// the given position and both the old and new slot are renumbered densely.
func (s *MealPlanService) MoveMeal(ctx context.Context, cmd inbound.MoveMealCommand) (*inbound.MealDTO, error) {
	if cmd.Position < 0 {
		return nil, dto.ValidationError(mealplan.ErrInvalidPosition)
	}
	date, err := mealplan.ParseDate(cmd.Date)
	if err != nil {
		return nil, dto.ValidationError(err)
	}
	mealType, err := mealplan.ParseMealType(cmd.MealType)
	if err != nil {
		return nil, dto.ValidationError(err)
	}

	meal, err := s.load(ctx, cmd.UserID, cmd.MealID)
	if err != nil {
		return nil, err
	}
	fromDate, fromType := meal.Date(), meal.MealType()
	sameSlot := fromDate.Equal(date) && fromType == mealType

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.meals.FindBySlot(ctx, cmd.UserID, date, mealType)
		if err != nil {
			return err
		}
		siblings := without(target, meal.ID())

		meal.MoveTo(date, mealType, cmd.Position)
		changed := mealplan.Reorder(siblings, meal, cmd.Position)

		if !sameSlot {
			source, err := s.meals.FindBySlot(ctx, cmd.UserID, fromDate, fromType)
			if err != nil {
				return err
			}
			changed = append(changed, mealplan.Compact(without(source, meal.ID()))...)
		}

		if err := s.meals.Update(ctx, meal); err != nil {
			return err
		}
		return s.meals.UpdatePositions(ctx, without(changed, meal.ID()))
	})
	if err != nil {
		return nil, errors.NewDatabaseError("move scheduled meal", err)
	}
	s.events.Publish(ctx, meal.Events()...)

	s.logger.Debug("Meal moved",
		zap.String("meal_id", meal.ID().String()),
		zap.String("date", mealplan.FormatDate(date)),
		zap.String("meal_type", string(mealType)),
		zap.Int("position", meal.Position()),
	)
	out := dto.Meal(meal)
	return &out, nil
}

func without(meals []*mealplan.ScheduledMeal, id uuid.UUID) []*mealplan.ScheduledMeal {
	out := make([]*mealplan.ScheduledMeal, 0, len(meals))
	for _, m := range meals {
		if m.ID() != id {
			out = append(out, m)
		}
	}
	return out
}

// DeleteMeal removes a meal from the calendar
func (s *MealPlanService) DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error {
	err := s.meals.Delete(ctx, userID, mealID)
	if stderrors.Is(err, mealplan.ErrMealNotFound) {
		return errors.NewMealNotFoundError(mealID.String())
	}
	if err != nil {
		return errors.NewDatabaseError("delete scheduled meal", err)
	}
	return nil
}

// ListMeals returns meals between the optional inclusive bounds in calendar order
func (s *MealPlanService) ListMeals(ctx context.Context, userID uuid.UUID, start, end string) ([]inbound.MealDTO, error) {
	r, err := mealplan.NewRange(start, end)
	if err != nil {
		return nil, dto.ValidationError(err)
	}
	meals, err := s.meals.FindByUser(ctx, userID, r)
	if err != nil {
		return nil, errors.NewDatabaseError("list scheduled meals", err)
	}
	mealplan.Sort(meals)
	return dto.Meals(meals), nil
}

// Week returns seven days from start, or from today when start is empty
func (s *MealPlanService) Week(ctx context.Context, userID uuid.UUID, start string) ([]inbound.DayDTO, error) {
	weekStart := mealplan.TruncateDate(s.now())
	if strings.TrimSpace(start) != "" {
		d, err := mealplan.ParseDate(start)
		if err != nil {
			return nil, dto.ValidationError(err)
		}
		weekStart = d
	}

	meals, err := s.meals.FindByUser(ctx, userID, mealplan.WeekRange(weekStart))
	if err != nil {
		return nil, errors.NewDatabaseError("list scheduled meals", err)
	}
	return dto.Days(mealplan.Week(weekStart, meals)), nil
}

func (s *MealPlanService) load(ctx context.Context, userID, mealID uuid.UUID) (*mealplan.ScheduledMeal, error) {
	meal, err := s.meals.FindByID(ctx, userID, mealID)
	if stderrors.Is(err, mealplan.ErrMealNotFound) {
		return nil, errors.NewMealNotFoundError(mealID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find scheduled meal", err)
	}
	return meal, nil
}

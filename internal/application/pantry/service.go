// Package pantry implements the pantry inventory use cases
package pantry

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/application/dto"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// PantryService implements inbound.PantryService
type PantryService struct {
	repo   outbound.PantryRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewPantryService creates a new pantry service
func NewPantryService(repo outbound.PantryRepository, logger *zap.Logger) inbound.PantryService {
	return &PantryService{
		repo:   repo,
		logger: logger.Named("pantry-service"),
		now:    time.Now,
	}
}

func details(cmd inbound.PantryItemCommand) (pantry.Details, error) {
	d := pantry.Details{
		Name:     cmd.Name,
		Category: cmd.Category,
		Status:   cmd.Status,
		Quantity: cmd.Quantity,
		Cold:     cmd.Cold,
	}
	if s := strings.TrimSpace(cmd.ExpiresOn); s != "" {
		t, err := mealplan.ParseDate(s)
		if err != nil {
			return d, err
		}
		d.ExpiresOn = &t
	}
	return d, nil
}

// AddItem stores a new pantry item
func (s *PantryService) AddItem(ctx context.Context, cmd inbound.PantryItemCommand) (*inbound.PantryItemDTO, error) {
	d, err := details(cmd)
	if err != nil {
		return nil, dto.ValidationError(err)
	}
	item, err := pantry.NewItem(cmd.UserID, d)
	if err != nil {
		return nil, dto.ValidationError(err)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, errors.NewDatabaseError("create pantry item", err)
	}

	s.logger.Debug("Pantry item added",
		zap.String("item_id", item.ID().String()),
		zap.String("category", string(item.Category())),
	)
	out := dto.PantryItem(item)
	return &out, nil
}

// UpdateItem replaces the editable fields of an item
func (s *PantryService) UpdateItem(ctx context.Context, itemID uuid.UUID, cmd inbound.PantryItemCommand) (*inbound.PantryItemDTO, error) {
	item, err := s.load(ctx, cmd.UserID, itemID)
	if err != nil {
		return nil, err
	}
	d, err := details(cmd)
	if err != nil {
		return nil, dto.ValidationError(err)
	}
	if err := item.Update(d); err != nil {
		return nil, dto.ValidationError(err)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, errors.NewDatabaseError("update pantry item", err)
	}
	out := dto.PantryItem(item)
	return &out, nil
}

// DeleteItem removes an item
func (s *PantryService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	err := s.repo.Delete(ctx, userID, itemID)
	if stderrors.Is(err, pantry.ErrItemNotFound) {
		return errors.NewPantryItemNotFoundError(itemID.String())
	}
	if err != nil {
		return errors.NewDatabaseError("delete pantry item", err)
	}
	return nil
}

// GetItem returns one item
func (s *PantryService) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*inbound.PantryItemDTO, error) {
	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	out := dto.PantryItem(item)
	return &out, nil
}

// ListItems returns the user's pantry, newest first, optionally filtered
func (s *PantryService) ListItems(ctx context.Context, userID uuid.UUID, category, status string) ([]inbound.PantryItemDTO, error) {
	var filter outbound.PantryFilter
	if strings.TrimSpace(category) != "" {
		c, err := pantry.ParseCategory(category)
		if err != nil {
			return nil, dto.ValidationError(err)
		}
		filter.Category = c
	}
	if strings.TrimSpace(status) != "" {
		st, err := pantry.ParseStatus(status)
		if err != nil {
			return nil, dto.ValidationError(err)
		}
		filter.Status = st
	}

	items, err := s.repo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry items", err)
	}
	return dto.PantryItems(items), nil
}

// ExpiringSoon lists items flagged expiring or expiring within the window
func (s *PantryService) ExpiringSoon(ctx context.Context, userID uuid.UUID, within time.Duration) ([]inbound.PantryItemDTO, error) {
	items, err := s.repo.FindByUser(ctx, userID, outbound.PantryFilter{})
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry items", err)
	}

	now := s.now()
	expiring := make([]*pantry.Item, 0, len(items))
	for _, item := range items {
		if item.ExpiresWithin(now, within) {
			expiring = append(expiring, item)
		}
	}
	return dto.PantryItems(expiring), nil
}

func (s *PantryService) load(ctx context.Context, userID, itemID uuid.UUID) (*pantry.Item, error) {
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if stderrors.Is(err, pantry.ErrItemNotFound) {
		return nil, errors.NewPantryItemNotFoundError(itemID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find pantry item", err)
	}
	return item, nil
}

// Package profile holds the dietary preferences captured during onboarding.
package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileExists    = errors.New("profile already exists")
	ErrCuisinesRequired = errors.New("select at least one cuisine")
	ErrUserRequired     = errors.New("user id is required")
)

// Profile is one per user
type Profile struct {
	userID       uuid.UUID
	isVegetarian bool
	cuisines     []string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewProfile validates onboarding answers
func NewProfile(userID uuid.UUID, isVegetarian bool, cuisines []string) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, ErrUserRequired
	}
	now := time.Now().UTC()
	p := &Profile{userID: userID, createdAt: now, updatedAt: now}
	if err := p.Update(isVegetarian, cuisines); err != nil {
		return nil, err
	}
	p.updatedAt = now
	return p, nil
}

// Update replaces the preferences
func (p *Profile) Update(isVegetarian bool, cuisines []string) error {
	cleaned := normalizeCuisines(cuisines)
	if len(cleaned) == 0 {
		return ErrCuisinesRequired
	}
	p.isVegetarian = isVegetarian
	p.cuisines = cleaned
	p.updatedAt = time.Now().UTC()
	return nil
}

// normalizeCuisines trims and drops blanks and case-insensitive repeats
func normalizeCuisines(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (p *Profile) UserID() uuid.UUID    { return p.userID }
func (p *Profile) IsVegetarian() bool   { return p.isVegetarian }
func (p *Profile) CreatedAt() time.Time { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// Cuisines returns a copy of the preferred cuisines
func (p *Profile) Cuisines() []string {
	return append([]string(nil), p.cuisines...)
}

// Snapshot is the persisted form of a profile
type Snapshot struct {
	UserID       uuid.UUID `json:"user_id"`
	IsVegetarian bool      `json:"is_vegetarian"`
	Cuisines     []string  `json:"cuisines"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Restore rebuilds a profile from storage
func Restore(s Snapshot) *Profile {
	return &Profile{
		userID:       s.UserID,
		isVegetarian: s.IsVegetarian,
		cuisines:     s.Cuisines,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot exports the profile
func (p *Profile) Snapshot() Snapshot {
	return Snapshot{
		UserID:       p.userID,
		IsVegetarian: p.isVegetarian,
		Cuisines:     p.Cuisines(),
		CreatedAt:    p.createdAt,
		UpdatedAt:    p.updatedAt,
	}
}

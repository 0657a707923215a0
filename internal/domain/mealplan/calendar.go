package mealplan

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD into UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate drops the clock part, keeping the calendar day of t
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Range is an inclusive span of calendar days; zero bounds are open
type Range struct {
	Start *time.Time
	End   *time.Time
}

// NewRange parses optional YYYY-MM-DD bounds
func NewRange(start, end string) (Range, error) {
	var r Range
	if strings.TrimSpace(start) != "" {
		t, err := ParseDate(start)
		if err != nil {
			return r, err
		}
		r.Start = &t
	}
	if strings.TrimSpace(end) != "" {
		t, err := ParseDate(end)
		if err != nil {
			return r, err
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return r, ErrInvalidRange
	}
	return r, nil
}

// WeekRange covers the seven days starting at weekStart
func WeekRange(weekStart time.Time) Range {
	start := TruncateDate(weekStart)
	end := start.AddDate(0, 0, 6)
	return Range{Start: &start, End: &end}
}

// Sort orders meals by date, then slot, then position
func Sort(meals []*ScheduledMeal) {
	sort.SliceStable(meals, func(i, j int) bool {
		a, b := meals[i], meals[j]
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		if a.mealType.Order() != b.mealType.Order() {
			return a.mealType.Order() < b.mealType.Order()
		}
		return a.position < b.position
	})
}

// Day is one column of the week view
type Day struct {
	Date  time.Time
	Meals map[MealType][]*ScheduledMeal
}

// Week groups meals into the seven days from weekStart. Meals outside the
// week are ignored.
func Week(weekStart time.Time, meals []*ScheduledMeal) []Day {
	start := TruncateDate(weekStart)
	days := make([]Day, 7)
	index := make(map[string]int, 7)
	for i := range days {
		d := start.AddDate(0, 0, i)
		days[i] = Day{Date: d, Meals: make(map[MealType][]*ScheduledMeal, len(MealTypes))}
		index[FormatDate(d)] = i
	}

	sorted := append([]*ScheduledMeal(nil), meals...)
	Sort(sorted)
	for _, m := range sorted {
		i, ok := index[FormatDate(m.date)]
		if !ok {
			continue
		}
		days[i].Meals[m.mealType] = append(days[i].Meals[m.mealType], m)
	}
	return days
}

// Reorder places moved at position within the slot's meals and renumbers
// the slot densely from zero. siblings must not contain moved. Positions
// past the end append. It returns every meal whose position changed,
// including moved.
func Reorder(siblings []*ScheduledMeal, moved *ScheduledMeal, position int) []*ScheduledMeal {
	ordered := append([]*ScheduledMeal(nil), siblings...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].position < ordered[j].position })

	if position > len(ordered) {
		position = len(ordered)
	}
	ordered = append(ordered, nil)
	copy(ordered[position+1:], ordered[position:])
	ordered[position] = moved

	changed := make([]*ScheduledMeal, 0, len(ordered))
	for i, m := range ordered {
		if m.position != i || m == moved {
			m.position = i
			changed = append(changed, m)
		}
	}
	return changed
}

// Compact renumbers a slot densely from zero after a meal left it and
// returns the meals whose position changed.
func Compact(meals []*ScheduledMeal) []*ScheduledMeal {
	ordered := append([]*ScheduledMeal(nil), meals...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].position < ordered[j].position })

	var changed []*ScheduledMeal
	for i, m := range ordered {
		if m.position != i {
			m.position = i
			changed = append(changed, m)
		}
	}
	return changed
}

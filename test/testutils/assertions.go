// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// HTTPAssertions provides API response assertion methods
type HTTPAssertions struct {
	t testing.TB
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t testing.TB) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// Envelope asserts a successful envelope and decodes its data into target
func (ha *HTTPAssertions) Envelope(rec *httptest.ResponseRecorder, expectedCode int, target interface{}) {
	ha.t.Helper()
	require.Equal(ha.t, expectedCode, rec.Code, "Unexpected status code: %s", rec.Body.String())

	var body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), &body), "Response should be valid JSON")
	assert.True(ha.t, body.Success, "Envelope should report success")
	if target != nil {
		require.NoError(ha.t, json.Unmarshal(body.Data, target), "Envelope data should decode")
	}
}

// StructuredError asserts the nested error body used by resource endpoints
func (ha *HTTPAssertions) StructuredError(rec *httptest.ResponseRecorder, expectedCode int, code errors.ErrorCode) errors.ErrorDetails {
	ha.t.Helper()
	assert.Equal(ha.t, expectedCode, rec.Code, "Unexpected status code: %s", rec.Body.String())

	var body errors.ErrorResponse
	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), &body), "Error response should be valid JSON")
	assert.False(ha.t, body.Success)
	assert.Equal(ha.t, code, body.Error.Code)
	assert.NotEmpty(ha.t, body.Error.Message, "Error should carry a message")
	return body.Error
}

// FlatError asserts the single-level error body used by assistant endpoints
func (ha *HTTPAssertions) FlatError(rec *httptest.ResponseRecorder, expectedCode int, message string) {
	ha.t.Helper()
	assert.Equal(ha.t, expectedCode, rec.Code, "Unexpected status code: %s", rec.Body.String())

	var body map[string]interface{}
	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), &body), "Error response should be valid JSON")
	assert.Equal(ha.t, false, body["success"])
	assert.Equal(ha.t, message, body["error"])
}

// SecurityHeaders asserts the headers every API response carries
func (ha *HTTPAssertions) SecurityHeaders(h http.Header) {
	ha.t.Helper()
	assert.Equal(ha.t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(ha.t, "DENY", h.Get("X-Frame-Options"))
	assert.NotEmpty(ha.t, h.Get("Referrer-Policy"))
}

// MealAssertions provides meal calendar assertion methods
type MealAssertions struct {
	t testing.TB
}

// NewMealAssertions creates a new meal assertions helper
func NewMealAssertions(t testing.TB) *MealAssertions {
	return &MealAssertions{t: t}
}

// DenseSlots asserts that positions within every (date, meal type) slot run
// 0..n-1 without gaps or duplicates.
func (ma *MealAssertions) DenseSlots(meals []*mealplan.ScheduledMeal) {
	ma.t.Helper()
	slots := map[string][]int{}
	for _, m := range meals {
		key := m.Date().Format("2006-01-02") + "/" + string(m.MealType())
		slots[key] = append(slots[key], m.Position())
	}
	for key, positions := range slots {
		sort.Ints(positions)
		for i, p := range positions {
			assert.Equal(ma.t, i, p, "Slot %s positions should be dense: %v", key, positions)
		}
	}
}

// DatabaseAssertions provides row-level assertion methods
type DatabaseAssertions struct {
	t  testing.TB
	db *gorm.DB
}

// NewDatabaseAssertions creates a new database assertions helper
func NewDatabaseAssertions(t testing.TB, db *gorm.DB) *DatabaseAssertions {
	return &DatabaseAssertions{t: t, db: db}
}

// RecordCount asserts the number of rows matching where
func (da *DatabaseAssertions) RecordCount(table string, expected int64, where string, args ...interface{}) {
	da.t.Helper()
	var count int64
	q := da.db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(da.t, q.Count(&count).Error)
	assert.Equal(da.t, expected, count, "Unexpected row count in %s", table)
}

// TableEmpty asserts that a table has no rows
func (da *DatabaseAssertions) TableEmpty(table string) {
	da.t.Helper()
	da.RecordCount(table, 0, "")
}

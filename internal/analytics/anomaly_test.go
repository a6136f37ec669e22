package analytics

import (
	"testing"
	"time"

	"hostel-sentinel/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDetectSpike_QuietBaselineNeverAlerts(t *testing.T) {
	// Many recent reports but nothing in the prior week: no alert.
	var issues []models.Issue
	for i := 0; i < 12; i++ {
		issues = append(issues, issueAt(testNow.Add(-time.Duration(i)*time.Hour)))
	}

	a := DetectSpike(issues, testNow)
	assert.False(t, a.Alert)
	assert.Empty(t, a.Message)
}

func TestDetectSpike_Alerts(t *testing.T) {
	var issues []models.Issue
	// prev7 = 7 issues, spread across (3d, 10d] ago: avg_prev = 1.0
	for i := 0; i < 7; i++ {
		issues = append(issues, issueAt(testNow.Add(-5*24*time.Hour)))
	}
	// last3 = 7 issues: recent avg ~2.33 > 2.0
	for i := 0; i < 7; i++ {
		issues = append(issues, issueAt(testNow.Add(-24*time.Hour)))
	}

	a := DetectSpike(issues, testNow)
	assert.True(t, a.Alert)
	assert.Equal(t, "Spike detected: recent avg 2.3 > prev 1.0.", a.Message)
}

func TestDetectSpike_BelowThreshold(t *testing.T) {
	var issues []models.Issue
	for i := 0; i < 7; i++ {
		issues = append(issues, issueAt(testNow.Add(-5*24*time.Hour)))
	}
	// last3 = 6: recent avg 2.0, not strictly greater than 2 * 1.0
	for i := 0; i < 6; i++ {
		issues = append(issues, issueAt(testNow.Add(-24*time.Hour)))
	}

	a := DetectSpike(issues, testNow)
	assert.False(t, a.Alert)
}

func TestDetectSpike_EmptyInput(t *testing.T) {
	a := DetectSpike(nil, testNow)
	assert.False(t, a.Alert)
}

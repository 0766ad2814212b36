package services

import (
	"testing"

	"vendor-match-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() *models.Project {
	return &models.Project{
		ID:             "p1",
		Country:        "Germany",
		ServicesNeeded: []string{"legal", "accounting"},
		Budget:         100000,
		Status:         models.ProjectStatusActive,
	}
}

func testVendor() *models.Vendor {
	return &models.Vendor{
		ID:                 "v1",
		Name:               "Acme Expansion Partners",
		CountriesSupported: []string{"Germany", "France"},
		ServicesOffered:    []string{"legal", "accounting", "compliance"},
		Rating:             4.5,
		ResponseSlaHours:   24,
		IsActive:           true,
	}
}

func TestSlaWeightBuckets(t *testing.T) {
	cases := []struct {
		hours int
		want  float64
	}{
		{1, 2},
		{4, 2},
		{5, 1.5},
		{12, 1.5},
		{13, 1},
		{24, 1},
		{25, 0.5},
		{48, 0.5},
		{49, 0},
		{72, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slaWeight(tc.hours), "slaWeight(%d)", tc.hours)
	}
}

func TestMatchScoreExample(t *testing.T) {
	// overlap 2 → 2*2 + 4.5 rating + 1 (24h SLA) = 9.5
	score, ok := MatchScore(testProject(), testVendor())
	require.True(t, ok)
	assert.Equal(t, 9.5, score)
}

func TestMatchScoreIneligible(t *testing.T) {
	t.Run("inactive vendor", func(t *testing.T) {
		vendor := testVendor()
		vendor.IsActive = false
		_, ok := MatchScore(testProject(), vendor)
		assert.False(t, ok)
	})

	t.Run("country not supported", func(t *testing.T) {
		project := testProject()
		project.Country = "Japan"
		_, ok := MatchScore(project, testVendor())
		assert.False(t, ok)
	})

	t.Run("no service overlap", func(t *testing.T) {
		vendor := testVendor()
		vendor.ServicesOffered = []string{"logistics"}
		_, ok := MatchScore(testProject(), vendor)
		assert.False(t, ok)
	})
}

func TestMatchScoreCountryIsExactMatch(t *testing.T) {
	// "USA" inside "USABC" must not count as coverage.
	project := testProject()
	project.Country = "USA"
	vendor := testVendor()
	vendor.CountriesSupported = []string{"USABC"}
	_, ok := MatchScore(project, vendor)
	assert.False(t, ok)

	vendor.CountriesSupported = []string{"USABC", "USA"}
	_, ok = MatchScore(project, vendor)
	assert.True(t, ok)
}

func TestMatchScoreIgnoresDuplicates(t *testing.T) {
	project := testProject()
	project.ServicesNeeded = []string{"legal", "legal", "accounting"}
	vendor := testVendor()
	vendor.ServicesOffered = []string{"legal", "legal", "accounting", "compliance"}

	score, ok := MatchScore(project, vendor)
	require.True(t, ok)
	assert.Equal(t, 9.5, score)
}

func TestMatchScoreRounding(t *testing.T) {
	// math.Round rounds half away from zero: 2 + 4.555 + 0 = 6.555 → 6.56.
	vendor := testVendor()
	vendor.ServicesOffered = []string{"legal"}
	vendor.Rating = 4.555
	vendor.ResponseSlaHours = 100

	score, ok := MatchScore(testProject(), vendor)
	require.True(t, ok)
	assert.Equal(t, 6.56, score)
}

func TestMatchScoreDeterministic(t *testing.T) {
	project, vendor := testProject(), testVendor()
	first, ok1 := MatchScore(project, vendor)
	second, ok2 := MatchScore(project, vendor)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

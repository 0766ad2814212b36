package services

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vendor-match-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProjectStore struct {
	projects map[string]*models.Project
	failIDs  map[string]error
}

func (f *fakeProjectStore) FindByID(id string) (*models.Project, error) {
	if err, ok := f.failIDs[id]; ok {
		return nil, err
	}
	project, ok := f.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (f *fakeProjectStore) FindAllByStatus(status string) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeVendorStore struct {
	vendors []models.Vendor
	err     error
}

func (f *fakeVendorStore) FindActiveByCountry(country string) ([]models.Vendor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Vendor
	for _, v := range f.vendors {
		if v.IsActive && containsString(v.CountriesSupported, country) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVendorStore) FindByMinSlaHours(threshold int) ([]models.Vendor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Vendor
	for _, v := range f.vendors {
		if v.ResponseSlaHours >= threshold {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeMatchStore struct {
	mu        sync.Mutex
	byProject map[string][]models.Match

	replaceErr   error
	replaceCalls int

	// interleaving detection for the serialization test
	busy        int32
	interleaved atomic.Bool
	delay       time.Duration
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{byProject: make(map[string][]models.Match)}
}

func (f *fakeMatchStore) ReplaceForProject(projectID string, matches []models.Match) error {
	if !atomic.CompareAndSwapInt32(&f.busy, 0, 1) {
		f.interleaved.Store(true)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	defer atomic.StoreInt32(&f.busy, 0)

	if f.replaceErr != nil {
		return f.replaceErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	f.byProject[projectID] = append([]models.Match(nil), matches...)
	return nil
}

func (f *fakeMatchStore) FindForProject(projectID string) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Match(nil), f.byProject[projectID]...), nil
}

type fakeNotifier struct {
	mu           sync.Mutex
	matchCreated []string
	scores       []float64
	slaVendors   []string
	summaries    []int
}

func (f *fakeNotifier) MatchCreated(project *models.Project, vendor *models.Vendor, score float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchCreated = append(f.matchCreated, vendor.ID)
	f.scores = append(f.scores, score)
}

func (f *fakeNotifier) SlaViolation(vendor *models.Vendor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slaVendors = append(f.slaVendors, vendor.ID)
}

func (f *fakeNotifier) DailySummary(matchCount int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, matchCount)
}

func matchingFixture() (*fakeProjectStore, *fakeVendorStore, *fakeMatchStore, *fakeNotifier, *MatchingService) {
	projects := &fakeProjectStore{projects: map[string]*models.Project{
		"p1": {
			ID:             "p1",
			Country:        "Germany",
			ServicesNeeded: []string{"legal", "accounting"},
			Status:         models.ProjectStatusActive,
		},
	}}
	vendors := &fakeVendorStore{vendors: []models.Vendor{
		{
			// overlap 2 → 4 + 4.5 + 1 = 9.5 (high value)
			ID: "v-high", Name: "High", IsActive: true,
			CountriesSupported: []string{"Germany"},
			ServicesOffered:    []string{"legal", "accounting"},
			Rating:             4.5, ResponseSlaHours: 24,
		},
		{
			// overlap 1 → 2 + 3.0 + 1 = 6.0
			ID: "v-low", Name: "Low", IsActive: true,
			CountriesSupported: []string{"Germany", "France"},
			ServicesOffered:    []string{"legal"},
			Rating:             3.0, ResponseSlaHours: 24,
		},
		{
			// zero overlap, silently skipped
			ID: "v-none", Name: "None", IsActive: true,
			CountriesSupported: []string{"Germany"},
			ServicesOffered:    []string{"logistics"},
			Rating:             5.0, ResponseSlaHours: 4,
		},
		{
			// wrong country, filtered by the store query
			ID: "v-elsewhere", Name: "Elsewhere", IsActive: true,
			CountriesSupported: []string{"Japan"},
			ServicesOffered:    []string{"legal"},
			Rating:             5.0, ResponseSlaHours: 4,
		},
	}}
	matches := newFakeMatchStore()
	notifier := &fakeNotifier{}
	svc := NewMatchingService(projects, vendors, matches, notifier)
	return projects, vendors, matches, notifier, svc
}

func TestRebuildMatchesScoresAndOrders(t *testing.T) {
	_, _, store, _, svc := matchingFixture()

	result, err := svc.RebuildMatches("p1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "v-high", result[0].VendorID)
	assert.Equal(t, 9.5, result[0].Score)
	assert.Equal(t, "v-low", result[1].VendorID)
	assert.Equal(t, 6.0, result[1].Score)

	persisted, err := store.FindForProject("p1")
	require.NoError(t, err)
	assert.Equal(t, result, persisted)
}

func TestRebuildMatchesTieOrdering(t *testing.T) {
	_, vendors, _, _, svc := matchingFixture()
	vendors.vendors = []models.Vendor{
		{ID: "v-b", IsActive: true, CountriesSupported: []string{"Germany"},
			ServicesOffered: []string{"legal"}, Rating: 3, ResponseSlaHours: 24},
		{ID: "v-a", IsActive: true, CountriesSupported: []string{"Germany"},
			ServicesOffered: []string{"legal"}, Rating: 3, ResponseSlaHours: 24},
	}

	result, err := svc.RebuildMatches("p1")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "v-a", result[0].VendorID, "equal scores break ties by vendor id ascending")
	assert.Equal(t, "v-b", result[1].VendorID)
}

func TestRebuildMatchesNotFound(t *testing.T) {
	_, _, _, _, svc := matchingFixture()
	_, err := svc.RebuildMatches("missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestRebuildMatchesHighScoreNotifications(t *testing.T) {
	_, _, _, notifier, svc := matchingFixture()

	_, err := svc.RebuildMatches("p1")
	require.NoError(t, err)

	// Only the 9.5 match crosses the threshold, exactly once.
	assert.Equal(t, []string{"v-high"}, notifier.matchCreated)
	assert.Equal(t, []float64{9.5}, notifier.scores)
}

func TestRebuildMatchesFullReplace(t *testing.T) {
	_, vendors, store, _, svc := matchingFixture()

	_, err := svc.RebuildMatches("p1")
	require.NoError(t, err)

	// Deactivate the low vendor; its old match must not survive the rebuild.
	for i := range vendors.vendors {
		if vendors.vendors[i].ID == "v-low" {
			vendors.vendors[i].IsActive = false
		}
	}

	result, err := svc.RebuildMatches("p1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "v-high", result[0].VendorID)

	persisted, err := store.FindForProject("p1")
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "v-high", persisted[0].VendorID)
}

func TestRebuildMatchesIdempotent(t *testing.T) {
	_, _, _, _, svc := matchingFixture()

	first, err := svc.RebuildMatches("p1")
	require.NoError(t, err)
	second, err := svc.RebuildMatches("p1")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].VendorID, second[i].VendorID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestRebuildMatchesPersistenceFailurePropagates(t *testing.T) {
	_, _, store, notifier, svc := matchingFixture()
	store.replaceErr = errors.New("storage unreachable")

	_, err := svc.RebuildMatches("p1")
	require.Error(t, err)
	assert.Empty(t, notifier.matchCreated, "no notifications when persistence failed")
}

func TestRebuildMatchesSerializedPerProject(t *testing.T) {
	_, _, store, _, svc := matchingFixture()
	store.delay = 2 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RebuildMatches("p1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, store.interleaved.Load(), "rebuilds for the same project interleaved")
	assert.Equal(t, 16, store.replaceCalls)
}

func TestRebuildMatchesDifferentProjectsRunConcurrently(t *testing.T) {
	projects, _, _, _, svc := matchingFixture()
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("p%d", i+2)
		projects.projects[id] = &models.Project{
			ID:             id,
			Country:        "Germany",
			ServicesNeeded: []string{"legal"},
			Status:         models.ProjectStatusActive,
		}
	}

	var wg sync.WaitGroup
	for id := range projects.projects {
		wg.Add(1)
		go func(projectID string) {
			defer wg.Done()
			_, err := svc.RebuildMatches(projectID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	// The lock arena must be drained once nothing is in flight.
	svc.locks.mu.Lock()
	defer svc.locks.mu.Unlock()
	assert.Empty(t, svc.locks.held)
}

func TestProjectMatchesUnknownProject(t *testing.T) {
	_, _, _, _, svc := matchingFixture()
	_, err := svc.ProjectMatches("missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

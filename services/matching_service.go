package services

import (
	"errors"
	"log"
	"sort"
	"sync"

	"vendor-match-system/models"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectStore loads projects for matching and scheduling. Implemented by the
// GORM stores; faked in tests.
type ProjectStore interface {
	FindByID(id string) (*models.Project, error)
	FindAllByStatus(status string) ([]models.Project, error)
}

// VendorStore loads candidate vendors. FindActiveByCountry returns active
// vendors whose coverage contains the country exactly; service overlap is
// checked later by the scoring policy.
type VendorStore interface {
	FindActiveByCountry(country string) ([]models.Vendor, error)
	FindByMinSlaHours(threshold int) ([]models.Vendor, error)
}

// MatchStore owns persistence of match sets. ReplaceForProject must apply the
// delete of all prior rows and the insert of the new generation atomically.
type MatchStore interface {
	ReplaceForProject(projectID string, matches []models.Match) error
	FindForProject(projectID string) ([]models.Match, error)
}

// MatchingService recomputes a project's matches from scratch. Rebuilds for
// the same project are serialized through a keyed lock arena so two
// delete+insert cycles can never interleave; different projects rebuild in
// parallel.
type MatchingService struct {
	projects ProjectStore
	vendors  VendorStore
	matches  MatchStore
	notifier Notifier

	locks projectLocks
}

func NewMatchingService(projects ProjectStore, vendors VendorStore, matches MatchStore, notifier Notifier) *MatchingService {
	return &MatchingService{
		projects: projects,
		vendors:  vendors,
		matches:  matches,
		notifier: notifier,
		locks:    projectLocks{held: make(map[string]*projectLock)},
	}
}

// RebuildMatches replaces the project's entire match set: load project, load
// active vendors serving its country, score each pair, persist the eligible
// ones in one transaction, then fire notifications for high-value matches.
// Notification dispatch is best-effort and can never undo the persisted set.
func (s *MatchingService) RebuildMatches(projectID string) ([]models.Match, error) {
	unlock := s.locks.acquire(projectID)
	defer unlock()

	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return nil, err
	}

	vendors, err := s.vendors.FindActiveByCountry(project.Country)
	if err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(vendors))
	vendorByID := make(map[string]models.Vendor, len(vendors))
	for _, vendor := range vendors {
		score, ok := MatchScore(project, &vendor)
		if !ok {
			continue
		}
		vendorByID[vendor.ID] = vendor
		matches = append(matches, models.Match{
			ProjectID: projectID,
			VendorID:  vendor.ID,
			Score:     score,
		})
	}

	// Score descending, vendor id ascending on ties, so repeated rebuilds
	// return the same order.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].VendorID < matches[j].VendorID
	})

	if err := s.matches.ReplaceForProject(projectID, matches); err != nil {
		return nil, err
	}

	for _, m := range matches {
		if m.Score >= HighScoreThreshold {
			vendor := vendorByID[m.VendorID]
			s.notifier.MatchCreated(project, &vendor, m.Score)
		}
	}

	log.Printf("🔗 Rebuilt matches for project %s: %d vendor(s) matched", projectID, len(matches))
	return matches, nil
}

// ProjectMatches returns the stored match set ordered by score descending,
// vendor id ascending. Fails with ErrProjectNotFound for unknown projects.
func (s *MatchingService) ProjectMatches(projectID string) ([]models.Match, error) {
	if _, err := s.projects.FindByID(projectID); err != nil {
		return nil, err
	}
	return s.matches.FindForProject(projectID)
}

// projectLocks is an arena of per-project mutexes, created on demand and
// discarded once nobody holds or waits on them. A single global lock would
// needlessly serialize rebuilds of unrelated projects.
type projectLocks struct {
	mu   sync.Mutex
	held map[string]*projectLock
}

type projectLock struct {
	sync.Mutex
	refs int
}

func (a *projectLocks) acquire(key string) (release func()) {
	a.mu.Lock()
	l, ok := a.held[key]
	if !ok {
		l = &projectLock{}
		a.held[key] = l
	}
	l.refs++
	a.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		a.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(a.held, key)
		}
		a.mu.Unlock()
	}
}

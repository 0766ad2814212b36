package services

import (
	"log"
	"os"
	"strconv"

	"vendor-match-system/models"

	"github.com/go-co-op/gocron/v2"
)

// DefaultSlaViolationHours is the audit threshold when SLA_VIOLATION_HOURS
// is unset: vendors committing to 72h or slower get flagged.
const DefaultSlaViolationHours = 72

// Scheduler owns the two recurring jobs: the nightly match refresh over all
// active projects and the morning SLA audit over slow vendors. It is created
// once at boot, started once, and shut down with the process; jobs keep no
// state between runs — a failed run just waits for the next firing.
type Scheduler struct {
	cron     gocron.Scheduler
	matching *MatchingService
	projects ProjectStore
	vendors  VendorStore
	notifier Notifier

	slaViolationHours int
}

func NewScheduler(matching *MatchingService, projects ProjectStore, vendors VendorStore, notifier Notifier) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	threshold := DefaultSlaViolationHours
	if v := os.Getenv("SLA_VIOLATION_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			threshold = parsed
		}
	}

	return &Scheduler{
		cron:              cron,
		matching:          matching,
		projects:          projects,
		vendors:           vendors,
		notifier:          notifier,
		slaViolationHours: threshold,
	}, nil
}

// Start registers both jobs and begins firing them. Refresh runs daily at
// 02:00, the SLA audit at 09:00, so the audit never overlaps the heavy
// rebuild window.
func (s *Scheduler) Start() error {
	if _, err := s.cron.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(s.RefreshDailyMatches),
	); err != nil {
		return err
	}

	if _, err := s.cron.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
		gocron.NewTask(s.CheckSlaViolations),
	); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Scheduler running (match refresh 02:00, SLA audit 09:00)")
	return nil
}

func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// RefreshDailyMatches rebuilds the match set of every active project. One
// project failing never stops the others; failures are counted and the run
// always ends with a daily summary for the matches that were created.
func (s *Scheduler) RefreshDailyMatches() {
	log.Println("[Scheduler] Starting daily match refresh...")

	activeProjects, err := s.projects.FindAllByStatus(models.ProjectStatusActive)
	if err != nil {
		log.Printf("[Scheduler] ❌ Daily match refresh failed: %v", err)
		return
	}

	totalMatches := 0
	failed := 0
	for _, project := range activeProjects {
		matches, err := s.matching.RebuildMatches(project.ID)
		if err != nil {
			failed++
			log.Printf("[Scheduler] ❌ Failed to rebuild matches for project %s: %v", project.ID, err)
			continue
		}
		totalMatches += len(matches)
	}

	log.Printf("[Scheduler] Daily match refresh completed: %d matches across %d project(s), %d failure(s)",
		totalMatches, len(activeProjects), failed)
	s.notifier.DailySummary(totalMatches)
}

// CheckSlaViolations flags vendors whose committed response time meets or
// exceeds the violation threshold. Read-only; one alert per vendor per run.
func (s *Scheduler) CheckSlaViolations() {
	log.Println("[Scheduler] Checking for SLA violations...")

	vendors, err := s.vendors.FindByMinSlaHours(s.slaViolationHours)
	if err != nil {
		log.Printf("[Scheduler] ❌ SLA check failed: %v", err)
		return
	}

	for i := range vendors {
		s.notifier.SlaViolation(&vendors[i])
	}

	log.Printf("[Scheduler] SLA check completed: %d violation(s) found", len(vendors))
}

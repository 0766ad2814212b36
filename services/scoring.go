package services

import (
	"math"

	"vendor-match-system/models"
)

// HighScoreThreshold marks a match worth an immediate notification.
const HighScoreThreshold = 8.0

// MatchScore computes the compatibility score between a project and a vendor.
// Returns ok=false when the vendor is ineligible: inactive, not serving the
// project's country, or offering none of the needed services. Pure and
// deterministic; duplicates in the input slices are ignored.
//
// score = overlap*2 + rating + slaWeight(responseSlaHours), rounded to two
// decimals (math.Round, half away from zero).
func MatchScore(project *models.Project, vendor *models.Vendor) (float64, bool) {
	if !vendor.IsActive {
		return 0, false
	}
	if !containsString(vendor.CountriesSupported, project.Country) {
		return 0, false
	}

	overlap := serviceOverlap(project.ServicesNeeded, vendor.ServicesOffered)
	if overlap == 0 {
		return 0, false
	}

	score := float64(overlap)*2 + vendor.Rating + slaWeight(vendor.ResponseSlaHours)
	return math.Round(score*100) / 100, true
}

// slaWeight rewards faster response commitments. Boundary values fall into
// the better bucket (4h still scores 2).
func slaWeight(hours int) float64 {
	switch {
	case hours <= 4:
		return 2
	case hours <= 12:
		return 1.5
	case hours <= 24:
		return 1
	case hours <= 48:
		return 0.5
	default:
		return 0
	}
}

// serviceOverlap counts the distinct services present in both sets.
func serviceOverlap(needed, offered []string) int {
	offeredSet := make(map[string]struct{}, len(offered))
	for _, s := range offered {
		offeredSet[s] = struct{}{}
	}

	counted := make(map[string]struct{}, len(needed))
	overlap := 0
	for _, s := range needed {
		if _, dup := counted[s]; dup {
			continue
		}
		counted[s] = struct{}{}
		if _, ok := offeredSet[s]; ok {
			overlap++
		}
	}
	return overlap
}

// containsString is an exact element check. Country and service membership
// must never degrade into substring matching ("USA" inside "USABC").
func containsString(set []string, want string) bool {
	for _, s := range set {
		if s == want {
			return true
		}
	}
	return false
}

// Package filter narrows an already fetched profile list. It never touches
// the database and is safe to recompute on every criteria change.
package filter

import (
	"strings"
	"time"

	"github.com/vishwam-chepuri/matching-app/internal/models"
)

// Criteria holds every independent predicate. Zero values impose no
// constraint.
type Criteria struct {
	Search      string   `query:"search"`
	Status      string   `query:"status"`
	EduLevel    string   `query:"edu_level"`
	Caste       string   `query:"caste"`
	CompanyCity string   `query:"company_city"`
	NativeCity  string   `query:"native_city"`
	MinAge      *int     `query:"min_age"`
	MaxAge      *int     `query:"max_age"`
	MinHeight   *int     `query:"min_height"`
	MaxHeight   *int     `query:"max_height"`
	MinPackage  *float64 `query:"min_package"`
	MaxPackage  *float64 `query:"max_package"`
	StarredOnly bool     `query:"starred_only"`
}

// Empty reports whether no predicate is set.
func (c Criteria) Empty() bool {
	return c.Search == "" && c.Status == "" && c.EduLevel == "" && c.Caste == "" &&
		c.CompanyCity == "" && c.NativeCity == "" &&
		c.MinAge == nil && c.MaxAge == nil &&
		c.MinHeight == nil && c.MaxHeight == nil &&
		c.MinPackage == nil && c.MaxPackage == nil &&
		!c.StarredOnly
}

// View returns the profiles matching every criterion, in input order.
func View(profiles []models.Profile, c Criteria, now time.Time) []models.Profile {
	out := make([]models.Profile, 0, len(profiles))
	for i := range profiles {
		if Match(&profiles[i], c, now) {
			out = append(out, profiles[i])
		}
	}
	return out
}

func Match(p *models.Profile, c Criteria, now time.Time) bool {
	if s := strings.ToLower(strings.TrimSpace(c.Search)); s != "" {
		if !strings.Contains(searchText(p), s) {
			return false
		}
	}
	if c.Status != "" && string(p.Status) != c.Status {
		return false
	}
	if c.EduLevel != "" && p.EduLevel != c.EduLevel {
		return false
	}
	if c.Caste != "" && p.Caste != c.Caste {
		return false
	}
	if c.CompanyCity != "" && p.CompanyLocation != c.CompanyCity {
		return false
	}
	if c.NativeCity != "" && p.City != c.NativeCity {
		return false
	}

	if c.MinAge != nil || c.MaxAge != nil {
		age := p.Age(now)
		if c.MinAge != nil && age < *c.MinAge {
			return false
		}
		if c.MaxAge != nil && age > *c.MaxAge {
			return false
		}
	}

	// A profile with no height or package cannot satisfy a bound on it.
	if c.MinHeight != nil && (p.HeightCm == nil || *p.HeightCm < *c.MinHeight) {
		return false
	}
	if c.MaxHeight != nil && (p.HeightCm == nil || *p.HeightCm > *c.MaxHeight) {
		return false
	}
	if c.MinPackage != nil && (p.Package == nil || *p.Package < *c.MinPackage) {
		return false
	}
	if c.MaxPackage != nil && (p.Package == nil || *p.Package > *c.MaxPackage) {
		return false
	}

	if c.StarredOnly && !p.Starred {
		return false
	}
	return true
}

func searchText(p *models.Profile) string {
	parts := make([]string, 0, 6)
	for _, s := range []string{p.FirstName, p.LastName, p.City, p.ProfessionTitle, p.Company, p.CompanyLocation} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vishwam-chepuri/matching-app/internal/filter"
	"github.com/vishwam-chepuri/matching-app/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

var now = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

func fixtures() []models.Profile {
	return []models.Profile{
		{
			ID: 1, FirstName: "Priya", LastName: "Sharma", City: "Mumbai",
			DateOfBirth: models.NewDate(1998, time.April, 12), HeightCm: intPtr(160),
			Package: floatPtr(18.5), ProfessionTitle: "Software Engineer", Company: "Infosys",
			CompanyLocation: "Pune", Status: models.StatusNew, Caste: "Brahmin", EduLevel: "Masters",
			Starred: true,
		},
		{
			ID: 2, FirstName: "Ananya", LastName: "Iyer", City: "Chennai",
			DateOfBirth: models.NewDate(1994, time.January, 3), HeightCm: intPtr(170),
			Package: floatPtr(32), ProfessionTitle: "Doctor", CompanyLocation: "Bengaluru",
			Status: models.StatusShortlisted, Caste: "Iyer", EduLevel: "MBBS",
		},
		{
			ID: 3, FirstName: "Meera", LastName: "Patel", City: "Ahmedabad",
			DateOfBirth: models.NewDate(2000, time.June, 30),
			Status:      models.StatusNew,
		},
	}
}

func ids(profiles []models.Profile) []uint {
	out := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}

func TestView(t *testing.T) {
	tests := []struct {
		name     string
		criteria filter.Criteria
		want     []uint
	}{
		{"no criteria keeps everything", filter.Criteria{}, []uint{1, 2, 3}},
		{"search is case insensitive", filter.Criteria{Search: "  INFOSYS "}, []uint{1}},
		{"search covers city", filter.Criteria{Search: "chen"}, []uint{2}},
		{"search ignores notes", filter.Criteria{Search: "brahmin"}, []uint{}},
		{"status exact", filter.Criteria{Status: "New"}, []uint{1, 3}},
		{"education exact", filter.Criteria{EduLevel: "MBBS"}, []uint{2}},
		{"caste exact", filter.Criteria{Caste: "Iyer"}, []uint{2}},
		{"work city", filter.Criteria{CompanyCity: "Pune"}, []uint{1}},
		{"native city", filter.Criteria{NativeCity: "Ahmedabad"}, []uint{3}},
		{"age range inclusive", filter.Criteria{MinAge: intPtr(26), MaxAge: intPtr(28)}, []uint{1, 3}},
		{"min height drops missing heights", filter.Criteria{MinHeight: intPtr(150)}, []uint{1, 2}},
		{"max height inclusive", filter.Criteria{MaxHeight: intPtr(160)}, []uint{1}},
		{"package range", filter.Criteria{MinPackage: floatPtr(20), MaxPackage: floatPtr(32)}, []uint{2}},
		{"starred only", filter.Criteria{StarredOnly: true}, []uint{1}},
		{"conjunction", filter.Criteria{Status: "New", Search: "patel"}, []uint{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.View(fixtures(), tt.criteria, now)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestView_Idempotent(t *testing.T) {
	c := filter.Criteria{Status: "New", MinAge: intPtr(20)}
	once := filter.View(fixtures(), c, now)
	twice := filter.View(once, c, now)
	assert.Equal(t, ids(once), ids(twice))
}

func TestCriteria_Empty(t *testing.T) {
	assert.True(t, filter.Criteria{}.Empty())
	assert.False(t, filter.Criteria{StarredOnly: true}.Empty())
	assert.False(t, filter.Criteria{MaxPackage: floatPtr(1)}.Empty())
}

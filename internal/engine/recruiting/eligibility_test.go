package recruiting

import (
	"testing"

	"scouthub/internal/platform/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func baseProfile() *models.PlayerProfile {
	return &models.PlayerProfile{
		Age:        20,
		Gender:     "male",
		Device:     "mobile",
		KDRatio:    2.1,
		AvgDamage:  750,
		Roles:      []string{"duelist"},
		BanHistory: false,
	}
}

func baseScouting() *models.Scouting {
	return &models.Scouting{
		RequiredRoles:     []string{"duelist"},
		AllowedDevices:    []string{"mobile", "tablet"},
		MinAge:            intPtr(18),
		MaxAge:            intPtr(25),
		AllowedGenders:    []string{"male", "female"},
		BanHistoryAllowed: false,
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *models.PlayerProfile, s *models.Scouting)
		expected bool
	}{
		{
			name:     "All Requirements Met",
			mutate:   func(p *models.PlayerProfile, s *models.Scouting) {},
			expected: true,
		},
		{
			name: "No Role Overlap",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				s.RequiredRoles = []string{"sniper", "support"}
			},
			expected: false,
		},
		{
			name: "Role Overlap On Second Role",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.Roles = []string{"support", "duelist"}
			},
			expected: true,
		},
		{
			name: "Device Not Allowed",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.Device = "pc"
			},
			expected: false,
		},
		{
			name: "Below Minimum Age",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.Age = 17
			},
			expected: false,
		},
		{
			name: "Above Maximum Age",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.Age = 26
			},
			expected: false,
		},
		{
			name: "Unset Age Bounds Do Not Constrain",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.Age = 99
				s.MinAge = nil
				s.MaxAge = nil
			},
			expected: true,
		},
		{
			name: "Gender Not Allowed",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				s.AllowedGenders = []string{"female"}
			},
			expected: false,
		},
		{
			name: "Below Minimum KD",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				s.MinKDRatio = floatPtr(2.5)
			},
			expected: false,
		},
		{
			name: "KD Exactly At Threshold",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				s.MinKDRatio = floatPtr(2.1)
			},
			expected: true,
		},
		{
			name: "Below Minimum Damage",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				s.MinAvgDamage = floatPtr(800)
			},
			expected: false,
		},
		{
			name: "Ban History Disallowed",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.BanHistory = true
			},
			expected: false,
		},
		{
			name: "Ban History Allowed",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.BanHistory = true
				s.BanHistoryAllowed = true
			},
			expected: true,
		},
		{
			name: "Unrelated Field Does Not Flip Result",
			mutate: func(p *models.PlayerProfile, s *models.Scouting) {
				p.Country = "BR"
				p.DisplayName = "someone else"
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := baseProfile()
			scouting := baseScouting()
			tt.mutate(profile, scouting)

			result := Matches(profile, scouting)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
			// Pure function: same inputs, same answer.
			if again := Matches(profile, scouting); again != result {
				t.Errorf("Matches is not deterministic: %v then %v", result, again)
			}
		})
	}
}

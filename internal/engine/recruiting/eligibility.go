package recruiting

import "scouthub/internal/platform/models"

// Matches reports whether a player profile satisfies every requirement of a
// scouting. All predicates must hold; the first failing one decides. There is
// no partial-credit scoring. Unset bounds (nil) mean "no constraint".
func Matches(profile *models.PlayerProfile, scouting *models.Scouting) bool {
	if !hasRoleOverlap(profile.Roles, scouting.RequiredRoles) {
		return false
	}
	if !contains(scouting.AllowedDevices, profile.Device) {
		return false
	}
	if scouting.MinAge != nil && profile.Age < *scouting.MinAge {
		return false
	}
	if scouting.MaxAge != nil && profile.Age > *scouting.MaxAge {
		return false
	}
	if !contains(scouting.AllowedGenders, profile.Gender) {
		return false
	}
	if scouting.MinKDRatio != nil && profile.KDRatio < *scouting.MinKDRatio {
		return false
	}
	if scouting.MinAvgDamage != nil && profile.AvgDamage < *scouting.MinAvgDamage {
		return false
	}
	if !scouting.BanHistoryAllowed && profile.BanHistory {
		return false
	}
	return true
}

func hasRoleOverlap(playerRoles, requiredRoles []string) bool {
	for _, have := range playerRoles {
		for _, want := range requiredRoles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

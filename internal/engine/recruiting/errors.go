package recruiting

import "errors"

// Business-rule violations surfaced to the caller. Handlers map these to
// HTTP status codes; anything not in this list is treated as internal.
var (
	ErrProfileNotFound     = errors.New("player profile not found")
	ErrOrgNotFound         = errors.New("organization not found")
	ErrScoutingNotFound    = errors.New("scouting not found")
	ErrApplicationNotFound = errors.New("application not found")

	ErrProfileIncomplete  = errors.New("profile is not completed")
	ErrAlreadyAffiliated  = errors.New("player already belongs to an organization")
	ErrNotAffiliated      = errors.New("player does not belong to an organization")
	ErrScoutingNotActive  = errors.New("scouting is not active")
	ErrNotEligible        = errors.New("player does not meet the scouting requirements")
	ErrAlreadyApplied     = errors.New("an active application for this scouting already exists")
	ErrScoutingFull       = errors.New("scouting has no remaining slots")
	ErrActiveScoutingOpen = errors.New("organization already has an active scouting")
	ErrIllegalTransition  = errors.New("illegal application state transition")
	ErrNotOwner           = errors.New("resource does not belong to the caller")
)

// IsDomainError reports whether err is a business-rule violation that should
// reach the client verbatim rather than be collapsed into a 500.
func IsDomainError(err error) bool {
	for _, known := range []error{
		ErrProfileNotFound, ErrOrgNotFound, ErrScoutingNotFound, ErrApplicationNotFound,
		ErrProfileIncomplete, ErrAlreadyAffiliated, ErrNotAffiliated,
		ErrScoutingNotActive, ErrNotEligible, ErrAlreadyApplied, ErrScoutingFull,
		ErrActiveScoutingOpen, ErrIllegalTransition, ErrNotOwner,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err identifies a missing or foreign resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrOrgNotFound) ||
		errors.Is(err, ErrScoutingNotFound) ||
		errors.Is(err, ErrApplicationNotFound) ||
		errors.Is(err, ErrNotOwner)
}

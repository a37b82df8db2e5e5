package recruiting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"scouthub/internal/engine/notifications"
	"scouthub/internal/platform/models"
	"scouthub/internal/platform/repositories"
	"scouthub/internal/realtime"
)

// Emitter is the slice of the realtime hub the orchestrator pushes through.
type Emitter interface {
	EmitToUser(userID, event string, data interface{})
}

// Notifier creates the durable notification records that back live pushes.
type Notifier interface {
	Notify(userID, typ, message string, relatedID *string) (*models.Notification, error)
}

// Service sequences the recruiting workflows: eligibility check, application
// state transitions, the joint selection commit and the resulting
// notification and live-event fan-out.
type Service struct {
	scoutings *ScoutingRepository
	apps      *ApplicationRepository
	profiles  *repositories.PlayerProfileRepository
	orgs      *repositories.OrganizationRepository
	users     *repositories.UserRepository
	notifier  Notifier
	emitter   Emitter
}

func NewService(
	scoutings *ScoutingRepository,
	apps *ApplicationRepository,
	profiles *repositories.PlayerProfileRepository,
	orgs *repositories.OrganizationRepository,
	users *repositories.UserRepository,
	notifier Notifier,
	emitter Emitter,
) *Service {
	return &Service{
		scoutings: scoutings,
		apps:      apps,
		profiles:  profiles,
		orgs:      orgs,
		users:     users,
		notifier:  notifier,
		emitter:   emitter,
	}
}

// Apply creates a pending application for the calling player, or revives a
// withdrawn one. A revived application does not re-run the eligibility
// filter: the player passed it when the original application was created.
func (s *Service) Apply(userID, scoutingID string) (*models.Application, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	scouting, err := s.scoutings.GetByID(scoutingID)
	if err != nil {
		return nil, err
	}
	if scouting == nil {
		return nil, ErrScoutingNotFound
	}
	if scouting.Status != models.ScoutingActive {
		return nil, ErrScoutingNotActive
	}

	existing, err := s.apps.GetByScoutingAndPlayer(scouting.ID, profile.ID)
	if err != nil {
		return nil, err
	}

	var app *models.Application
	if existing != nil {
		if existing.Status != models.ApplicationWithdrawn {
			return nil, ErrAlreadyApplied
		}
		ok, err := s.apps.Reapply(existing.ID, time.Now().Unix())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrIllegalTransition
		}
		app, err = s.apps.GetByID(existing.ID)
		if err != nil {
			return nil, err
		}
	} else {
		if !profile.ProfileCompleted {
			return nil, ErrProfileIncomplete
		}
		if profile.CurrentOrganizationID != nil {
			return nil, ErrAlreadyAffiliated
		}
		if !Matches(profile, scouting) {
			return nil, ErrNotEligible
		}

		now := time.Now().Unix()
		app = &models.Application{
			ID:             uuid.New().String(),
			ScoutingID:     scouting.ID,
			PlayerID:       profile.ID,
			OrganizationID: scouting.OrganizationID,
			Status:         models.ApplicationPending,
			AppliedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.apps.Create(app); err != nil {
			return nil, err
		}
	}

	app.Player = profile
	s.notifyOrg(scouting.OrganizationID,
		notifications.TypeNewApplicant,
		fmt.Sprintf("%s applied to your scouting %q", profile.DisplayName, scouting.Title),
		&app.ID,
		realtime.EventApplicantNew, app)

	return app, nil
}

// Withdraw moves the caller's pending application to withdrawn.
func (s *Service) Withdraw(userID, applicationID string) (*models.Application, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	app, err := s.apps.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.PlayerID != profile.ID {
		return nil, ErrApplicationNotFound
	}

	ok, err := s.apps.TransitionFromPending(app.ID, models.ApplicationWithdrawn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrIllegalTransition
	}
	app.Status = models.ApplicationWithdrawn

	if org, err := s.orgs.GetByID(app.OrganizationID); err == nil && org != nil {
		s.emitter.EmitToUser(org.UserID, realtime.EventApplicantWithdrawn,
			map[string]string{"applicationId": app.ID})
	}

	return app, nil
}

// Select accepts a pending application, filling one slot. The application
// status, the player's affiliation and the scouting counter move in one
// transaction; when two selections race for the last slot exactly one wins.
func (s *Service) Select(orgUserID, applicationID string) (*models.Application, error) {
	org, app, err := s.ownedApplication(orgUserID, applicationID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(app.PlayerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	scouting, err := s.scoutings.GetByID(app.ScoutingID)
	if err != nil {
		return nil, err
	}
	if scouting == nil {
		return nil, ErrScoutingNotFound
	}
	if scouting.Status != models.ScoutingActive {
		return nil, ErrScoutingNotActive
	}

	if err := s.apps.CommitSelection(app.ID, profile.ID, scouting.ID, org.ID); err != nil {
		return nil, err
	}
	app.Status = models.ApplicationSelected

	if _, err := s.notifier.Notify(profile.UserID, notifications.TypeSelected,
		fmt.Sprintf("You have been selected by %s", org.Name), &app.ID); err != nil {
		log.Error().Err(err).Str("user_id", profile.UserID).Msg("selection notification failed")
	}
	s.emitter.EmitToUser(profile.UserID, realtime.EventApplicationUpdated,
		map[string]string{"applicationId": app.ID, "status": app.Status})
	s.emitter.EmitToUser(profile.UserID, realtime.EventRosterUpdated,
		map[string]interface{}{"action": "add", "player": profile})

	return app, nil
}

// Reject moves a pending application to rejected.
func (s *Service) Reject(orgUserID, applicationID string) (*models.Application, error) {
	org, app, err := s.ownedApplication(orgUserID, applicationID)
	if err != nil {
		return nil, err
	}

	ok, err := s.apps.TransitionFromPending(app.ID, models.ApplicationRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrIllegalTransition
	}
	app.Status = models.ApplicationRejected

	if profile, err := s.profiles.GetByID(app.PlayerID); err == nil && profile != nil {
		if _, err := s.notifier.Notify(profile.UserID, notifications.TypeRejected,
			fmt.Sprintf("Your application to %s was rejected", org.Name), &app.ID); err != nil {
			log.Error().Err(err).Str("user_id", profile.UserID).Msg("rejection notification failed")
		}
		s.emitter.EmitToUser(profile.UserID, realtime.EventApplicationUpdated,
			map[string]string{"applicationId": app.ID, "status": app.Status})
	}

	return app, nil
}

// CreateScouting opens a new recruiting offer. An organization may only run
// one active scouting at a time. The scouting:new fan-out happens on a
// detached goroutine and never affects the creating request.
func (s *Service) CreateScouting(orgUserID string, scouting *models.Scouting) (*models.Scouting, error) {
	org, err := s.orgs.GetByUserID(orgUserID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}

	active, err := s.scoutings.GetActiveByOrganization(org.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveScoutingOpen
	}

	now := time.Now().Unix()
	scouting.ID = uuid.New().String()
	scouting.OrganizationID = org.ID
	scouting.SelectedCount = 0
	scouting.Status = models.ScoutingActive
	scouting.CreatedAt = now
	scouting.UpdatedAt = now

	if err := s.scoutings.Create(scouting); err != nil {
		return nil, err
	}

	go s.fanoutScoutingCreated(scouting, org)

	return scouting, nil
}

// fanoutScoutingCreated pushes scouting:new to every player account,
// per-recipient so the payload can carry the organization. Failures are
// swallowed per recipient; one offline player never blocks the rest.
func (s *Service) fanoutScoutingCreated(scouting *models.Scouting, org *models.Organization) {
	playerIDs, err := s.users.ListIDsByRole(models.RolePlayer)
	if err != nil {
		log.Warn().Err(err).Msg("scouting fan-out aborted, cannot list players")
		return
	}

	payload := map[string]interface{}{
		"scouting":     scouting,
		"organization": org,
	}
	for _, userID := range playerIDs {
		s.emitter.EmitToUser(userID, realtime.EventScoutingNew, payload)
	}

	log.Debug().Str("scouting_id", scouting.ID).Int("players", len(playerIDs)).Msg("scouting fan-out done")
}

// ScoutingUpdate carries the criteria fields an organization may edit on its
// active scouting. Nil means "leave unchanged".
type ScoutingUpdate struct {
	Title             *string
	RequiredRoles     []string
	AllowedDevices    []string
	MinAge            *int
	MaxAge            *int
	AllowedGenders    []string
	MinKDRatio        *float64
	MinAvgDamage      *float64
	BanHistoryAllowed *bool
}

func (s *Service) UpdateScouting(orgUserID, scoutingID string, upd *ScoutingUpdate) (*models.Scouting, error) {
	_, scouting, err := s.ownedScouting(orgUserID, scoutingID)
	if err != nil {
		return nil, err
	}
	if scouting.Status != models.ScoutingActive {
		return nil, ErrScoutingNotActive
	}

	if upd.Title != nil {
		scouting.Title = *upd.Title
	}
	if upd.RequiredRoles != nil {
		scouting.RequiredRoles = upd.RequiredRoles
	}
	if upd.AllowedDevices != nil {
		scouting.AllowedDevices = upd.AllowedDevices
	}
	if upd.MinAge != nil {
		scouting.MinAge = upd.MinAge
	}
	if upd.MaxAge != nil {
		scouting.MaxAge = upd.MaxAge
	}
	if upd.AllowedGenders != nil {
		scouting.AllowedGenders = upd.AllowedGenders
	}
	if upd.MinKDRatio != nil {
		scouting.MinKDRatio = upd.MinKDRatio
	}
	if upd.MinAvgDamage != nil {
		scouting.MinAvgDamage = upd.MinAvgDamage
	}
	if upd.BanHistoryAllowed != nil {
		scouting.BanHistoryAllowed = *upd.BanHistoryAllowed
	}

	if err := s.scoutings.Update(scouting); err != nil {
		return nil, err
	}
	return scouting, nil
}

// CancelScouting sets the scouting to cancelled. Pending applications are
// left untouched; withdrawal remains their only exit.
func (s *Service) CancelScouting(orgUserID, scoutingID string) (*models.Scouting, error) {
	_, scouting, err := s.ownedScouting(orgUserID, scoutingID)
	if err != nil {
		return nil, err
	}

	if err := s.scoutings.Cancel(scouting.ID); err != nil {
		return nil, err
	}
	scouting.Status = models.ScoutingCancelled
	return scouting, nil
}

// RemoveFromRoster detaches a player from the calling organization's roster.
func (s *Service) RemoveFromRoster(orgUserID, profileID string) error {
	org, err := s.orgs.GetByUserID(orgUserID)
	if err != nil {
		return err
	}
	if org == nil {
		return ErrOrgNotFound
	}

	profile, err := s.profiles.GetByID(profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	cleared, err := s.profiles.ClearOrganization(profile.ID, org.ID)
	if err != nil {
		return err
	}
	if !cleared {
		return ErrNotAffiliated
	}

	if _, err := s.notifier.Notify(profile.UserID, notifications.TypeRosterRemoved,
		fmt.Sprintf("You have been removed from %s", org.Name), nil); err != nil {
		log.Error().Err(err).Str("user_id", profile.UserID).Msg("roster removal notification failed")
	}
	s.emitter.EmitToUser(profile.UserID, realtime.EventRosterUpdated,
		map[string]interface{}{"action": "remove", "playerId": profile.ID})

	return nil
}

// LeaveOrganization detaches the calling player from their organization and
// tells the organization about it.
func (s *Service) LeaveOrganization(userID string) error {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}
	if profile.CurrentOrganizationID == nil {
		return ErrNotAffiliated
	}
	orgID := *profile.CurrentOrganizationID

	cleared, err := s.profiles.ClearOrganization(profile.ID, orgID)
	if err != nil {
		return err
	}
	if !cleared {
		return ErrNotAffiliated
	}

	if org, err := s.orgs.GetByID(orgID); err == nil && org != nil {
		if _, err := s.notifier.Notify(org.UserID, notifications.TypeRosterLeft,
			fmt.Sprintf("%s left your roster", profile.DisplayName), &profile.ID); err != nil {
			log.Error().Err(err).Str("user_id", org.UserID).Msg("roster leave notification failed")
		}
		s.emitter.EmitToUser(org.UserID, realtime.EventRosterUpdated,
			map[string]interface{}{"action": "remove", "playerId": profile.ID})
	}

	return nil
}

func (s *Service) GetScouting(id string) (*models.Scouting, error) {
	scouting, err := s.scoutings.GetByID(id)
	if err != nil {
		return nil, err
	}
	if scouting == nil {
		return nil, ErrScoutingNotFound
	}
	return scouting, nil
}

func (s *Service) ListActiveScoutings(limit, offset int) ([]*models.Scouting, error) {
	return s.scoutings.ListActive(limit, offset)
}

func (s *Service) ListOwnScoutings(orgUserID string) ([]*models.Scouting, error) {
	org, err := s.orgs.GetByUserID(orgUserID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}
	return s.scoutings.ListByOrganization(org.ID)
}

// ListScoutingApplications returns a scouting's applications, populated with
// player profiles, for the owning organization.
func (s *Service) ListScoutingApplications(orgUserID, scoutingID string) ([]*models.Application, error) {
	_, scouting, err := s.ownedScouting(orgUserID, scoutingID)
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.ListByScouting(scouting.ID)
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		profile, err := s.profiles.GetByID(app.PlayerID)
		if err != nil {
			return nil, err
		}
		app.Player = profile
	}
	return apps, nil
}

func (s *Service) ListOwnApplications(userID string) ([]*models.Application, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.apps.ListByPlayer(profile.ID)
}

func (s *Service) Roster(orgUserID string) ([]*models.PlayerProfile, error) {
	org, err := s.orgs.GetByUserID(orgUserID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}
	return s.profiles.ListByOrganization(org.ID)
}

// ownedApplication resolves the caller's organization and an application it
// owns. Foreign applications surface as not-found, not forbidden.
func (s *Service) ownedApplication(orgUserID, applicationID string) (*models.Organization, *models.Application, error) {
	org, err := s.orgs.GetByUserID(orgUserID)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, ErrOrgNotFound
	}

	app, err := s.apps.GetByID(applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app == nil || app.OrganizationID != org.ID {
		return nil, nil, ErrApplicationNotFound
	}
	return org, app, nil
}

func (s *Service) ownedScouting(orgUserID, scoutingID string) (*models.Organization, *models.Scouting, error) {
	org, err := s.orgs.GetByUserID(orgUserID)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, ErrOrgNotFound
	}

	scouting, err := s.scoutings.GetByID(scoutingID)
	if err != nil {
		return nil, nil, err
	}
	if scouting == nil || scouting.OrganizationID != org.ID {
		return nil, nil, ErrScoutingNotFound
	}
	return org, scouting, nil
}

// notifyOrg persists a notification for the organization's owning account
// and pushes the given live event alongside it. Failures are logged, never
// propagated: the triggering workflow already committed.
func (s *Service) notifyOrg(orgID, typ, message string, relatedID *string, event string, payload interface{}) {
	org, err := s.orgs.GetByID(orgID)
	if err != nil || org == nil {
		log.Warn().Err(err).Str("org_id", orgID).Msg("notify skipped, organization lookup failed")
		return
	}
	if _, err := s.notifier.Notify(org.UserID, typ, message, relatedID); err != nil {
		log.Error().Err(err).Str("user_id", org.UserID).Msg("notification persist failed")
	}
	s.emitter.EmitToUser(org.UserID, event, payload)
}

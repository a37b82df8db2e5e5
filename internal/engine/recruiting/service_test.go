package recruiting

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"scouthub/internal/engine/notifications"
	"scouthub/internal/platform/models"
	"scouthub/internal/platform/repositories"
)

type emittedEvent struct {
	UserID string
	Event  string
	Data   interface{}
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (f *fakeEmitter) EmitToUser(userID, event string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emittedEvent{UserID: userID, Event: event, Data: data})
}

func (f *fakeEmitter) eventsFor(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, e := range f.events {
		if e.UserID == userID {
			names = append(names, e.Event)
		}
	}
	return names
}

func (f *fakeEmitter) waitFor(userID, event string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, name := range f.eventsFor(userID) {
			if name == event {
				return true
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func newTestService(t *testing.T, db *sql.DB) (*Service, *fakeEmitter) {
	t.Helper()

	emitter := &fakeEmitter{}
	notifier := notifications.NewService(notifications.NewRepository(db), emitter)
	svc := NewService(
		NewScoutingRepository(db),
		NewApplicationRepository(db),
		repositories.NewPlayerProfileRepository(db),
		repositories.NewOrganizationRepository(db),
		repositories.NewUserRepository(db),
		notifier,
		emitter,
	)
	return svc, emitter
}

func seedUser(t *testing.T, db *sql.DB, role string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES (?, ?, 'x', ?, ?)
	`, id, id+"@example.com", role, time.Now().Unix())
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return id
}

func seedOrg(t *testing.T, db *sql.DB, userID string) *models.Organization {
	t.Helper()

	org := &models.Organization{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      "Night Raid",
		Tag:       "NR",
		Region:    "APAC",
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
	}
	if err := repositories.NewOrganizationRepository(db).Create(org); err != nil {
		t.Fatalf("Failed to seed org: %v", err)
	}
	return org
}

func countNotifications(t *testing.T, db *sql.DB, userID string) int {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM notifications WHERE user_id = ?", userID).Scan(&count); err != nil {
		t.Fatalf("Failed to count notifications: %v", err)
	}
	return count
}

func TestApply_CreatesPendingApplication(t *testing.T) {
	db := setupTestDB(t)
	svc, emitter := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	playerUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, playerUser)

	app, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Errorf("Expected pending, got %s", app.Status)
	}
	if app.Player == nil {
		t.Error("Expected populated player profile on the application")
	}

	if got := countNotifications(t, db, orgUser); got != 1 {
		t.Errorf("Expected 1 notification for the organization, got %d", got)
	}
	events := emitter.eventsFor(orgUser)
	if len(events) != 2 || events[0] != "notification:new" || events[1] != "applicant:new" {
		t.Errorf("Unexpected events for organization: %v", events)
	}
}

func TestApply_Preconditions(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	t.Run("No Profile", func(t *testing.T) {
		user := seedUser(t, db, models.RolePlayer)
		if _, err := svc.Apply(user, sc.ID); err != ErrProfileNotFound {
			t.Errorf("Expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("Incomplete Profile", func(t *testing.T) {
		user := seedUser(t, db, models.RolePlayer)
		profile := seedProfile(t, db, user)
		db.Exec("UPDATE player_profiles SET profile_completed = 0 WHERE id = ?", profile.ID)
		if _, err := svc.Apply(user, sc.ID); err != ErrProfileIncomplete {
			t.Errorf("Expected ErrProfileIncomplete, got %v", err)
		}
	})

	t.Run("Already Affiliated", func(t *testing.T) {
		user := seedUser(t, db, models.RolePlayer)
		profile := seedProfile(t, db, user)
		db.Exec("UPDATE player_profiles SET current_organization_id = 'some-org' WHERE id = ?", profile.ID)
		if _, err := svc.Apply(user, sc.ID); err != ErrAlreadyAffiliated {
			t.Errorf("Expected ErrAlreadyAffiliated, got %v", err)
		}
	})

	t.Run("Not Eligible", func(t *testing.T) {
		user := seedUser(t, db, models.RolePlayer)
		profile := seedProfile(t, db, user)
		db.Exec("UPDATE player_profiles SET device = 'pc' WHERE id = ?", profile.ID)
		if _, err := svc.Apply(user, sc.ID); err != ErrNotEligible {
			t.Errorf("Expected ErrNotEligible, got %v", err)
		}
	})

	t.Run("Duplicate Apply", func(t *testing.T) {
		user := seedUser(t, db, models.RolePlayer)
		seedProfile(t, db, user)
		if _, err := svc.Apply(user, sc.ID); err != nil {
			t.Fatalf("First apply failed: %v", err)
		}
		if _, err := svc.Apply(user, sc.ID); err != ErrAlreadyApplied {
			t.Errorf("Expected ErrAlreadyApplied, got %v", err)
		}
	})

	t.Run("Unknown Scouting", func(t *testing.T) {
		user := seedUser(t, db, models.RolePlayer)
		seedProfile(t, db, user)
		if _, err := svc.Apply(user, "missing"); err != ErrScoutingNotFound {
			t.Errorf("Expected ErrScoutingNotFound, got %v", err)
		}
	})
}

func TestWithdrawAndReapply(t *testing.T) {
	db := setupTestDB(t)
	svc, emitter := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	playerUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, playerUser)

	app, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	withdrawn, err := svc.Withdraw(playerUser, app.ID)
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if withdrawn.Status != models.ApplicationWithdrawn {
		t.Errorf("Expected withdrawn, got %s", withdrawn.Status)
	}
	if !emitter.waitFor(orgUser, "applicant:withdrawn", time.Second) {
		t.Error("Expected applicant:withdrawn event for organization")
	}

	// Withdrawing twice is an illegal transition, not a no-op.
	if _, err := svc.Withdraw(playerUser, app.ID); err != ErrIllegalTransition {
		t.Errorf("Expected ErrIllegalTransition, got %v", err)
	}

	// Re-application reuses the row and deliberately skips the eligibility
	// re-check: raising the KD bar after the fact does not block it.
	kd := 99.0
	if _, err := svc.UpdateScouting(orgUser, sc.ID, &ScoutingUpdate{MinKDRatio: &kd}); err != nil {
		t.Fatalf("UpdateScouting failed: %v", err)
	}

	reapplied, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Reapply failed: %v", err)
	}
	if reapplied.ID != app.ID {
		t.Errorf("Expected reused application row %s, got %s", app.ID, reapplied.ID)
	}
	if reapplied.Status != models.ApplicationPending {
		t.Errorf("Expected pending, got %s", reapplied.Status)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM applications").Scan(&count)
	if count != 1 {
		t.Errorf("Expected 1 application row, got %d", count)
	}
}

func TestSelect_CompletesScouting(t *testing.T) {
	db := setupTestDB(t)
	svc, emitter := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	playerUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, playerUser)

	app, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	selected, err := svc.Select(orgUser, app.ID)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if selected.Status != models.ApplicationSelected {
		t.Errorf("Expected selected, got %s", selected.Status)
	}

	updated, _ := svc.GetScouting(sc.ID)
	if updated.SelectedCount != 1 || updated.Status != models.ScoutingCompleted {
		t.Errorf("Expected completed scouting with count 1, got %s/%d", updated.Status, updated.SelectedCount)
	}

	if got := countNotifications(t, db, playerUser); got != 1 {
		t.Errorf("Expected 1 persisted notification for the player, got %d", got)
	}
	for _, want := range []string{"notification:new", "application:updated", "roster:updated"} {
		if !emitter.waitFor(playerUser, want, time.Second) {
			t.Errorf("Expected %s event for player", want)
		}
	}

	// The filled scouting no longer accepts applications.
	secondUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, secondUser)
	if _, err := svc.Apply(secondUser, sc.ID); err != ErrScoutingNotActive {
		t.Errorf("Expected ErrScoutingNotActive, got %v", err)
	}

	// Selecting the same application again is illegal.
	if _, err := svc.Select(orgUser, app.ID); err != ErrScoutingNotActive {
		t.Errorf("Expected ErrScoutingNotActive, got %v", err)
	}
}

func TestSelect_ConcurrentLastSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "race.db")
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	svc, _ := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	var appIDs []string
	for i := 0; i < 2; i++ {
		user := seedUser(t, db, models.RolePlayer)
		seedProfile(t, db, user)
		app, err := svc.Apply(user, sc.ID)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		appIDs = append(appIDs, app.ID)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range appIDs {
		wg.Add(1)
		go func(applicationID string) {
			defer wg.Done()
			_, err := svc.Select(orgUser, applicationID)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var wins, capacityErrs int
	for err := range errs {
		switch err {
		case nil:
			wins++
		case ErrScoutingFull, ErrScoutingNotActive:
			// The loser fails either inside the transaction or already at
			// the pre-check, depending on interleaving.
			capacityErrs++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if wins != 1 || capacityErrs != 1 {
		t.Errorf("Expected exactly one winner and one capacity error, got wins=%d capacity=%d", wins, capacityErrs)
	}

	updated, _ := svc.GetScouting(sc.ID)
	if updated.SelectedCount != 1 {
		t.Errorf("Expected selected_count 1, got %d", updated.SelectedCount)
	}
	if updated.Status != models.ScoutingCompleted {
		t.Errorf("Expected completed, got %s", updated.Status)
	}
}

func TestReject(t *testing.T) {
	db := setupTestDB(t)
	svc, emitter := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 2)

	playerUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, playerUser)

	app, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	rejected, err := svc.Reject(orgUser, app.ID)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != models.ApplicationRejected {
		t.Errorf("Expected rejected, got %s", rejected.Status)
	}
	if !emitter.waitFor(playerUser, "application:updated", time.Second) {
		t.Error("Expected application:updated event for player")
	}

	// Rejected is terminal: no withdraw, no re-apply, no select.
	if _, err := svc.Withdraw(playerUser, app.ID); err != ErrIllegalTransition {
		t.Errorf("Expected ErrIllegalTransition on withdraw, got %v", err)
	}
	if _, err := svc.Apply(playerUser, sc.ID); err != ErrAlreadyApplied {
		t.Errorf("Expected ErrAlreadyApplied on re-apply, got %v", err)
	}
	if _, err := svc.Select(orgUser, app.ID); err != ErrIllegalTransition {
		t.Errorf("Expected ErrIllegalTransition on select, got %v", err)
	}
}

func TestCreateScouting_SingleActiveRule(t *testing.T) {
	db := setupTestDB(t)
	svc, emitter := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	seedOrg(t, db, orgUser)
	playerUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, playerUser)

	first, err := svc.CreateScouting(orgUser, &models.Scouting{
		Title:           "Tryouts",
		RequiredRoles:   []string{"duelist"},
		AllowedDevices:  []string{"mobile"},
		AllowedGenders:  []string{"male"},
		PlayersRequired: 2,
	})
	if err != nil {
		t.Fatalf("CreateScouting failed: %v", err)
	}
	if first.Status != models.ScoutingActive {
		t.Errorf("Expected active, got %s", first.Status)
	}

	// The fan-out runs detached; give it a moment.
	if !emitter.waitFor(playerUser, "scouting:new", time.Second) {
		t.Error("Expected scouting:new event for player")
	}

	if _, err := svc.CreateScouting(orgUser, &models.Scouting{
		Title:           "Second",
		PlayersRequired: 1,
	}); err != ErrActiveScoutingOpen {
		t.Errorf("Expected ErrActiveScoutingOpen, got %v", err)
	}

	if _, err := svc.CancelScouting(orgUser, first.ID); err != nil {
		t.Fatalf("CancelScouting failed: %v", err)
	}

	if _, err := svc.CreateScouting(orgUser, &models.Scouting{
		Title:           "Second",
		PlayersRequired: 1,
	}); err != nil {
		t.Errorf("Expected create to succeed after cancel, got %v", err)
	}
}

func TestCancelScouting_DoesNotCascade(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	playerUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, playerUser)

	app, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if _, err := svc.CancelScouting(orgUser, sc.ID); err != nil {
		t.Fatalf("CancelScouting failed: %v", err)
	}

	// Pending applications stay pending; withdrawal is still the only exit.
	fetched, _ := NewApplicationRepository(db).GetByID(app.ID)
	if fetched.Status != models.ApplicationPending {
		t.Errorf("Expected pending after cancel, got %s", fetched.Status)
	}
	if _, err := svc.Withdraw(playerUser, app.ID); err != nil {
		t.Errorf("Withdraw after cancel failed: %v", err)
	}
	// But re-applying to a cancelled scouting is refused.
	if _, err := svc.Apply(playerUser, sc.ID); err != ErrScoutingNotActive {
		t.Errorf("Expected ErrScoutingNotActive, got %v", err)
	}
}

func TestRosterLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc, emitter := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	playerUser := seedUser(t, db, models.RolePlayer)
	profile := seedProfile(t, db, playerUser)

	app, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := svc.Select(orgUser, app.ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	roster, err := svc.Roster(orgUser)
	if err != nil {
		t.Fatalf("Roster failed: %v", err)
	}
	if len(roster) != 1 || roster[0].ID != profile.ID {
		t.Fatalf("Expected roster of 1 with profile %s, got %+v", profile.ID, roster)
	}

	if err := svc.RemoveFromRoster(orgUser, profile.ID); err != nil {
		t.Fatalf("RemoveFromRoster failed: %v", err)
	}
	if !emitter.waitFor(playerUser, "roster:updated", time.Second) {
		t.Error("Expected roster:updated event for player")
	}

	roster, _ = svc.Roster(orgUser)
	if len(roster) != 0 {
		t.Errorf("Expected empty roster, got %d entries", len(roster))
	}

	// Removing again reports the player as unaffiliated.
	if err := svc.RemoveFromRoster(orgUser, profile.ID); err != ErrNotAffiliated {
		t.Errorf("Expected ErrNotAffiliated, got %v", err)
	}

	// Leaving without an affiliation is refused too.
	if err := svc.LeaveOrganization(playerUser); err != ErrNotAffiliated {
		t.Errorf("Expected ErrNotAffiliated, got %v", err)
	}
}

func TestLeaveOrganization(t *testing.T) {
	db := setupTestDB(t)
	svc, emitter := newTestService(t, db)

	orgUser := seedUser(t, db, models.RoleOrganization)
	org := seedOrg(t, db, orgUser)
	sc := seedScouting(t, db, org.ID, 1)

	playerUser := seedUser(t, db, models.RolePlayer)
	seedProfile(t, db, playerUser)

	app, err := svc.Apply(playerUser, sc.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := svc.Select(orgUser, app.ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if err := svc.LeaveOrganization(playerUser); err != nil {
		t.Fatalf("LeaveOrganization failed: %v", err)
	}
	if !emitter.waitFor(orgUser, "roster:updated", time.Second) {
		t.Error("Expected roster:updated event for organization")
	}

	var orgRef sql.NullString
	db.QueryRow("SELECT current_organization_id FROM player_profiles WHERE user_id = ?", playerUser).Scan(&orgRef)
	if orgRef.Valid {
		t.Errorf("Expected cleared affiliation, got %s", orgRef.String)
	}
}

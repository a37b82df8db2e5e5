package recruiting

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"scouthub/internal/platform/models"
)

type ScoutingRepository struct {
	db *sql.DB
}

func NewScoutingRepository(db *sql.DB) *ScoutingRepository {
	return &ScoutingRepository{db: db}
}

func (r *ScoutingRepository) Create(s *models.Scouting) error {
	rolesJSON, _ := json.Marshal(s.RequiredRoles)
	devicesJSON, _ := json.Marshal(s.AllowedDevices)
	gendersJSON, _ := json.Marshal(s.AllowedGenders)

	_, err := r.db.Exec(`
		INSERT INTO scoutings (
			id, organization_id, title, required_roles, allowed_devices,
			min_age, max_age, allowed_genders, min_kd_ratio, min_avg_damage,
			ban_history_allowed, players_required, selected_count, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.OrganizationID, s.Title, string(rolesJSON), string(devicesJSON),
		s.MinAge, s.MaxAge, string(gendersJSON), s.MinKDRatio, s.MinAvgDamage,
		s.BanHistoryAllowed, s.PlayersRequired, s.SelectedCount, s.Status,
		s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ScoutingRepository) GetByID(id string) (*models.Scouting, error) {
	row := r.db.QueryRow(scoutingSelect+" WHERE id = ?", id)
	return scanScouting(row)
}

// GetActiveByOrganization backs the one-active-scouting-per-organization rule.
func (r *ScoutingRepository) GetActiveByOrganization(orgID string) (*models.Scouting, error) {
	row := r.db.QueryRow(scoutingSelect+" WHERE organization_id = ? AND status = ?", orgID, models.ScoutingActive)
	return scanScouting(row)
}

func (r *ScoutingRepository) ListActive(limit, offset int) ([]*models.Scouting, error) {
	rows, err := r.db.Query(scoutingSelect+" WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		models.ScoutingActive, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScoutings(rows)
}

func (r *ScoutingRepository) ListByOrganization(orgID string) ([]*models.Scouting, error) {
	rows, err := r.db.Query(scoutingSelect+" WHERE organization_id = ? ORDER BY created_at DESC", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScoutings(rows)
}

// Update rewrites the eligibility criteria of a scouting. Capacity and status
// columns are owned by the selection transaction and never written here.
func (r *ScoutingRepository) Update(s *models.Scouting) error {
	rolesJSON, _ := json.Marshal(s.RequiredRoles)
	devicesJSON, _ := json.Marshal(s.AllowedDevices)
	gendersJSON, _ := json.Marshal(s.AllowedGenders)

	_, err := r.db.Exec(`
		UPDATE scoutings SET
			title = ?, required_roles = ?, allowed_devices = ?,
			min_age = ?, max_age = ?, allowed_genders = ?,
			min_kd_ratio = ?, min_avg_damage = ?, ban_history_allowed = ?,
			updated_at = ?
		WHERE id = ?
	`, s.Title, string(rolesJSON), string(devicesJSON),
		s.MinAge, s.MaxAge, string(gendersJSON),
		s.MinKDRatio, s.MinAvgDamage, s.BanHistoryAllowed,
		time.Now().Unix(), s.ID)
	return err
}

// Cancel is unconditional: the scouting keeps whatever applications it has,
// and pending ones stay pending.
func (r *ScoutingRepository) Cancel(id string) error {
	_, err := r.db.Exec("UPDATE scoutings SET status = ?, updated_at = ? WHERE id = ?",
		models.ScoutingCancelled, time.Now().Unix(), id)
	return err
}

const scoutingSelect = `
	SELECT id, organization_id, title, required_roles, allowed_devices,
	       min_age, max_age, allowed_genders, min_kd_ratio, min_avg_damage,
	       ban_history_allowed, players_required, selected_count, status,
	       created_at, updated_at
	FROM scoutings`

func scanScouting(s interface {
	Scan(dest ...interface{}) error
}) (*models.Scouting, error) {
	var sc models.Scouting
	var rolesRaw, devicesRaw, gendersRaw []byte
	var minAge, maxAge sql.NullInt64
	var minKD, minDmg sql.NullFloat64

	err := s.Scan(
		&sc.ID,
		&sc.OrganizationID,
		&sc.Title,
		&rolesRaw,
		&devicesRaw,
		&minAge,
		&maxAge,
		&gendersRaw,
		&minKD,
		&minDmg,
		&sc.BanHistoryAllowed,
		&sc.PlayersRequired,
		&sc.SelectedCount,
		&sc.Status,
		&sc.CreatedAt,
		&sc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if minAge.Valid {
		val := int(minAge.Int64)
		sc.MinAge = &val
	}
	if maxAge.Valid {
		val := int(maxAge.Int64)
		sc.MaxAge = &val
	}
	if minKD.Valid {
		val := minKD.Float64
		sc.MinKDRatio = &val
	}
	if minDmg.Valid {
		val := minDmg.Float64
		sc.MinAvgDamage = &val
	}
	if len(rolesRaw) > 0 {
		json.Unmarshal(rolesRaw, &sc.RequiredRoles)
	}
	if len(devicesRaw) > 0 {
		json.Unmarshal(devicesRaw, &sc.AllowedDevices)
	}
	if len(gendersRaw) > 0 {
		json.Unmarshal(gendersRaw, &sc.AllowedGenders)
	}

	return &sc, nil
}

func collectScoutings(rows *sql.Rows) ([]*models.Scouting, error) {
	var scoutings []*models.Scouting
	for rows.Next() {
		sc, err := scanScouting(rows)
		if err != nil {
			return nil, err
		}
		scoutings = append(scoutings, sc)
	}
	return scoutings, rows.Err()
}

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts the first application of a player to a scouting. The
// UNIQUE(scouting_id, player_id) index makes a concurrent duplicate apply
// fail deterministically instead of creating a second row.
func (r *ApplicationRepository) Create(a *models.Application) error {
	_, err := r.db.Exec(`
		INSERT INTO applications (id, scouting_id, player_id, organization_id, status, applied_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.ScoutingID, a.PlayerID, a.OrganizationID, a.Status, a.AppliedAt, a.UpdatedAt)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrAlreadyApplied
	}
	return err
}

func (r *ApplicationRepository) GetByID(id string) (*models.Application, error) {
	row := r.db.QueryRow(applicationSelect+" WHERE id = ?", id)
	return scanApplication(row)
}

func (r *ApplicationRepository) GetByScoutingAndPlayer(scoutingID, playerID string) (*models.Application, error) {
	row := r.db.QueryRow(applicationSelect+" WHERE scouting_id = ? AND player_id = ?", scoutingID, playerID)
	return scanApplication(row)
}

// Reapply flips a withdrawn application back to pending, reusing the
// existing row and refreshing applied_at. Reports false when the row was not
// in the withdrawn state.
func (r *ApplicationRepository) Reapply(id string, now int64) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE applications SET status = ?, applied_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, models.ApplicationPending, now, now, id, models.ApplicationWithdrawn)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// TransitionFromPending moves a pending application to the given state.
// Reports false when the application was not pending, which callers turn
// into an illegal-transition error.
func (r *ApplicationRepository) TransitionFromPending(id, status string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE applications SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, status, time.Now().Unix(), id, models.ApplicationPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CommitSelection applies the selection bundle atomically: the application
// becomes selected, the player gains an affiliation and the scouting counter
// advances (completing the scouting when the last slot fills). Each update is
// guarded so a concurrent selection can only half-match inside its own
// transaction; the loser rolls back with a typed error and no partial state.
func (r *ApplicationRepository) CommitSelection(appID, profileID, scoutingID, orgID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	res, err := tx.Exec(`
		UPDATE applications SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, models.ApplicationSelected, now, appID, models.ApplicationPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrIllegalTransition
	}

	res, err = tx.Exec(`
		UPDATE player_profiles SET current_organization_id = ?, updated_at = ?
		WHERE id = ? AND current_organization_id IS NULL
	`, orgID, now, profileID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyAffiliated
	}

	res, err = tx.Exec(`
		UPDATE scoutings SET
			selected_count = selected_count + 1,
			status = CASE WHEN selected_count + 1 >= players_required THEN ? ELSE status END,
			updated_at = ?
		WHERE id = ? AND status = ? AND selected_count < players_required
	`, models.ScoutingCompleted, now, scoutingID, models.ScoutingActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScoutingFull
	}

	return tx.Commit()
}

func (r *ApplicationRepository) ListByScouting(scoutingID string) ([]*models.Application, error) {
	rows, err := r.db.Query(applicationSelect+" WHERE scouting_id = ? ORDER BY applied_at ASC", scoutingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListByPlayer(playerID string) ([]*models.Application, error) {
	rows, err := r.db.Query(applicationSelect+" WHERE player_id = ? ORDER BY applied_at DESC", playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

const applicationSelect = `
	SELECT id, scouting_id, player_id, organization_id, status, applied_at, updated_at
	FROM applications`

func scanApplication(s interface {
	Scan(dest ...interface{}) error
}) (*models.Application, error) {
	var a models.Application
	err := s.Scan(
		&a.ID,
		&a.ScoutingID,
		&a.PlayerID,
		&a.OrganizationID,
		&a.Status,
		&a.AppliedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func collectApplications(rows *sql.Rows) ([]*models.Application, error) {
	var apps []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

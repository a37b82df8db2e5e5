package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"scouthub/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ListIDsByRole feeds the scouting-created fan-out, which enumerates every
// player account in the system.
func (r *UserRepository) ListIDsByRole(role string) ([]string, error) {
	rows, err := r.db.Query("SELECT id FROM users WHERE role = ?", role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type PlayerProfileRepository struct {
	db *sql.DB
}

func NewPlayerProfileRepository(db *sql.DB) *PlayerProfileRepository {
	return &PlayerProfileRepository{db: db}
}

func (r *PlayerProfileRepository) Create(p *models.PlayerProfile) error {
	rolesJSON, _ := json.Marshal(p.Roles)

	_, err := r.db.Exec(`
		INSERT INTO player_profiles (
			id, user_id, display_name, age, gender, country, device,
			kd_ratio, avg_damage, roles, ban_history, profile_completed,
			current_organization_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.DisplayName, p.Age, p.Gender, p.Country, p.Device,
		p.KDRatio, p.AvgDamage, string(rolesJSON), p.BanHistory, p.ProfileCompleted,
		p.CurrentOrganizationID, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PlayerProfileRepository) GetByID(id string) (*models.PlayerProfile, error) {
	row := r.db.QueryRow(profileSelect+" WHERE id = ?", id)
	return scanProfile(row)
}

func (r *PlayerProfileRepository) GetByUserID(userID string) (*models.PlayerProfile, error) {
	row := r.db.QueryRow(profileSelect+" WHERE user_id = ?", userID)
	return scanProfile(row)
}

func (r *PlayerProfileRepository) Update(p *models.PlayerProfile) error {
	rolesJSON, _ := json.Marshal(p.Roles)

	_, err := r.db.Exec(`
		UPDATE player_profiles SET
			display_name = ?, age = ?, gender = ?, country = ?, device = ?,
			kd_ratio = ?, avg_damage = ?, roles = ?, ban_history = ?,
			profile_completed = ?, updated_at = ?
		WHERE id = ?
	`, p.DisplayName, p.Age, p.Gender, p.Country, p.Device,
		p.KDRatio, p.AvgDamage, string(rolesJSON), p.BanHistory,
		p.ProfileCompleted, time.Now().Unix(), p.ID)
	return err
}

// ClearOrganization detaches a player from an organization. The guard keeps
// the write a no-op when the player already left or belongs elsewhere.
func (r *PlayerProfileRepository) ClearOrganization(profileID, orgID string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE player_profiles SET current_organization_id = NULL, updated_at = ?
		WHERE id = ? AND current_organization_id = ?
	`, time.Now().Unix(), profileID, orgID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PlayerProfileRepository) ListByOrganization(orgID string) ([]*models.PlayerProfile, error) {
	rows, err := r.db.Query(profileSelect+" WHERE current_organization_id = ? ORDER BY updated_at DESC", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.PlayerProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

const profileSelect = `
	SELECT id, user_id, display_name, age, gender, country, device,
	       kd_ratio, avg_damage, roles, ban_history, profile_completed,
	       current_organization_id, created_at, updated_at
	FROM player_profiles`

func scanProfile(s interface {
	Scan(dest ...interface{}) error
}) (*models.PlayerProfile, error) {
	var p models.PlayerProfile
	var rolesRaw []byte
	var currentOrg sql.NullString

	err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.DisplayName,
		&p.Age,
		&p.Gender,
		&p.Country,
		&p.Device,
		&p.KDRatio,
		&p.AvgDamage,
		&rolesRaw,
		&p.BanHistory,
		&p.ProfileCompleted,
		&currentOrg,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if currentOrg.Valid {
		val := currentOrg.String
		p.CurrentOrganizationID = &val
	}
	if len(rolesRaw) > 0 {
		json.Unmarshal(rolesRaw, &p.Roles)
	}

	return &p, nil
}

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(org *models.Organization) error {
	_, err := r.db.Exec(`
		INSERT INTO organizations (id, user_id, name, tag, region, logo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, org.ID, org.UserID, org.Name, org.Tag, org.Region, org.LogoURL, org.CreatedAt, org.UpdatedAt)
	return err
}

func (r *OrganizationRepository) GetByID(id string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.QueryRow(`
		SELECT id, user_id, name, tag, region, logo_url, created_at, updated_at
		FROM organizations WHERE id = ?
	`, id).Scan(&org.ID, &org.UserID, &org.Name, &org.Tag, &org.Region, &org.LogoURL, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (r *OrganizationRepository) GetByUserID(userID string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.QueryRow(`
		SELECT id, user_id, name, tag, region, logo_url, created_at, updated_at
		FROM organizations WHERE user_id = ?
	`, userID).Scan(&org.ID, &org.UserID, &org.Name, &org.Tag, &org.Region, &org.LogoURL, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (r *OrganizationRepository) Update(org *models.Organization) error {
	_, err := r.db.Exec(`
		UPDATE organizations SET name = ?, tag = ?, region = ?, logo_url = ?, updated_at = ?
		WHERE id = ?
	`, org.Name, org.Tag, org.Region, org.LogoURL, time.Now().Unix(), org.ID)
	return err
}

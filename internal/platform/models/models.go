package models

const (
	RolePlayer       = "player"
	RoleOrganization = "organization"
)

const (
	ScoutingActive    = "active"
	ScoutingCompleted = "completed"
	ScoutingCancelled = "cancelled"
)

const (
	ApplicationPending   = "pending"
	ApplicationSelected  = "selected"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	CreatedAt    int64  `json:"created_at"`
}

type PlayerProfile struct {
	ID                    string   `json:"id"`
	UserID                string   `json:"user_id"`
	DisplayName           string   `json:"display_name"`
	Age                   int      `json:"age"`
	Gender                string   `json:"gender"`
	Country               string   `json:"country"`
	Device                string   `json:"device"`
	KDRatio               float64  `json:"kd_ratio"`
	AvgDamage             float64  `json:"avg_damage"`
	Roles                 []string `json:"roles"`
	BanHistory            bool     `json:"ban_history"`
	ProfileCompleted      bool     `json:"profile_completed"`
	CurrentOrganizationID *string  `json:"current_organization_id,omitempty"`
	CreatedAt             int64    `json:"created_at"`
	UpdatedAt             int64    `json:"updated_at"`
}

type Organization struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Tag       string `json:"tag"`
	Region    string `json:"region"`
	LogoURL   string `json:"logo_url,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type Scouting struct {
	ID                string   `json:"id"`
	OrganizationID    string   `json:"organization_id"`
	Title             string   `json:"title"`
	RequiredRoles     []string `json:"required_roles"`
	AllowedDevices    []string `json:"allowed_devices"`
	MinAge            *int     `json:"min_age,omitempty"`
	MaxAge            *int     `json:"max_age,omitempty"`
	AllowedGenders    []string `json:"allowed_genders"`
	MinKDRatio        *float64 `json:"min_kd_ratio,omitempty"`
	MinAvgDamage      *float64 `json:"min_avg_damage,omitempty"`
	BanHistoryAllowed bool     `json:"ban_history_allowed"`
	PlayersRequired   int      `json:"players_required"`
	SelectedCount     int      `json:"selected_count"`
	Status            string   `json:"status"`
	CreatedAt         int64    `json:"created_at"`
	UpdatedAt         int64    `json:"updated_at"`
}

type Application struct {
	ID             string `json:"id"`
	ScoutingID     string `json:"scouting_id"`
	PlayerID       string `json:"player_id"`
	OrganizationID string `json:"organization_id"`
	Status         string `json:"status"`
	AppliedAt      int64  `json:"applied_at"`
	UpdatedAt      int64  `json:"updated_at"`

	Player *PlayerProfile `json:"player,omitempty"`
}

type Notification struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	RelatedID *string `json:"related_id,omitempty"`
	IsRead    bool    `json:"is_read"`
	CreatedAt int64   `json:"created_at"`
}

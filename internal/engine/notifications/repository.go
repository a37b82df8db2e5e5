package notifications

import (
	"database/sql"

	"scouthub/internal/platform/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(n *models.Notification) error {
	_, err := r.db.Exec(`
		INSERT INTO notifications (id, user_id, type, message, related_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Type, n.Message, n.RelatedID, n.IsRead, n.CreatedAt)
	return err
}

func (r *Repository) List(userID string, limit, offset int) ([]*models.Notification, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, type, message, related_id, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Notification
	for rows.Next() {
		var n models.Notification
		var related sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &related, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if related.Valid {
			val := related.String
			n.RelatedID = &val
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *Repository) CountUnread(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0
	`, userID).Scan(&count)
	return count, err
}

// MarkRead only touches a row the caller owns. Zero rows affected is not an
// error; the read path is idempotent by contract.
func (r *Repository) MarkRead(id, userID string) error {
	_, err := r.db.Exec(`
		UPDATE notifications SET is_read = 1
		WHERE id = ? AND user_id = ? AND is_read = 0
	`, id, userID)
	return err
}

func (r *Repository) MarkAllRead(userID string) error {
	_, err := r.db.Exec(`
		UPDATE notifications SET is_read = 1
		WHERE user_id = ? AND is_read = 0
	`, userID)
	return err
}

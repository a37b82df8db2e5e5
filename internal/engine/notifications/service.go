package notifications

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"scouthub/internal/platform/models"
	"scouthub/internal/realtime"
)

// Emitter is the slice of the realtime hub this service needs. The hub
// satisfies it; tests substitute a fake.
type Emitter interface {
	EmitToUser(userID, event string, data interface{})
}

// Notification type tags persisted with each record.
const (
	TypeNewApplicant  = "new_applicant"
	TypeSelected      = "selected"
	TypeRejected      = "rejected"
	TypeRosterRemoved = "roster_removed"
	TypeRosterLeft    = "roster_left"
)

type Service struct {
	repo    *Repository
	emitter Emitter
}

func NewService(repo *Repository, emitter Emitter) *Service {
	return &Service{repo: repo, emitter: emitter}
}

// Notify persists the notification first, then pushes it live. The push is
// best-effort: an offline recipient just finds the record on the next poll.
func (s *Service) Notify(userID, typ, message string, relatedID *string) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Message:   message,
		RelatedID: relatedID,
		IsRead:    false,
		CreatedAt: time.Now().Unix(),
	}

	if err := s.repo.Create(n); err != nil {
		return nil, err
	}

	s.emitter.EmitToUser(userID, realtime.EventNotificationNew, n)

	log.Debug().Str("user_id", userID).Str("type", typ).Msg("notification created")
	return n, nil
}

func (s *Service) List(userID string, limit, offset int) ([]*models.Notification, error) {
	return s.repo.List(userID, limit, offset)
}

func (s *Service) CountUnread(userID string) (int, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead reports success even when the notification does not exist or
// belongs to someone else: the client retry path stays simple and existence
// is not leaked.
func (s *Service) MarkRead(id, userID string) error {
	return s.repo.MarkRead(id, userID)
}

func (s *Service) MarkAllRead(userID string) error {
	return s.repo.MarkAllRead(userID)
}

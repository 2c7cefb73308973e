//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"stage-link/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type INotificationRepository interface {
	Append(n domain.Notification) (domain.Notification, error)
	ListFor(role domain.Role, principalID string, cursor *string) ([]domain.Notification, *string, error)
}

// NotificationRepository is the append-only history of notifications,
// one chronological stream per principal. No update or delete exists.
type NotificationRepository struct {
	db                 *badger.DB
	log                *slog.Logger
	limitNotifications *int
}

func NewNotificationRepository(db *badger.DB, log *slog.Logger,
	limitNotifications *int) NotificationRepository {
	return NotificationRepository{db: db, log: log, limitNotifications: limitNotifications}
}

// diskNotification is the stored form; the recipient pair is already in
// the key but is duplicated here so a value alone is self-describing.
type diskNotification struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	CreatedAt     int64  `json:"created_at"`
	RecipientRole string `json:"recipient_role"`
	RecipientID   string `json:"recipient_id"`
}

// Append assigns the identity and timestamp and persists the record.
// The key is "notif:{role}:{principalId}:{timestamp_padded}:{uuid}" so:
//  1. A prefix scan per principal yields chronological order via the
//     19-digit zero padding (lexicographical order).
//  2. The UUID disambiguates two notifications created in the same
//     nanosecond.
func (r NotificationRepository) Append(n domain.Notification) (domain.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	key := fmt.Sprintf("notif:%s:%s:%019d:%s",
		n.RecipientRole, n.RecipientID, n.CreatedAt.UnixNano(), n.ID)
	bytes, err := json.Marshal(fromNotification(n))
	if err != nil {
		return domain.Notification{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

// ListFor scans one principal's stream oldest first (newest last). The
// returned cursor resumes after the last key of the page; re-querying
// from scratch returns a consistent superset as records are appended.
func (r NotificationRepository) ListFor(role domain.Role, principalID string,
	cursor *string) ([]domain.Notification, *string, error) {
	var rawValues [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("notif:%s:%s:", role, principalID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != nil {
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}
		it.Seek(seekKey)

		// The cursor points at the last consumed key, skip it.
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitNotifications != nil && len(rawValues) == *r.limitNotifications {
				r.log.Debug(fmt.Sprintf("Maximum of %d notifications reached", *r.limitNotifications))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawValues = append(rawValues, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	notifications := make([]domain.Notification, 0, len(rawValues))
	for _, b := range rawValues {
		var disk diskNotification
		if err = json.Unmarshal(b, &disk); err != nil {
			return nil, nil, err
		}
		n, err := toNotification(disk)
		if err != nil {
			return nil, nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, lo.ToPtr(lastKey), nil
}

func fromNotification(n domain.Notification) diskNotification {
	return diskNotification{
		ID:            n.ID.String(),
		Title:         n.Title,
		Message:       n.Message,
		CreatedAt:     n.CreatedAt.UnixNano(),
		RecipientRole: string(n.RecipientRole),
		RecipientID:   n.RecipientID,
	}
}

func toNotification(disk diskNotification) (domain.Notification, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Notification{}, err
	}
	role, err := domain.ParseRole(disk.RecipientRole)
	if err != nil {
		return domain.Notification{}, err
	}
	return domain.Notification{
		ID:            parsedID,
		Title:         disk.Title,
		Message:       disk.Message,
		CreatedAt:     time.Unix(0, disk.CreatedAt).UTC(),
		RecipientRole: role,
		RecipientID:   disk.RecipientID,
	}, nil
}

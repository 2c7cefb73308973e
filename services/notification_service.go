package services

import (
	"context"

	"stage-link/domain"
	"stage-link/repositories"
	"stage-link/search"
)

type INotificationService interface {
	History(p domain.Principal, cursor *string) ([]domain.Notification, *string, error)
	Search(ctx context.Context, p domain.Principal, terms string, limit int) ([]search.Hit, error)
}

// NotificationService exposes a principal's own history. The store query
// is always built from the authenticated principal, never from client
// input, so another principal's notifications are unreachable by
// construction.
type NotificationService struct {
	repository repositories.INotificationRepository
	index      *search.Index
}

func NewNotificationService(repository repositories.INotificationRepository,
	index *search.Index) *NotificationService {
	return &NotificationService{repository: repository, index: index}
}

func (s *NotificationService) History(p domain.Principal,
	cursor *string) ([]domain.Notification, *string, error) {
	return s.repository.ListFor(p.Role, p.ID, cursor)
}

func (s *NotificationService) Search(ctx context.Context, p domain.Principal,
	terms string, limit int) ([]search.Hit, error) {
	return s.index.Search(ctx, p.Mailbox(), terms, limit)
}

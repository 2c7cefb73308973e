// Package notify turns domain events into notification records.
// The whole supported-event surface lives in one table so the mapping
// and its recipients are auditable in one place.
package notify

import (
	"fmt"

	"stage-link/domain"
	"stage-link/domain/event"
	apperrors "stage-link/errors"

	"github.com/samber/lo"
)

// mapping binds one event kind to its notification intent: a title, a
// body builder and a recipient resolver. skipPush marks kinds persisted
// for the recipient's own audit and never delivered live.
type mapping struct {
	title     string
	body      func(e event.DomainEvent) string
	recipient func(e event.DomainEvent) (domain.Role, string)
	skipPush  bool
}

var translations = map[event.Kind]mapping{
	event.KindConvocationCreated: {
		title: "Nouvelle convocation en entrevue",
		body: func(e event.DomainEvent) string {
			evt := e.(event.ConvocationCreated)
			return fmt.Sprintf("L'entreprise %s vous convoque en entrevue (%s).",
				evt.Enterprise, evt.Location)
		},
		recipient: func(e event.DomainEvent) (domain.Role, string) {
			return domain.RoleStudent, e.(event.ConvocationCreated).StudentID
		},
	},
	event.KindConvocationAnswered: {
		title: "Réponse à votre convocation",
		body: func(e event.DomainEvent) string {
			evt := e.(event.ConvocationAnswered)
			return fmt.Sprintf("%s a %s votre convocation en entrevue.",
				evt.StudentName, lo.Ternary(evt.Accepted, "accepté", "refusé"))
		},
		recipient: func(e event.DomainEvent) (domain.Role, string) {
			return domain.RoleEmployer, e.(event.ConvocationAnswered).EmployerID
		},
	},
	event.KindApplicationStatusChanged: {
		title: "Mise à jour d'une candidature",
		body: func(e event.DomainEvent) string {
			evt := e.(event.ApplicationStatusChanged)
			switch evt.NewStatus {
			case event.StatusAccepted:
				return fmt.Sprintf("Votre candidature pour l'offre %s a été acceptée.", evt.OfferTitle)
			case event.StatusRejected:
				return fmt.Sprintf("Votre candidature pour l'offre %s a été refusée.", evt.OfferTitle)
			case event.StatusWithdrawn:
				return fmt.Sprintf("La candidature pour l'offre %s a été retirée.", evt.OfferTitle)
			default:
				return fmt.Sprintf("Une candidature pour l'offre %s a été soumise.", evt.OfferTitle)
			}
		},
		// Decisions made by the employer notify the student; transitions
		// initiated by the student notify the offer's employer.
		recipient: func(e event.DomainEvent) (domain.Role, string) {
			evt := e.(event.ApplicationStatusChanged)
			if evt.ChangedByStudent {
				return domain.RoleEmployer, evt.EmployerID
			}
			return domain.RoleStudent, evt.StudentID
		},
	},
	event.KindRecommendationAssigned: {
		title: "Recommandation à produire",
		body: func(e event.DomainEvent) string {
			evt := e.(event.RecommendationAssigned)
			return fmt.Sprintf("La recommandation de %s (offre %s) vous a été assignée.",
				evt.StudentName, evt.OfferTitle)
		},
		recipient: func(e event.DomainEvent) (domain.Role, string) {
			return domain.RoleManager, e.(event.RecommendationAssigned).ManagerID
		},
		// Audit trail for the manager only, surfaced via history queries.
		skipPush: true,
	},
}

// Translate is deterministic and total for supported kinds. An
// unsupported kind is a programming error surfaced as
// ErrUnsupportedEvent; callers log and drop, they never fabricate a
// notification.
func Translate(e event.DomainEvent) (domain.Notification, error) {
	m, ok := translations[e.Kind()]
	if !ok {
		return domain.Notification{}, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedEvent, e.Kind())
	}
	role, id := m.recipient(e)
	return domain.Notification{
		Title:         m.title,
		Message:       m.body(e),
		RecipientRole: role,
		RecipientID:   id,
		SkipPush:      m.skipPush,
	}, nil
}

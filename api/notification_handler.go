package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"stage-link/domain"
	"stage-link/domain/event"
	"stage-link/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

const defaultSearchLimit = 20

// Dispatcher is the ingestion side of the routing pipeline, narrowed to
// what the HTTP surface needs.
type Dispatcher interface {
	Dispatch(e event.DomainEvent)
}

type NotificationHandler struct {
	service    services.INotificationService
	dispatcher Dispatcher
}

func NewNotificationHandler(service services.INotificationService, dispatcher Dispatcher) *NotificationHandler {
	return &NotificationHandler{service: service, dispatcher: dispatcher}
}

type notificationResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	SenderType string    `json:"senderType"`
}

type historyResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Cursor        *string                `json:"cursor,omitempty"`
}

// History serves one role's mailbox path. The path segment is a routing
// convenience only: the query is always built from the authenticated
// principal, and a principal of another role gets a 403 instead of an
// empty page.
func (h *NotificationHandler) History(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal := principalFrom(c)
		if principal.Role != role {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "mailbox belongs to another role"})
		}

		var cursor *string
		if raw := c.QueryParam("cursor"); raw != "" {
			cursor = lo.ToPtr(raw)
		}

		notifications, next, err := h.service.History(principal, cursor)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		}

		return c.JSON(http.StatusOK, historyResponse{
			Notifications: lo.Map(notifications, func(n domain.Notification, _ int) notificationResponse {
				return notificationResponse{
					ID:         n.ID.String(),
					Title:      n.Title,
					Message:    n.Message,
					CreatedAt:  n.CreatedAt,
					SenderType: n.RecipientRole.SenderType(),
				}
			}),
			Cursor: next,
		})
	}
}

func (h *NotificationHandler) Search(c echo.Context) error {
	terms := c.QueryParam("q")
	if terms == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing q parameter"})
	}

	limit := defaultSearchLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = parsed
	}

	hits, err := h.service.Search(c.Request().Context(), principalFrom(c), terms, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "search unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]any{"hits": hits})
}

type eventRequest struct {
	Kind             string `json:"kind"`
	ConvocationID    string `json:"convocationId,omitempty"`
	ApplicationID    string `json:"applicationId,omitempty"`
	RecommendationID string `json:"recommendationId,omitempty"`
	StudentID        string `json:"studentId,omitempty"`
	EmployerID       string `json:"employerId,omitempty"`
	ManagerID        string `json:"managerId,omitempty"`
	StudentName      string `json:"studentName,omitempty"`
	Enterprise       string `json:"enterprise,omitempty"`
	Location         string `json:"location,omitempty"`
	OfferTitle       string `json:"offerTitle,omitempty"`
	NewStatus        string `json:"newStatus,omitempty"`
	Accepted         bool   `json:"accepted,omitempty"`
	ChangedByStudent bool   `json:"changedByStudent,omitempty"`
}

// SubmitEvent lets workflow tooling inject domain events by hand.
// Restricted to gestionnaires; the real producers call Dispatch in
// process.
func (h *NotificationHandler) SubmitEvent(c echo.Context) error {
	if principalFrom(c).Role != domain.RoleManager {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "reserved for gestionnaires"})
	}

	var request eventRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed body"})
	}

	domainEvent, err := request.toDomainEvent()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	h.dispatcher.Dispatch(domainEvent)
	return c.NoContent(http.StatusAccepted)
}

func (r eventRequest) toDomainEvent() (event.DomainEvent, error) {
	switch event.Kind(r.Kind) {
	case event.KindConvocationCreated:
		return event.ConvocationCreated{
			ConvocationID: parseID(r.ConvocationID),
			StudentID:     r.StudentID,
			Enterprise:    r.Enterprise,
			Location:      r.Location,
		}, nil
	case event.KindConvocationAnswered:
		return event.ConvocationAnswered{
			ConvocationID: parseID(r.ConvocationID),
			EmployerID:    r.EmployerID,
			StudentName:   r.StudentName,
			Accepted:      r.Accepted,
		}, nil
	case event.KindApplicationStatusChanged:
		return event.ApplicationStatusChanged{
			ApplicationID:    parseID(r.ApplicationID),
			OfferTitle:       r.OfferTitle,
			StudentID:        r.StudentID,
			EmployerID:       r.EmployerID,
			NewStatus:        event.ApplicationStatus(r.NewStatus),
			ChangedByStudent: r.ChangedByStudent,
		}, nil
	case event.KindRecommendationAssigned:
		return event.RecommendationAssigned{
			RecommendationID: parseID(r.RecommendationID),
			ManagerID:        r.ManagerID,
			StudentName:      r.StudentName,
			OfferTitle:       r.OfferTitle,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", r.Kind)
	}
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

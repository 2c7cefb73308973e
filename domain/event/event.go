// Package event holds the in-process domain events raised by completed
// business operations. Events are fire-and-forget: they are never
// persisted themselves, only the notification they translate into is.
package event

import (
	"github.com/google/uuid"
)

// Kind discriminates events in the translator's mapping table.
type Kind string

const (
	KindConvocationCreated       Kind = "ConvocationCreated"
	KindConvocationAnswered      Kind = "ConvocationAnswered"
	KindApplicationStatusChanged Kind = "ApplicationStatusChanged"
	KindRecommendationAssigned   Kind = "RecommendationAssigned"
)

type DomainEvent interface {
	Kind() Kind
}

// ApplicationStatus is the new state of a student application.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusAccepted  ApplicationStatus = "ACCEPTED"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

// ConvocationCreated is raised when an employer invites a student to an
// interview.
type ConvocationCreated struct {
	ConvocationID uuid.UUID
	StudentID     string
	Enterprise    string
	Location      string
}

func (ConvocationCreated) Kind() Kind { return KindConvocationCreated }

// ConvocationAnswered is raised when the convoked student accepts or
// declines the interview invitation.
type ConvocationAnswered struct {
	ConvocationID uuid.UUID
	EmployerID    string
	StudentName   string
	Accepted      bool
}

func (ConvocationAnswered) Kind() Kind { return KindConvocationAnswered }

// ApplicationStatusChanged is raised when either party moves an
// application to a new state. ChangedByStudent steers the recipient
// resolution towards the counterparty.
type ApplicationStatusChanged struct {
	ApplicationID    uuid.UUID
	OfferTitle       string
	StudentID        string
	EmployerID       string
	NewStatus        ApplicationStatus
	ChangedByStudent bool
}

func (ApplicationStatusChanged) Kind() Kind { return KindApplicationStatusChanged }

// RecommendationAssigned is raised when a manager is assigned a student
// recommendation to produce. Kept for the manager's own audit trail, not
// pushed to the student.
type RecommendationAssigned struct {
	RecommendationID uuid.UUID
	ManagerID        string
	StudentName      string
	OfferTitle       string
}

func (RecommendationAssigned) Kind() Kind { return KindRecommendationAssigned }

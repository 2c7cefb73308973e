package domain

import (
	stderrors "stage-link/errors"
)

// Role is the wire-level role segment used in mailbox addresses and JWT claims.
type Role string

const (
	RoleStudent  Role = "etudiant"
	RoleEmployer Role = "employer"
	RoleManager  Role = "gestionnaire"
)

// ParseRole validates a role segment coming from an untrusted source.
// Unknown tokens are an error, never a wildcard.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleEmployer, RoleManager:
		return Role(s), nil
	default:
		return "", stderrors.ErrUnknownRole
	}
}

// SenderType is the capitalized role name carried in push payloads.
// It identifies which kind of principal the notification concerns and is
// always derived server side from the recipient role.
func (r Role) SenderType() string {
	switch r {
	case RoleStudent:
		return "Etudiant"
	case RoleEmployer:
		return "Employer"
	case RoleManager:
		return "Gestionnaire"
	}
	return ""
}

// Principal is an authenticated identity. Role is authoritative from the
// user store, never trusted from client input.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) Mailbox() Address {
	return MailboxAddress(p.Role, p.ID)
}

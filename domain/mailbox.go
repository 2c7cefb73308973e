package domain

import (
	"strings"

	stderrors "stage-link/errors"
)

// Address is the routable string form of a mailbox, "role/principalId".
// Every principal owns exactly one address and no two principals share one.
type Address string

// MailboxAddress builds the address owned by (role, id).
// Injective as long as ids contain no slash, which the directory guarantees
// (ids are decimal sequence numbers).
func MailboxAddress(role Role, id string) Address {
	return Address(string(role) + "/" + id)
}

// ParseMailbox is the exact inverse of MailboxAddress. A well-formed string
// always recovers the original pair; anything else is a protocol error.
func ParseMailbox(s string) (Role, string, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return "", "", stderrors.ErrMalformedDestination
	}
	role, err := ParseRole(parts[0])
	if err != nil {
		return "", "", err
	}
	if parts[1] == "" {
		return "", "", stderrors.ErrMalformedDestination
	}
	return role, parts[1], nil
}

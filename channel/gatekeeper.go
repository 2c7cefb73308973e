package channel

import (
	"context"
	"strings"
	"time"

	"stage-link/auth"
	"stage-link/domain"
	apperrors "stage-link/errors"
	"stage-link/repositories"
)

// Gatekeeper guards the two trust decisions of the control channel:
// admitting a connection (bearer credential → principal) and authorizing
// a subscription (destination → mailbox owned by that principal).
// Stateless; per-connection state lives in the connection loop, so
// concurrent admissions never serialize.
type Gatekeeper struct {
	secret           []byte
	directory        repositories.IUserRepository
	prefix           string
	admissionTimeout time.Duration
}

func NewGatekeeper(secret []byte, directory repositories.IUserRepository,
	prefix string, admissionTimeout time.Duration) *Gatekeeper {
	return &Gatekeeper{
		secret:           secret,
		directory:        directory,
		prefix:           prefix,
		admissionTimeout: admissionTimeout,
	}
}

// Admit validates the Authorization header of a connection-open request
// and resolves the authenticated principal. Any failure rejects the
// whole connection: missing or malformed credential, expired token, bad
// signature, or a token whose subject no longer exists in the directory
// (reported distinctly as ErrPrincipalNotFound). The directory lookup is
// bounded by the admission timeout so a client is never left hanging.
func (g *Gatekeeper) Admit(ctx context.Context, authorizationHeader string) (domain.Principal, error) {
	token, found := strings.CutPrefix(authorizationHeader, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return domain.Principal{}, apperrors.ErrMissingCredential
	}

	claims, err := auth.VerifyToken(g.secret, strings.TrimSpace(token))
	if err != nil {
		return domain.Principal{}, err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.admissionTimeout)
	defer cancel()

	type result struct {
		user repositories.User
		err  error
	}
	resultChan := make(chan result, 1)
	go func() {
		user, err := g.directory.FindByID(claims.UserID)
		resultChan <- result{user: user, err: err}
	}()

	select {
	case <-lookupCtx.Done():
		return domain.Principal{}, lookupCtx.Err()
	case res := <-resultChan:
		if res.err != nil {
			return domain.Principal{}, res.err
		}
		// The role comes from the directory record, not from the token.
		return domain.Principal{ID: res.user.ID, Role: res.user.Role}, nil
	}
}

// Authorize checks a subscribe destination against the authenticated
// principal. Only the last two path segments participate: a destination
// is authorized iff they equal the principal's own (role, id) pair.
// Everything else is rejected loudly so the client never believes it is
// subscribed when it is not.
func (g *Gatekeeper) Authorize(p domain.Principal, destination string) (domain.Address, error) {
	if !strings.HasPrefix(destination, g.prefix+"/") {
		return "", apperrors.ErrMalformedDestination
	}

	segments := strings.Split(strings.TrimPrefix(destination, "/"), "/")
	if len(segments) < 2 {
		return "", apperrors.ErrMalformedDestination
	}
	roleSegment := segments[len(segments)-2]
	idSegment := segments[len(segments)-1]

	role, principalID, err := domain.ParseMailbox(roleSegment + "/" + idSegment)
	if err != nil {
		return "", err
	}
	if role != p.Role || principalID != p.ID {
		return "", apperrors.ErrUnauthorizedMailbox
	}
	return domain.MailboxAddress(role, principalID), nil
}

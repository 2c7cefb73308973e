package channel

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"stage-link/contract"
	"stage-link/domain"
	apperrors "stage-link/errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Server terminates the persistent control channel. One handler call is
// one connection: admission, the subscribe/push loop, and teardown all
// happen here, so per-connection state needs no cross-connection locks.
type Server struct {
	log          *slog.Logger
	gatekeeper   *Gatekeeper
	registry     contract.IRegistry
	bufferSize   int
	writeTimeout time.Duration
}

func NewServer(log *slog.Logger, gatekeeper *Gatekeeper,
	registry contract.IRegistry, bufferSize int, writeTimeout time.Duration) *Server {
	return &Server{
		log:          log,
		gatekeeper:   gatekeeper,
		registry:     registry,
		bufferSize:   bufferSize,
		writeTimeout: writeTimeout,
	}
}

// inbound is what the reader goroutine hands to the connection loop. A
// malformed frame is reported rather than dropped so the client gets a
// loud protocol error instead of silence.
type inbound struct {
	frame     ControlFrame
	malformed bool
}

// Handle is the connection-open endpoint. The bearer credential is taken
// from the Authorization header of the upgrade request; any
// authentication failure refuses the connection before the upgrade, so
// an unauthenticated connection can never reach a subscribed state.
func (s *Server) Handle(c echo.Context) error {
	principal, err := s.gatekeeper.Admit(c.Request().Context(),
		c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		status := http.StatusUnauthorized
		if stderrors.Is(err, apperrors.ErrPrincipalNotFound) {
			status = http.StatusNotFound
		}
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		// Accept already wrote its own handshake failure response.
		return nil
	}
	defer conn.CloseNow()

	connectionID := uuid.NewString()
	sink := NewSink(s.bufferSize)
	defer s.registry.Drop(connectionID)
	defer sink.Close("connection closed")

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	if err := s.write(ctx, conn, ServerFrame{Type: FrameConnected}); err != nil {
		return nil
	}

	incoming := make(chan inbound)
	readErr := make(chan error, 1)
	go s.readLoop(ctx, conn, incoming, readErr)

	s.log.Info("Connection admitted",
		"connection", connectionID, "principal", principal.ID, "role", principal.Role)

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return nil
		case err := <-readErr:
			s.log.Debug("Client disconnected",
				"connection", connectionID, "principal", principal.ID, "error", err)
			return nil
		case <-sink.Closed():
			_ = conn.Close(websocket.StatusPolicyViolation, sink.CloseReason())
			return nil
		case in := <-incoming:
			if !s.handleFrame(ctx, conn, connectionID, principal, sink, in) {
				return nil
			}
		case n := <-sink.Frames():
			err := s.write(ctx, conn, ServerFrame{Type: FrameNotification, Payload: toPushPayload(n)})
			if err != nil {
				s.log.Warn("Push write failed, closing connection",
					"connection", connectionID, "error", err)
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return nil
			}
		}
	}
}

// handleFrame processes one control message. Rejections answer that
// single message and keep the connection, and any prior subscription,
// intact. Returns false when the connection must be torn down.
func (s *Server) handleFrame(ctx context.Context, conn *websocket.Conn,
	connectionID string, principal domain.Principal, sink *Sink, in inbound) bool {
	if in.malformed {
		return s.write(ctx, conn, ServerFrame{
			Type: FrameError, Code: CodeProtocol, Reason: "unparseable control frame",
		}) == nil
	}

	switch in.frame.Type {
	case FrameSubscribe:
		addr, err := s.gatekeeper.Authorize(principal, in.frame.Destination)
		if err != nil {
			code := CodeProtocol
			if stderrors.Is(err, apperrors.ErrUnauthorizedMailbox) {
				code = CodeUnauthorized
			}
			return s.write(ctx, conn, ServerFrame{
				Type:        FrameError,
				Code:        code,
				Reason:      err.Error(),
				Destination: in.frame.Destination,
			}) == nil
		}
		s.registry.Subscribe(connectionID, addr, sink)
		s.log.Info("Subscription authorized",
			"connection", connectionID, "mailbox", addr)
		return s.write(ctx, conn, ServerFrame{
			Type: FrameSubscribed, Destination: in.frame.Destination,
		}) == nil
	default:
		return s.write(ctx, conn, ServerFrame{
			Type: FrameError, Code: CodeProtocol,
			Reason: "unknown frame type " + in.frame.Type,
		}) == nil
	}
}

// readLoop feeds client frames to the connection loop. It owns the only
// Read call on the connection; a transport failure surfaces once on
// readErr and ends the connection.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn,
	incoming chan<- inbound, readErr chan<- error) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			readErr <- err
			return
		}
		var frame ControlFrame
		in := inbound{}
		if err := json.Unmarshal(data, &frame); err != nil {
			in.malformed = true
		} else {
			in.frame = frame
		}
		select {
		case incoming <- in:
		case <-ctx.Done():
			return
		}
	}
}

// write sends one frame under the bounded write timeout, so a stalled
// client surfaces as an error here instead of blocking the loop.
func (s *Server) write(ctx context.Context, conn *websocket.Conn, frame ServerFrame) error {
	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, frame)
}

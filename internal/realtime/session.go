package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkl25/admin-api/pkg/models"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection a session needs.
type Conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// CommandHandler executes notulen commands received over the socket.
type CommandHandler interface {
	Update(ctx context.Context, user models.User, id string, req models.UpdateNotulenRequest) (*models.Notulen, error)
	Finalize(ctx context.Context, user models.User, id string, reden *string) (*models.Notulen, error)
}

// Serve runs a session until the connection fails or ctx is done. The
// client only receives events for notulenID, or all events when it is empty.
func (h *Hub) Serve(ctx context.Context, conn Conn, user models.User, notulenID string, handler CommandHandler) {
	c := h.register(user, notulenID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("live write failed", zap.String("user_id", user.ID), zap.Error(err))
				// keep draining so unregister never blocks publishers
				for range c.send {
				}
				return
			}
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	s := &session{hub: h, client: c, handler: handler}
	s.reply(models.LiveWelcome, notulenID, "connected")
	s.readLoop(ctx, conn)

	cancel()
	h.unregister(c)
	<-done
}

type session struct {
	hub     *Hub
	client  *client
	handler CommandHandler
}

func (s *session) readLoop(ctx context.Context, conn Conn) {
	for {
		var msg models.LiveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				s.hub.log.Debug("live read ended", zap.String("user_id", s.client.user.ID), zap.Error(err))
			}
			return
		}
		s.handle(ctx, msg)
	}
}

func (s *session) handle(ctx context.Context, msg models.LiveMessage) {
	switch msg.Type {
	case models.LivePing:
		s.reply(models.LivePong, "", "")

	case models.LiveUpdateNotulen:
		var req models.UpdateNotulenRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			s.fail(msg.NotulenID, fmt.Errorf("invalid update payload: %w", err))
			return
		}
		if _, err := s.handler.Update(ctx, s.client.user, msg.NotulenID, req); err != nil {
			s.fail(msg.NotulenID, err)
		}

	case models.LiveFinalizeNotulen:
		var req models.StatusChangeRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				s.fail(msg.NotulenID, fmt.Errorf("invalid finalize payload: %w", err))
				return
			}
		}
		if _, err := s.handler.Finalize(ctx, s.client.user, msg.NotulenID, req.WijzigingReden); err != nil {
			s.fail(msg.NotulenID, err)
		}

	default:
		s.fail(msg.NotulenID, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (s *session) fail(notulenID string, err error) {
	s.hub.log.Info("live command failed", zap.String("user_id", s.client.user.ID), zap.Error(err))
	s.reply(models.LiveError, notulenID, err.Error())
}

// reply queues a message for this client only. It is called from the read
// loop, which ends before the send channel is closed.
func (s *session) reply(t models.LiveMessageType, notulenID, text string) {
	msg, _ := models.NewLiveMessage(t, notulenID, nil)
	msg.Message = text
	select {
	case s.client.send <- msg:
	default:
		s.hub.log.Warn("dropping reply for slow client", zap.String("type", string(t)))
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	in     chan []byte
	out    chan models.LiveMessage
	once   sync.Once
	closed chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 8),
		out:    make(chan models.LiveMessage, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadJSON(v interface{}) error {
	select {
	case raw, ok := <-c.in:
		if !ok {
			return io.EOF
		}
		return json.Unmarshal(raw, v)
	case <-c.closed:
		return io.EOF
	}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.out <- v.(models.LiveMessage)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(t *testing.T, msg models.LiveMessage) {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	c.in <- raw
}

func (c *fakeConn) next(t *testing.T) models.LiveMessage {
	t.Helper()
	select {
	case msg := <-c.out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return models.LiveMessage{}
	}
}

type fakeHandler struct {
	mu        sync.Mutex
	updated   []string
	finalized []string
	err       error
}

func (h *fakeHandler) Update(ctx context.Context, user models.User, id string, req models.UpdateNotulenRequest) (*models.Notulen, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updated = append(h.updated, id+":"+req.Titel)
	return &models.Notulen{ID: id}, h.err
}

func (h *fakeHandler) Finalize(ctx context.Context, user models.User, id string, reden *string) (*models.Notulen, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finalized = append(h.finalized, id)
	return &models.Notulen{ID: id}, h.err
}

func serve(t *testing.T, hub *Hub, filter string, handler CommandHandler) (*fakeConn, func()) {
	t.Helper()
	conn := newFakeConn()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Serve(ctx, conn, models.User{ID: "u1", Role: models.RoleEditor}, filter, handler)
		close(stopped)
	}()

	welcome := conn.next(t)
	require.Equal(t, models.LiveWelcome, welcome.Type)

	return conn, func() {
		cancel()
		<-stopped
	}
}

func TestSessionPingAndCommands(t *testing.T) {
	hub := NewHub(zap.NewNop())
	handler := &fakeHandler{}
	conn, stop := serve(t, hub, "", handler)
	defer stop()

	conn.send(t, models.LiveMessage{Type: models.LivePing})
	assert.Equal(t, models.LivePong, conn.next(t).Type)

	data, err := json.Marshal(models.UpdateNotulenRequest{NotulenRequest: models.NotulenRequest{Titel: "Nieuw"}})
	require.NoError(t, err)
	conn.send(t, models.LiveMessage{Type: models.LiveUpdateNotulen, NotulenID: "n1", Data: data})
	conn.send(t, models.LiveMessage{Type: models.LiveFinalizeNotulen, NotulenID: "n1"})
	conn.send(t, models.LiveMessage{Type: "shout"})

	msg := conn.next(t)
	assert.Equal(t, models.LiveError, msg.Type)
	assert.Contains(t, msg.Message, "shout")

	handler.mu.Lock()
	assert.Equal(t, []string{"n1:Nieuw"}, handler.updated)
	assert.Equal(t, []string{"n1"}, handler.finalized)
	handler.mu.Unlock()
}

func TestSessionCommandError(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn, stop := serve(t, hub, "n1", &fakeHandler{err: utils.ErrNotEditable})
	defer stop()

	conn.send(t, models.LiveMessage{Type: models.LiveFinalizeNotulen, NotulenID: "n1"})
	msg := conn.next(t)
	assert.Equal(t, models.LiveError, msg.Type)
	assert.Equal(t, "n1", msg.NotulenID)
	assert.Equal(t, utils.ErrNotEditable.Error(), msg.Message)
}

func TestHubFiltersByNotulen(t *testing.T) {
	hub := NewHub(zap.NewNop())
	all, stopAll := serve(t, hub, "", &fakeHandler{})
	defer stopAll()
	one, stopOne := serve(t, hub, "n1", &fakeHandler{})
	require.Equal(t, 2, hub.Count())

	for _, id := range []string{"n2", "n1"} {
		msg, err := models.NewLiveMessage(models.LiveNotulenUpdated, id, map[string]string{"id": id})
		require.NoError(t, err)
		hub.Publish(msg)
	}

	assert.Equal(t, "n2", all.next(t).NotulenID)
	assert.Equal(t, "n1", all.next(t).NotulenID)
	assert.Equal(t, "n1", one.next(t).NotulenID)

	stopOne()
	assert.Equal(t, 1, hub.Count())

	deleted, err := models.NewLiveMessage(models.LiveNotulenDeleted, "n1", nil)
	require.NoError(t, err)
	hub.Publish(deleted)
	assert.Equal(t, models.LiveNotulenDeleted, all.next(t).Type)
}

func TestSessionEndsWhenConnectionCloses(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := newFakeConn()
	stopped := make(chan struct{})
	go func() {
		hub.Serve(context.Background(), conn, models.User{ID: "u"}, "", &fakeHandler{})
		close(stopped)
	}()
	assert.Equal(t, models.LiveWelcome, conn.next(t).Type)

	close(conn.in)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal(errors.New("session did not stop"))
	}
	assert.Zero(t, hub.Count())
}

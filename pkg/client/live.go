package client

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
	defaultMaxAttempts    = 5
	defaultPingInterval   = 30 * time.Second
	writeWait             = 10 * time.Second
)

var ErrLiveNotConnected = errors.New("client: live channel not connected")

// Backoff returns the delay before reconnect attempt n, counting from 0:
// initial doubled n times and capped at ceiling.
func Backoff(n int, initial, ceiling time.Duration) time.Duration {
	d := initial
	for i := 0; i < n && d < ceiling; i++ {
		d *= 2
	}
	if d > ceiling {
		return ceiling
	}
	return d
}

type LiveOptions struct {
	// KeepFilterOnReconnect reconnects with the notulen filter of Connect.
	// Without it a reconnected channel receives events for all notulen.
	KeepFilterOnReconnect bool
	InitialBackoff        time.Duration
	MaxBackoff            time.Duration
	MaxAttempts           int
	PingInterval          time.Duration
	Dialer                *websocket.Dialer
	// OnGiveUp is called when MaxAttempts consecutive reconnects failed.
	OnGiveUp func()
}

type stopper interface {
	Stop() bool
}

// LiveClient is the notulen live-update channel.
type LiveClient struct {
	url     string
	session SessionProvider
	opts    LiveOptions
	log     *zap.Logger
	after   func(time.Duration, func()) stopper

	mu       sync.Mutex
	writeMu  sync.Mutex
	handler  func(models.LiveMessage)
	conn     *websocket.Conn
	stopPing chan struct{}
	timer    stopper
	filter   string
	attempts int
	closed   bool
}

func NewLiveClient(cfg Config, session SessionProvider, opts LiveOptions, log *zap.Logger) *LiveClient {
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LiveClient{
		url:     cfg.LiveURL(),
		session: session,
		opts:    opts,
		log:     log,
		after: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// OnMessage registers the handler for every inbound message, including
// welcome, pong and error frames. It runs on the read goroutine.
func (l *LiveClient) OnMessage(fn func(models.LiveMessage)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = fn
}

// Connect opens the channel, limited to notulenID when it is not empty.
func (l *LiveClient) Connect(ctx context.Context, notulenID string) error {
	l.mu.Lock()
	l.closed = false
	l.filter = notulenID
	l.attempts = 0
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.mu.Unlock()

	return l.dial(ctx, notulenID)
}

func (l *LiveClient) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil
}

// Disconnect closes the channel normally and cancels any pending reconnect.
func (l *LiveClient) Disconnect() {
	l.mu.Lock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	conn := l.conn
	l.conn = nil
	l.stopPingLocked()
	l.mu.Unlock()

	if conn != nil {
		l.closeNormally(conn)
	}
}

// closeNormally sends a 1000 close frame and drops conn.
func (l *LiveClient) closeNormally(conn *websocket.Conn) {
	l.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	l.writeMu.Unlock()
	conn.Close()
}

// Send writes msg when connected. Otherwise it is dropped with a warning.
func (l *LiveClient) Send(msg models.LiveMessage) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()
	if conn == nil {
		l.log.Warn("live channel not connected, dropping message", zap.String("type", string(msg.Type)))
		return ErrLiveNotConnected
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (l *LiveClient) UpdateNotulen(id string, req models.UpdateNotulenRequest) error {
	msg, err := models.NewLiveMessage(models.LiveUpdateNotulen, id, req)
	if err != nil {
		return err
	}
	return l.Send(msg)
}

func (l *LiveClient) FinalizeNotulen(id string, reden *string) error {
	msg, err := models.NewLiveMessage(models.LiveFinalizeNotulen, id, models.StatusChangeRequest{WijzigingReden: reden})
	if err != nil {
		return err
	}
	return l.Send(msg)
}

func (l *LiveClient) dial(ctx context.Context, notulenID string) error {
	token, err := l.session.Token(ctx)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("token", token)
	if notulenID != "" {
		q.Set("notulen_id", notulenID)
	}
	conn, _, err := l.opts.Dialer.DialContext(ctx, l.url+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		conn.Close()
		return ErrLiveNotConnected
	}
	// a second Connect replaces the open channel
	replaced := l.conn
	l.conn = conn
	l.attempts = 0
	l.stopPingLocked()
	stop := make(chan struct{})
	l.stopPing = stop
	l.mu.Unlock()

	if replaced != nil {
		l.closeNormally(replaced)
	}

	l.log.Info("live channel connected", zap.String("notulen_id", notulenID))
	go l.keepalive(conn, stop)
	go l.readLoop(conn)
	return nil
}

func (l *LiveClient) readLoop(conn *websocket.Conn) {
	for {
		var msg models.LiveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			l.closedWith(conn, err)
			return
		}
		l.mu.Lock()
		handler := l.handler
		l.mu.Unlock()
		if handler != nil {
			handler(msg)
		}
	}
}

func (l *LiveClient) keepalive(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(l.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := l.Send(models.LiveMessage{Type: models.LivePing}); err != nil {
				l.log.Debug("live ping failed", zap.Error(err))
			}
		}
	}
}

// closedWith handles the end of conn. Only abnormal closes reconnect.
func (l *LiveClient) closedWith(conn *websocket.Conn, err error) {
	code := websocket.CloseAbnormalClosure
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		code = ce.Code
	}

	l.mu.Lock()
	if l.conn != conn {
		// replaced or closed by Disconnect
		l.mu.Unlock()
		return
	}
	l.conn = nil
	l.stopPingLocked()
	closed := l.closed
	l.mu.Unlock()
	conn.Close()

	if closed || code == websocket.CloseNormalClosure {
		l.log.Info("live channel closed", zap.Int("code", code))
		return
	}
	l.log.Warn("live channel lost", zap.Int("code", code), zap.Error(err))
	l.scheduleReconnect()
}

func (l *LiveClient) scheduleReconnect() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.attempts >= l.opts.MaxAttempts {
		l.log.Error("live channel giving up", zap.Int("attempts", l.attempts))
		if l.opts.OnGiveUp != nil {
			go l.opts.OnGiveUp()
		}
		return
	}

	delay := Backoff(l.attempts, l.opts.InitialBackoff, l.opts.MaxBackoff)
	l.attempts++
	l.log.Info("live channel reconnecting", zap.Int("attempt", l.attempts), zap.Duration("delay", delay))
	l.timer = l.after(delay, l.reconnect)
}

func (l *LiveClient) reconnect() {
	l.mu.Lock()
	l.timer = nil
	if l.closed {
		l.mu.Unlock()
		return
	}
	filter := ""
	if l.opts.KeepFilterOnReconnect {
		filter = l.filter
	}
	l.mu.Unlock()

	if err := l.dial(context.Background(), filter); err != nil {
		l.log.Warn("live reconnect failed", zap.Error(err))
		l.scheduleReconnect()
	}
}

func (l *LiveClient) stopPingLocked() {
	if l.stopPing != nil {
		close(l.stopPing)
		l.stopPing = nil
	}
}

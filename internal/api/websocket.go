package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
)

const (
	wsSendBufferSize = 64
	wsMaxMessageSize = 4096
	wsPingInterval   = 30 * time.Second
	wsPongWait       = 60 * time.Second
	wsWriteWait      = 10 * time.Second
)

// Message is one event pushed to a WebSocket client. Type is the topic name.
type Message struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Payload   any    `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are checked by the CORS middleware.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	logger *zap.Logger
}

// handleWebSocket streams every device event to the client until it
// disconnects. Visible notifications are replayed on connect.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{
		conn:   conn,
		send:   make(chan []byte, wsSendBufferSize),
		done:   make(chan struct{}),
		logger: s.logger,
	}

	var (
		subs []*pubsub.Subscriber
		wg   sync.WaitGroup
	)
	if s.events != nil {
		subs = s.events.SubscribeTopics("", wsSendBufferSize, pubsub.Topics...)
		for _, sub := range subs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for msg := range sub.Channel {
					c.enqueue(sub.Topic, msg)
				}
			}()
		}
	}
	if s.feedback != nil {
		for _, n := range s.feedback.Active() {
			c.enqueue(pubsub.TopicFeedback, n)
		}
	}
	s.logger.Debug("websocket client connected", zap.String("remote", r.RemoteAddr))

	go c.writePump()
	c.readPump()

	close(c.done)
	for _, sub := range subs {
		s.events.Unsubscribe(sub)
	}
	wg.Wait()
	_ = conn.Close()
	s.logger.Debug("websocket client disconnected", zap.String("remote", r.RemoteAddr))
}

// enqueue drops the message when the client is not keeping up.
func (c *wsClient) enqueue(topic pubsub.Topic, payload any) {
	data, err := json.Marshal(Message{
		Type:      string(topic),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		c.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		c.logger.Debug("websocket client too slow, message dropped", zap.String("topic", string(topic)))
	}
}

func (c *wsClient) readPump() {
	c.conn.SetReadLimit(wsMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

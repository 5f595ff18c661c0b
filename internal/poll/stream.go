package poll

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"go-social/internal/message"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be less than pongWait
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream upgrades to a websocket and pushes every new message batch for the
// caller, starting with whatever is already unread.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) error {
	userID, err := h.caller(r)
	if err != nil {
		return err
	}

	// Listen before reading the backlog so nothing sent in between is lost.
	sub, err := h.broker.Listen(userID)
	if err != nil {
		return err
	}

	backlog, err := h.messages.ListUnread(r.Context(), userID, h.batchSize)
	if err != nil {
		h.broker.Cancel(sub)
		return err
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.broker.Cancel(sub)
		log.Printf("❌ upgrade poll stream for user %d: %v", userID, err)
		return nil
	}

	s := &stream{
		broker: h.broker,
		conn:   conn,
		sub:    sub,
		done:   make(chan struct{}),
	}
	go s.readPump()
	s.writePump(backlog)
	return nil
}

type stream struct {
	broker *Broker
	conn   *websocket.Conn
	sub    *Subscription
	done   chan struct{}
}

// readPump only serves the keep-alive: clients have nothing to send. It
// closes done when the peer goes away.
func (s *stream) readPump() {
	defer close(s.done)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ poll stream for user %d: %v", s.sub.UserID, err)
			}
			return
		}
	}
}

func (s *stream) writePump(backlog []message.Message) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.broker.Cancel(s.sub)
		s.conn.Close()
	}()

	lastID := 0
	if len(backlog) > 0 {
		if err := s.write(backlog); err != nil {
			return
		}
		lastID = backlog[len(backlog)-1].ID
	}

	for {
		select {
		case msgs, ok := <-s.sub.C():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Broker shut down or dropped us for falling behind.
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Skip what the backlog already carried.
			var fresh []message.Message
			for _, m := range msgs {
				if m.ID > lastID {
					fresh = append(fresh, m)
				}
			}
			if len(fresh) == 0 {
				continue
			}
			if err := s.write(fresh); err != nil {
				return
			}
			lastID = fresh[len(fresh)-1].ID

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}

func (s *stream) write(msgs []message.Message) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msgs)
}

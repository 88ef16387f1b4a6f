package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"kgeyst.com/iris/pkg/iris/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// handleEvents pushes the full state to the page after every change, so several tabs stay in sync and the page
// learns about the end of a turn even if its own request was interrupted.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()
	// Only the latest state matters, so a slow client simply skips intermediate ones.
	updates := make(chan stateDTO, 1)
	unsubscribe := s.api.Subscribe(func(state domain.State) {
		dto := toStateDTO(state, s.player.ClipID())
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- dto:
		default:
		}
	})
	defer unsubscribe()
	closed := make(chan struct{})
	go s.readUntilClosed(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	if err := s.writeState(conn, s.currentState()); err != nil {
		return
	}
	for {
		select {
		case dto := <-updates:
			if err := s.writeState(conn, dto); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func (s *Server) writeState(conn *websocket.Conn, dto stateDTO) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteJSON(dto)
	if err != nil {
		s.logger.Log("websocket write failed", "error", err)
	}
	return err
}

// readUntilClosed drains incoming frames (the page never sends anything meaningful) so that pongs and the close
// handshake are processed.
func (s *Server) readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

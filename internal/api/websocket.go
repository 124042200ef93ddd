package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type wsRequest struct {
	Message string `json:"message"`
}

// ChatWebSocket streams a chat conversation over a WebSocket. Each incoming
// frame is one customer message; each outgoing frame is the turn result.
// Turns for one connection run sequentially, matching the session contract.
func (s *Server) ChatWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := currentSession(c)

	conn.SetReadLimit(32 * 1024)
	conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read failed: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(raw, &req); err != nil || req.Message == "" {
			s.writeWS(conn, gin.H{"error": "expected {\"message\": \"...\"}"})
			continue
		}

		resp, err := s.runChat(c, sess, req.Message)
		if err != nil {
			s.writeWS(conn, gin.H{"error": err.Error()})
			continue
		}
		s.writeWS(conn, resp)
	}
}

func (s *Server) writeWS(conn *websocket.Conn, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ws] marshal failed: %v", err)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}

package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/studymate/study-assistant-be/types"
)

type WebSocketService struct {
	answerer *AnswerService
	upgrader websocket.Upgrader
}

func NewWebSocketService(answerer *AnswerService) *WebSocketService {
	return &WebSocketService{
		answerer: answerer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

// HandleAsk upgrades the connection and answers ask envelopes until the
// client goes away. Envelopes are processed one at a time per connection.
func (s *WebSocketService) HandleAsk(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Set connection properties
	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx := r.Context()
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("websocket read failed", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "invalid request envelope")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketAsk:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "invalid payload")
				continue
			}
			var payload types.WebSocketAskPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, "invalid payload")
				continue
			}
			if payload.Question == "" {
				s.writeError(conn, "question is required")
				continue
			}
			answered := s.answerer.Answer(ctx, payload.Question, payload.ContextK)
			if err := conn.WriteJSON(types.WebSocketResponse{
				Type:    types.TypeWebsocketAnswer,
				Payload: answered,
			}); err != nil {
				log.Error("websocket write failed", "error", err)
				return
			}
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebSocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				log.Error("websocket write failed", "error", err)
				return
			}
		default:
			s.writeError(conn, "invalid message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	}
	if err := conn.WriteJSON(res); err != nil {
		log.Error("websocket write failed", "error", err)
	}
}

package types

const (
	TypeWebsocketPing   = "ping"
	TypeWebsocketPong   = "pong"
	TypeWebsocketAsk    = "ask"
	TypeWebsocketAnswer = "answer"
	TypeWebsocketError  = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketAskPayload struct {
	Question string `json:"question"`
	ContextK int    `json:"context_k"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketErrorResponse struct {
	Message string `json:"message"`
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
)

// wsFrame is a websocket reply: either Reply or Error is set.
type wsFrame struct {
	ChatResponse
	Error string `json:"error,omitempty"`
}

// handleWebsocket runs one chat turn per incoming text frame. Frames carry
// a ChatRequest; each gets a wsFrame back, in order.
func (g *Gateway) handleWebsocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Warn("gateway: websocket accept failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close(websocket.StatusInternalError, "unexpected close")
		}()
		conn.SetReadLimit(g.config.MaxBodyBytes)

		ctx := r.Context()
		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
					g.logger.Debug("gateway: websocket read ended", "error", err)
				}
				return
			}
			if typ != websocket.MessageText {
				_ = conn.Close(websocket.StatusUnsupportedData, "text frames only")
				return
			}

			frame := g.chatFrame(ctx, data)
			out, err := json.Marshal(frame)
			if err != nil {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
				g.logger.Debug("gateway: websocket write failed", "error", err)
				return
			}
		}
	}
}

func (g *Gateway) chatFrame(ctx context.Context, data []byte) wsFrame {
	var req ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsFrame{Error: "invalid JSON frame"}
	}
	turn, err := g.agent.Chat(ctx, req.Content)
	if err != nil {
		return wsFrame{Error: err.Error()}
	}
	return wsFrame{ChatResponse: chatResponse(turn, false)}
}

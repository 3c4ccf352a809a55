package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Raincor5/kitchen-system/internal/labelparse"
	"github.com/Raincor5/kitchen-system/internal/utils"
)

// wsMessage is one message on the processing socket. Type is "detection"
// for per-region records and "summary" for the final message of a run.
type wsMessage struct {
	Type  string          `json:"type"`
	Label *ProcessedLabel `json:"label,omitempty"`
	Text  string          `json:"text,omitempty"`
	Count int             `json:"count,omitempty"`
	Error string          `json:"error,omitempty"`
}

// processWebSocketHandler streams processing results over a websocket.
// Each binary message is treated as an encoded image; the server answers
// with one "detection" message per extracted label followed by a
// "summary" message.
func (s *Server) processWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()
	s.logger.Debug("websocket client connected", "remote", conn.RemoteAddr())

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()

		if msgType != websocket.BinaryMessage {
			s.sendWS(conn, wsMessage{Type: "summary", Error: "expected a binary image message"})
			continue
		}

		s.handleWSImage(r, conn, data)
	}
}

func (s *Server) handleWSImage(r *http.Request, conn *websocket.Conn, data []byte) {
	img, err := utils.DecodeImageBytes(data)
	if err != nil {
		s.sendWS(conn, wsMessage{Type: "summary", Error: "invalid image"})
		return
	}

	result := s.pipeline.ProcessImage(r.Context(), img)
	if result.Error != "" {
		s.sendWS(conn, wsMessage{Type: "summary", Error: result.Error})
		return
	}

	products := s.vocab.Products(r.Context())
	employees := s.vocab.Employees(r.Context())

	for _, rec := range result.AllResults {
		label := ProcessedLabel{
			LabelID:    rec.DetectionID,
			RawText:    rec.Text,
			Confidence: rec.Confidence,
			Parsed:     labelparse.Parse(rec.Text, products, employees),
		}
		if !s.sendWS(conn, wsMessage{Type: "detection", Label: &label}) {
			return
		}
	}

	s.sendWS(conn, wsMessage{
		Type:  "summary",
		Text:  result.Text,
		Count: len(result.AllResults),
	})
}

func (s *Server) sendWS(conn *websocket.Conn, msg wsMessage) bool {
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("websocket write failed", "error", err)
		return false
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
	return true
}

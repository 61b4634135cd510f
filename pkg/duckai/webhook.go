package duckai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// maxCallbackBody limits how much of a webhook callback body we read.
const maxCallbackBody = 1 << 20 // 1 MB

// ReplyFunc handles one parsed webhook reply.
type ReplyFunc func(ctx context.Context, reply *ReplyMessage)

// NewReplyHandler returns an http.Handler for the webhook URL the client
// was configured with. It accepts POST requests, parses the body with
// ParseReply, and invokes fn for each reply. The handler does not verify
// the sender; put it behind whatever authentication the deployment needs.
func NewReplyHandler(fn ReplyFunc, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(rw, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
		if err != nil {
			http.Error(rw, "Bad Request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		reply, err := ParseReply(body)
		if err != nil {
			logger.Warn("webhook callback rejected", "error", err)
			http.Error(rw, "Bad Request", http.StatusBadRequest)
			return
		}

		logger.Debug("webhook reply received",
			"chatbot_uuid", reply.ChatbotID,
			"client_id", reply.ClientID,
			"text_len", len(reply.Text),
		)
		fn(r.Context(), reply)

		rw.Header().Set("Content-Type", "application/json")
		json.NewEncoder(rw).Encode(map[string]string{"status": "ok"})
	})
}

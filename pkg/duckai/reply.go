package duckai

import (
	"encoding/json"
)

// ReplyMessage is a chatbot answer delivered to the configured webhook.
// Instances are produced by ParseReply, never constructed directly.
type ReplyMessage struct {
	Text           string
	TextMarkdown   string
	TextMarkdownV2 string
	ChatbotID      string
	ClientID       string
	Metadata       map[string]any // nil when the callback carried none
}

// replyPayload is the wire shape of a webhook callback. Required fields are
// pointers so absence is distinguishable from the zero value.
type replyPayload struct {
	Answer *struct {
		Text *string `json:"text"`
		FBMD *string `json:"fbmd"`
		MDV2 *string `json:"mdv2"`
	} `json:"answer"`
	ChatbotUUID *string        `json:"chatbot_uuid"`
	ClientID    *string        `json:"client_id"`
	Metadata    map[string]any `json:"metadata"`
}

// ParseReply parses an inbound webhook callback body. Undecodable JSON or
// any missing required field fails with ErrBadResponse.
func ParseReply(data []byte) (*ReplyMessage, error) {
	var payload replyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &APIError{
			Message: "webhook payload is not valid JSON",
			Err:     ErrBadResponse,
		}
	}

	if payload.Answer == nil ||
		payload.Answer.Text == nil || payload.Answer.FBMD == nil || payload.Answer.MDV2 == nil ||
		payload.ChatbotUUID == nil || payload.ClientID == nil {
		return nil, &APIError{
			Message: "webhook payload is missing required fields (is duckai-go outdated?)",
			Err:     ErrBadResponse,
		}
	}

	return &ReplyMessage{
		Text:           *payload.Answer.Text,
		TextMarkdown:   *payload.Answer.FBMD,
		TextMarkdownV2: *payload.Answer.MDV2,
		ChatbotID:      *payload.ChatbotUUID,
		ClientID:       *payload.ClientID,
		Metadata:       payload.Metadata,
	}, nil
}

package duckai

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// MessageType identifies the content kind of an outbound message.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeVoice    MessageType = "voice"
	TypeImage    MessageType = "image"
	TypeSticker  MessageType = "sticker"
	TypeAudio    MessageType = "audio"
	TypeVideo    MessageType = "video"
	TypeDocument MessageType = "document"
)

// Role constants for stored conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// allowedMimeTypes enumerates, per message type, the mime types the API
// accepts. Compared case-insensitively at construction.
var allowedMimeTypes = map[MessageType][]string{
	TypeText:    {"text/plain"},
	TypeVoice:   {"audio/wav", "audio/mpeg", "audio/mp4", "audio/ogg"},
	TypeImage:   {"image/bmp", "image/png", "image/jpeg", "image/gif", "image/webp"},
	TypeSticker: {"image/bmp", "image/png", "image/jpeg", "image/gif", "image/webp", "sticker/lottie"},
	TypeAudio:   {"audio/wav", "audio/mpeg", "audio/mp4", "audio/ogg"},
	TypeVideo:   {"video/mp4", "video/webm"},
	TypeDocument: {
		"text/plain", "application/pdf", "application/msword",
		"application/mswordx", "application/ppt", "application/pptx",
	},
}

// mimeTypesByExt maps file extensions to the canonical mime type the API
// expects for that content.
var mimeTypesByExt = map[string]string{
	".bmp":  "image/bmp",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",

	".mp4":  "video/mp4",
	".webm": "video/webm",

	".wav": "audio/wav",
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".ogg": "audio/ogg",

	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/mswordx",
	".ppt":  "application/ppt",
	".pptx": "application/pptx",
}

// Message is a single outbound message. It is immutable once constructed;
// use NewMessage or one of the typed constructors, which enforce the
// per-type allowed mime set.
type Message struct {
	msgType MessageType
	mime    string
	data    string
}

// wireMessage is the serialized form the API consumes.
type wireMessage struct {
	Type string `json:"type"`
	Mime string `json:"mime"`
	Data string `json:"data"`
}

// NewMessage constructs a message of the given type. data is the message
// text or a URL to the media content. The mime type must belong to the
// type's allowed set (case-insensitive); the original casing is preserved
// on the wire.
func NewMessage(typ MessageType, data, mime string) (Message, error) {
	allowed, ok := allowedMimeTypes[typ]
	if !ok {
		return Message{}, &APIError{
			Message: fmt.Sprintf("unknown message type %q", typ),
			Err:     ErrInvalidMimeType,
		}
	}

	lower := strings.ToLower(mime)
	for _, m := range allowed {
		if lower == m {
			return Message{msgType: typ, mime: mime, data: data}, nil
		}
	}

	return Message{}, &APIError{
		Message: fmt.Sprintf("mime type %q is not allowed for %s messages", mime, typ),
		Err:     ErrInvalidMimeType,
	}
}

// NewTextMessage constructs a text message. The mime type is fixed to
// text/plain, so construction cannot fail.
func NewTextMessage(text string) Message {
	return Message{msgType: TypeText, mime: "text/plain", data: text}
}

// NewVoiceMessage constructs a voice message referencing audio content.
func NewVoiceMessage(data, mime string) (Message, error) {
	return NewMessage(TypeVoice, data, mime)
}

// NewImageMessage constructs an image message.
func NewImageMessage(data, mime string) (Message, error) {
	return NewMessage(TypeImage, data, mime)
}

// NewStickerMessage constructs a sticker message.
func NewStickerMessage(data, mime string) (Message, error) {
	return NewMessage(TypeSticker, data, mime)
}

// NewAudioMessage constructs an audio message.
func NewAudioMessage(data, mime string) (Message, error) {
	return NewMessage(TypeAudio, data, mime)
}

// NewVideoMessage constructs a video message.
func NewVideoMessage(data, mime string) (Message, error) {
	return NewMessage(TypeVideo, data, mime)
}

// NewDocumentMessage constructs a document message.
func NewDocumentMessage(data, mime string) (Message, error) {
	return NewMessage(TypeDocument, data, mime)
}

// Type returns the message's content kind.
func (m Message) Type() MessageType { return m.msgType }

// Mime returns the mime type as given at construction.
func (m Message) Mime() string { return m.mime }

// Data returns the message text or content URL.
func (m Message) Data() string { return m.data }

// MarshalJSON serializes the message as {type, mime, data}.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{
		Type: string(m.msgType),
		Mime: m.mime,
		Data: m.data,
	})
}

// MimeTypeForFile returns the canonical mime type for the file's extension
// (case-insensitive). It fails with ErrInvalidMimeType for extensions the
// API has no mapping for.
func MimeTypeForFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeTypesByExt[ext]; ok {
		return mime, nil
	}
	return "", &APIError{
		Message: fmt.Sprintf("no known mime type for %q", path),
		Err:     ErrInvalidMimeType,
	}
}

// StoredMessage is a role/text pair for round-tripping conversation history
// through JSON. It has no lifecycle beyond serialization.
type StoredMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

package duckai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageAllowedMimeTypes(t *testing.T) {
	cases := []struct {
		typ  MessageType
		mime string
	}{
		{TypeVoice, "audio/ogg"},
		{TypeImage, "image/png"},
		{TypeSticker, "sticker/lottie"},
		{TypeAudio, "audio/mpeg"},
		{TypeVideo, "video/webm"},
		{TypeDocument, "application/pdf"},
	}

	for _, tc := range cases {
		msg, err := NewMessage(tc.typ, "https://example.com/file", tc.mime)
		if err != nil {
			t.Errorf("NewMessage(%s, %s): %v", tc.typ, tc.mime, err)
			continue
		}
		if msg.Type() != tc.typ || msg.Mime() != tc.mime {
			t.Errorf("got (%s, %s), want (%s, %s)", msg.Type(), msg.Mime(), tc.typ, tc.mime)
		}
	}
}

func TestNewMessageMimeCaseInsensitive(t *testing.T) {
	msg, err := NewImageMessage("https://example.com/pic", "Image/PNG")
	require.NoError(t, err)
	// Original casing survives to the wire.
	assert.Equal(t, "Image/PNG", msg.Mime())
}

func TestNewMessageRejectsForeignMime(t *testing.T) {
	cases := []struct {
		typ  MessageType
		mime string
	}{
		{TypeVoice, "image/png"},
		{TypeImage, "sticker/lottie"},
		{TypeSticker, "video/mp4"},
		{TypeAudio, "text/plain"},
		{TypeVideo, "audio/ogg"},
		{TypeDocument, "image/gif"},
		{TypeText, "text/html"},
	}

	for _, tc := range cases {
		_, err := NewMessage(tc.typ, "data", tc.mime)
		if !errors.Is(err, ErrInvalidMimeType) {
			t.Errorf("NewMessage(%s, %s): expected ErrInvalidMimeType, got %v", tc.typ, tc.mime, err)
		}
	}
}

func TestNewMessageUnknownType(t *testing.T) {
	_, err := NewMessage(MessageType("gif"), "data", "image/gif")
	if !errors.Is(err, ErrInvalidMimeType) {
		t.Errorf("expected ErrInvalidMimeType, got %v", err)
	}
}

func TestTextMessageSerialization(t *testing.T) {
	msg := NewTextMessage("hello")

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text","mime":"text/plain","data":"hello"}`, string(data))
}

func TestVariantConstructors(t *testing.T) {
	constructors := map[MessageType]func(string, string) (Message, error){
		TypeVoice:    NewVoiceMessage,
		TypeImage:    NewImageMessage,
		TypeSticker:  NewStickerMessage,
		TypeAudio:    NewAudioMessage,
		TypeVideo:    NewVideoMessage,
		TypeDocument: NewDocumentMessage,
	}

	good := map[MessageType]string{
		TypeVoice:    "audio/wav",
		TypeImage:    "image/webp",
		TypeSticker:  "image/gif",
		TypeAudio:    "audio/mp4",
		TypeVideo:    "video/mp4",
		TypeDocument: "application/mswordx",
	}

	for typ, newMsg := range constructors {
		msg, err := newMsg("content", good[typ])
		if err != nil {
			t.Errorf("%s constructor: %v", typ, err)
			continue
		}
		if msg.Type() != typ {
			t.Errorf("%s constructor produced type %s", typ, msg.Type())
		}

		if _, err := newMsg("content", "application/octet-stream"); !errors.Is(err, ErrInvalidMimeType) {
			t.Errorf("%s constructor accepted a foreign mime type", typ)
		}
	}
}

func TestMimeTypeForFile(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"voice.ogg", "audio/ogg"},
		{"photo.JPEG", "image/jpeg"},
		{"/tmp/report.pdf", "application/pdf"},
		{"slides.pptx", "application/pptx"},
	}
	for _, tc := range cases {
		got, err := MimeTypeForFile(tc.path)
		if err != nil {
			t.Errorf("MimeTypeForFile(%q): %v", tc.path, err)
			continue
		}
		if got != tc.want {
			t.Errorf("MimeTypeForFile(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestMimeTypeForFileUnknown(t *testing.T) {
	_, err := MimeTypeForFile("archive.tar.gz")
	if !errors.Is(err, ErrInvalidMimeType) {
		t.Errorf("expected ErrInvalidMimeType, got %v", err)
	}
}

func TestStoredMessageJSON(t *testing.T) {
	data, err := json.Marshal(StoredMessage{Role: RoleAssistant, Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"assistant","text":"hi"}`, string(data))

	var got StoredMessage
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","text":"hello"}`), &got))
	assert.Equal(t, StoredMessage{Role: RoleUser, Text: "hello"}, got)
}

package duckai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"duckai/internal/infra/tracer"
)

// Version is the SDK version, reported in the User-Agent header.
const Version = "0.1"

const (
	// DefaultAPIURL is the main StartDuck API server.
	DefaultAPIURL = "https://bigduck.ai"
	// DefaultTimeout bounds a single send round trip. The API can hold the
	// request while the chatbot pipeline warms up, hence the generous value.
	DefaultTimeout = 240 * time.Second

	// maxResponseBody limits how much of an API response we read.
	maxResponseBody = 1 << 20 // 1 MB
)

// Client talks to the StartDuck AI messaging API. Its configuration is
// fixed at construction, so a single Client is safe for concurrent use.
type Client struct {
	apiURL     string
	apiKey     string
	chatbotID  string
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL points the client at a non-main API server.
func WithAPIURL(url string) Option {
	return func(c *Client) { c.apiURL = strings.TrimRight(url, "/") }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.client.Timeout = timeout }
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets a custom slog.Logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the given account API key, destination chatbot
// UUID, and reply webhook URL. The webhook must accept HTTP POST requests;
// chatbot answers are delivered there, not in the send response.
func New(apiKey, chatbotID, webhookURL string, opts ...Option) *Client {
	c := &Client{
		apiURL:     DefaultAPIURL,
		apiKey:     apiKey,
		chatbotID:  chatbotID,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sendRequest is the wire body of a send call.
type sendRequest struct {
	APIKey      string         `json:"api_key"`
	ChatbotUUID string         `json:"chatbot_uuid"`
	ClientID    string         `json:"client_id"`
	Messages    []Message      `json:"messages"`
	Webhook     string         `json:"webhook"`
	Metadata    map[string]any `json:"metadata"`
}

// sendResponse is the wire body of a send response.
type sendResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// sendSettings collects per-call options.
type sendSettings struct {
	metadata map[string]any
	viaCRM   bool
}

// SendOption configures a single send call.
type SendOption func(*sendSettings)

// WithMetadata attaches opaque caller data to the batch. The server echoes
// it back verbatim in the webhook callback.
func WithMetadata(metadata map[string]any) SendOption {
	return func(s *sendSettings) { s.metadata = metadata }
}

// ViaCRM routes the batch through the CRM processing pipeline.
func ViaCRM() SendOption {
	return func(s *sendSettings) { s.viaCRM = true }
}

// SendMessages sends a batch of messages, blocking until the API responds
// or the configured timeout elapses. clientID is a caller-chosen identifier
// that must be unique per end-user conversation; it correlates this batch
// with the eventual webhook reply.
func (c *Client) SendMessages(clientID string, messages []Message, opts ...SendOption) error {
	return c.SendMessagesContext(context.Background(), clientID, messages, opts...)
}

// SendMessagesContext is SendMessages with caller-controlled cancellation.
func (c *Client) SendMessagesContext(ctx context.Context, clientID string, messages []Message, opts ...SendOption) error {
	var settings sendSettings
	for _, opt := range opts {
		opt(&settings)
	}

	ctx, span := tracer.StartSpan(ctx, "duckai.send_messages",
		trace.WithAttributes(
			tracer.StringAttr("duckai.chatbot_uuid", c.chatbotID),
			tracer.IntAttr("duckai.messages", len(messages)),
			tracer.BoolAttr("duckai.via_crm", settings.viaCRM),
		),
	)
	defer span.End()

	if len(messages) == 0 {
		err := &APIError{
			Message: "message batch must contain at least one message",
			Err:     ErrBadRequest,
		}
		tracer.RecordError(span, err)
		return err
	}

	metadata := settings.metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	body, err := json.Marshal(sendRequest{
		APIKey:      c.apiKey,
		ChatbotUUID: c.chatbotID,
		ClientID:    clientID,
		Messages:    messages,
		Webhook:     c.webhookURL,
		Metadata:    metadata,
	})
	if err != nil {
		tracer.RecordError(span, err)
		return fmt.Errorf("marshal request: %w", err)
	}

	path := "/integrations/webhook"
	if settings.viaCRM {
		path = "/integrations/crm/webhook"
	}

	respBody, err := c.post(ctx, c.apiURL+path, body)
	if err != nil {
		tracer.RecordError(span, err)
		return err
	}

	if err := checkResponse(respBody); err != nil {
		tracer.RecordError(span, err)
		return err
	}

	tracer.SetOK(span)
	c.logger.Debug("messages sent",
		"chatbot_uuid", c.chatbotID,
		"client_id", clientID,
		"messages", len(messages),
		"via_crm", settings.viaCRM,
	)
	return nil
}

// post performs a single JSON POST attempt: build request, execute, read a
// size-limited body, check the HTTP status. The response body is always
// closed before returning. Non-200 statuses map to ErrUnknown; the API
// reports business failures inside a 200 body.
func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "duckai-go/"+Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Message: fmt.Sprintf("the API returned an unexpected status code %d", resp.StatusCode),
			Err:     ErrUnknown,
		}
	}

	return respBody, nil
}

// checkResponse maps a 200 response body to the error taxonomy.
func checkResponse(body []byte) error {
	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &APIError{
			Message: "the API returned an undecodable response body",
			Err:     ErrUnknown,
		}
	}

	switch resp.Status {
	case "success":
		return nil
	case "error":
		return serverError(resp.Error, resp.Message)
	default:
		return &APIError{
			Message: fmt.Sprintf("the API returned an unexpected status %q", resp.Status),
			Err:     ErrUnknown,
		}
	}
}

// NewClientID returns a fresh ULID string suitable for use as a per-user
// client ID.
func NewClientID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

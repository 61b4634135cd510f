package duckai

import (
	"errors"
	"fmt"
)

// Sentinel errors. Server-reported failures wrap one of these in an
// *APIError carrying the server's message, so callers dispatch with
// errors.Is and inspect detail with errors.As.
var (
	// Local precondition failures.
	ErrInvalidMimeType = errors.New("invalid message content mimetype")
	ErrBadResponse     = errors.New("unexpected webhook payload")

	// Server-reported failures.
	ErrNoReply           = errors.New("no reply")
	ErrInProcess         = errors.New("request already in process")
	ErrChatBotNotActive  = errors.New("chatbot not active")
	ErrChatBotNotFound   = errors.New("chatbot not found")
	ErrChatBotNotTrained = errors.New("chatbot not trained")
	ErrBadRequest        = errors.New("bad request")
	ErrAccessDenied      = errors.New("access denied")
	ErrRPDLimitReached   = errors.New("requests-per-day limit reached")
	ErrSpamBlock         = errors.New("spam block")
	ErrUnknown           = errors.New("unknown API error")

	// Part of the published error contract; no current server response
	// maps to these codes.
	ErrTooManyAttemptsReturn = errors.New("too many return attempts")
	ErrMessageInQueue        = errors.New("message in queue")
	ErrMessageSizeLimit      = errors.New("message size limit exceeded")
)

// apiErrorCodes maps server `error` codes to their sentinels.
var apiErrorCodes = map[string]error{
	"no_reply":            ErrNoReply,
	"in_process":          ErrInProcess,
	"chatbot_not_active":  ErrChatBotNotActive,
	"chatbot_not_found":   ErrChatBotNotFound,
	"chatbot_not_trained": ErrChatBotNotTrained,
	"bad_request":         ErrBadRequest,
	"access_denied":       ErrAccessDenied,
	"rpd_limit_reached":   ErrRPDLimitReached,
	"spam_block":          ErrSpamBlock,
}

// APIError wraps a sentinel with the context of a single failed call.
type APIError struct {
	Code    string // server-reported error code; empty for local/transport failures
	Message string // human-readable detail, usually the server's message
	Err     error  // matching sentinel
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("duckai: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("duckai: %s", e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// serverError builds the *APIError for a server-reported error code.
// Unknown codes map to ErrUnknown.
func serverError(code, message string) error {
	sentinel, ok := apiErrorCodes[code]
	if !ok {
		return &APIError{
			Code:    code,
			Message: "the API returned an unexpected error code",
			Err:     ErrUnknown,
		}
	}
	if sentinel == ErrBadRequest {
		// Usually means this client builds a payload the server no longer
		// understands.
		message = fmt.Sprintf("possible client/schema mismatch (is duckai-go outdated?): %s", message)
	}
	return &APIError{Code: code, Message: message, Err: sentinel}
}

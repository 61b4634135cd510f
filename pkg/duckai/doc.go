// Package duckai provides a client SDK for the StartDuck AI messaging API.
//
// A client sends ordered batches of typed messages (text, voice, image,
// sticker, audio, video, document) to a chatbot configured on the StartDuck
// side. The API is asynchronous: the send call only enqueues the batch, and
// the chatbot's answer arrives later as an HTTP POST to the webhook URL the
// client was configured with. ParseReply (or the ready-made handler from
// NewReplyHandler) turns that callback body into a ReplyMessage.
//
// Example:
//
//	client := duckai.New(apiKey, chatbotUUID, "https://example.com/hook",
//	    duckai.WithTimeout(30*time.Second),
//	)
//	msg := duckai.NewTextMessage("hello")
//	err := client.SendMessagesContext(ctx, clientID, []duckai.Message{msg},
//	    duckai.WithMetadata(map[string]any{"ticket": "42"}),
//	)
//
// Every failure is scoped to the call that produced it and maps to one of
// the package's sentinel errors, so callers can dispatch with errors.Is:
//
//	if errors.Is(err, duckai.ErrRPDLimitReached) { ... }
package duckai

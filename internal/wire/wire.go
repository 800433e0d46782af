// Package wire holds types that represent anything that goes across a boundary
// Think I/O operations
package wire

// Payload is a decoded JSON object returned by the Voiso API.
// It is handed back to the caller as-is, with no schema applied.
type Payload map[string]any

// WhatsAppMessage is the request body for POST whatsapp/messages
type WhatsAppMessage struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

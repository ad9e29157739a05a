package serverchan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Message is one notification. Only Title is required; the service
// truncates it at 32 characters, Short at 64, and both limits are
// enforced here before the request leaves.
type Message struct {
	// Title is the notification headline.
	Title string
	// Desp is the markdown body shown when the notification is opened.
	Desp string
	// Short overrides the card preview text.
	Short string
	// Channel routes the message to a specific Server酱 channel.
	Channel string
	// NoIP hides the calling IP from the message detail.
	NoIP bool
	// OpenID carbon-copies the message to additional WeChat openids.
	OpenID string
}

// Response is the service verdict. Code zero means the push was
// accepted; Data.PushID identifies it on the relay.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		PushID  string `json:"pushid"`
		ReadKey string `json:"readkey"`
		Error   string `json:"error"`
		Errno   int    `json:"errno"`
	} `json:"data"`
}

// OK reports whether the service accepted the push.
func (r *Response) OK() bool {
	return r != nil && r.Code == 0
}

// APIError is a non-zero service code: the request reached the relay
// but was rejected (bad key, quota exceeded, banned content).
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("serverchan: service returned code %d: %s", e.Code, e.Message)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// fingerprint keys the dedupe window on send key + title + body, so two
// clients with different keys never suppress each other.
func fingerprint(sendKey, title, desp string) string {
	sum := sha256.Sum256([]byte(sendKey + "\x00" + title + "\x00" + desp))
	return "serverchan:dedupe:" + hex.EncodeToString(sum[:16])
}

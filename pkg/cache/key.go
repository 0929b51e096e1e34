package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/curia-dev/curia/pkg/llm"
)

// responseKeyPrefix namespaces response entries in shared Redis instances.
const responseKeyPrefix = "council:response:"

// keyMessage mirrors llm.Message with fields in alphabetical order so the
// marshaled form stays stable across writers.
type keyMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type keyPayload struct {
	Messages []keyMessage `json:"messages"`
	Model    string       `json:"model"`
}

// Key derives the deterministic cache key for a model + message list.
func Key(model string, messages []llm.Message) string {
	canon := keyPayload{
		Model:    model,
		Messages: make([]keyMessage, len(messages)),
	}
	for i, m := range messages {
		canon.Messages[i] = keyMessage{Content: m.Content, Role: m.Role}
	}

	// Marshal cannot fail for this shape.
	raw, _ := json.Marshal(canon)
	sum := sha256.Sum256(raw)
	return responseKeyPrefix + hex.EncodeToString(sum[:])
}

package generate

import (
	"math/rand"
	"net/http"
)

// CredentialSelector picks one API key per invocation. A non-empty pool is
// sampled uniformly so load spreads across keys; otherwise the single legacy
// key is used when configured.
type CredentialSelector struct {
	keys   []string
	legacy string
}

func NewCredentialSelector(keys []string, legacy string) *CredentialSelector {
	return &CredentialSelector{keys: keys, legacy: legacy}
}

func (c *CredentialSelector) Pick() (string, error) {
	if len(c.keys) > 0 {
		return c.keys[rand.Intn(len(c.keys))], nil
	}

	if c.legacy != "" {
		return c.legacy, nil
	}

	return "", newError(CodeMissingAPIKey, http.StatusBadRequest, nil)
}

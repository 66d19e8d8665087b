package handlers

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/rohits-web03/referly/internal/utils"
)

// oauthState travels through Google as "<nonce>.<base64 json>". The nonce is
// what the state cookie pins; the payload only remembers where to send the user.
type oauthState struct {
	Redirect string `json:"redirect"`
}

func encodeState(s oauthState) (string, error) {
	nonce, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", errors.Wrap(err, "generate state nonce")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "marshal state")
	}
	return nonce + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

func decodeState(raw string) (oauthState, error) {
	var s oauthState

	nonce, payload, ok := strings.Cut(raw, ".")
	if !ok || nonce == "" || strings.Contains(payload, ".") {
		return s, errors.New("malformed oauth state")
	}
	b, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return s, errors.Wrap(err, "decode state payload")
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, errors.Wrap(err, "unmarshal state")
	}
	return s, nil
}

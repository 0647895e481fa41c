package bandit

import (
	"encoding/json"
	"fmt"

	"github.com/pobyzaarif/goshortcute"
)

// DecisionToken binds a feedback call to the decision that produced it.
// Clients receive it encrypted and echo it back opaquely.
type DecisionToken struct {
	DecisionID string `json:"d"`
	BanditKey  string `json:"b"`
	ArmKey     string `json:"a"`
	IssuedAt   int64  `json:"ts"`
}

// TokenCodec seals and opens decision tokens.
type TokenCodec interface {
	Encode(t DecisionToken) (string, error)
	Decode(s string) (DecisionToken, error)
}

// AESTokenCodec encrypts tokens with AES-CBC and base64-encodes the result.
type AESTokenCodec struct {
	key []byte
}

func NewAESTokenCodec(key string) (*AESTokenCodec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("token key must be 16, 24 or 32 bytes, got %d", len(key))
	}
	return &AESTokenCodec{key: []byte(key)}, nil
}

func (c *AESTokenCodec) Encode(t DecisionToken) (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal decision token: %w", err)
	}

	enc, err := goshortcute.AESCBCEncrypt(raw, c.key)
	if err != nil {
		return "", fmt.Errorf("encrypt decision token: %w", err)
	}

	return goshortcute.StringtoBase64Encode(enc), nil
}

func (c *AESTokenCodec) Decode(s string) (DecisionToken, error) {
	dec := goshortcute.StringtoBase64Decode(s)

	plain, err := goshortcute.AESCBCDecrypt([]byte(dec), c.key)
	if err != nil {
		return DecisionToken{}, fmt.Errorf("decrypt decision token: %w", err)
	}

	var t DecisionToken
	if err := json.Unmarshal([]byte(plain), &t); err != nil {
		return DecisionToken{}, fmt.Errorf("unmarshal decision token: %w", err)
	}
	if t.DecisionID == "" || t.BanditKey == "" || t.ArmKey == "" {
		return DecisionToken{}, fmt.Errorf("decision token is missing fields")
	}
	return t, nil
}

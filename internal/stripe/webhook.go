package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadSignature covers every way a webhook signature check can fail:
// malformed header, stale timestamp, or digest mismatch. Callers reject the
// delivery without distinguishing why.
var ErrBadSignature = errors.New("invalid webhook signature")

// signatureTolerance bounds how old a signed timestamp may be before the
// delivery is treated as a replay.
const signatureTolerance = 5 * time.Minute

// VerifySignature checks a Stripe-Signature header against the raw payload.
// The header carries a unix timestamp and one or more v1 HMAC-SHA256 digests
// computed over "<timestamp>.<payload>" with the endpoint secret.
func VerifySignature(payload []byte, header, secret string, now time.Time) error {
	var (
		timestamp string
		digests   []string
	)

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		switch key {
		case "t":
			timestamp = value
		case "v1":
			digests = append(digests, value)
		}
	}

	if timestamp == "" || len(digests) == 0 {
		return fmt.Errorf("%w: missing timestamp or digest", ErrBadSignature)
	}

	secs, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrBadSignature)
	}

	signedAt := time.Unix(secs, 0)
	if now.Sub(signedAt) > signatureTolerance || signedAt.Sub(now) > signatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, digest := range digests {
		got, err := hex.DecodeString(digest)
		if err != nil {
			continue
		}

		if hmac.Equal(expected, got) {
			return nil
		}
	}

	return fmt.Errorf("%w: digest mismatch", ErrBadSignature)
}

// webhookEvent is the outer envelope of a webhook delivery. Data.Object keeps
// its raw bytes because its shape depends on Type.
type webhookEvent struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Created unixTime `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSession struct {
	Customer          string            `json:"customer"`
	Subscription      string            `json:"subscription"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

type subscription struct {
	ID       string            `json:"id"`
	Customer string            `json:"customer"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

type invoice struct {
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
}

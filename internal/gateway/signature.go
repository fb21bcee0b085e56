package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignaturePayload builds the canonical string the gateway signs for a
// captured payment: the order reference and payment reference joined by a
// pipe.
func SignaturePayload(orderRef, paymentRef string) string {
	return orderRef + "|" + paymentRef
}

// Sign computes the hex-encoded HMAC-SHA256 of the canonical payload with
// the gateway secret.  Exposed so tests can produce valid signatures.
func Sign(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(SignaturePayload(orderRef, paymentRef)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature and compares it with the
// provided one in constant time.  A plain string equality would leak timing
// information about the expected value.
func VerifySignature(secret, orderRef, paymentRef, provided string) bool {
	expected := Sign(secret, orderRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(provided))
}

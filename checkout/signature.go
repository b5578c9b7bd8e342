package checkout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ExpectedSignature returns the hex HMAC-SHA256 the gateway computes over
// "<orderID>|<paymentID>" with the key secret.
func ExpectedSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a claimed payment completion against the recomputed
// signature in constant time. This is the sole trust boundary against forged
// "payment succeeded" claims, so any mismatch fails closed.
func VerifySignature(secret, orderID, paymentID, signature string) error {
	expected := ExpectedSignature(secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

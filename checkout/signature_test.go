package checkout_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/checkout"
)

func TestExpectedSignature(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_X|pay_Y"))
	want := hex.EncodeToString(mac.Sum(nil))

	got := checkout.ExpectedSignature("secret", "order_X", "pay_Y")
	assert.Equal(t, want, got)
}

func TestVerifySignatureAcceptsValid(t *testing.T) {
	sig := checkout.ExpectedSignature("secret", "order_X", "pay_Y")
	require.NoError(t, checkout.VerifySignature("secret", "order_X", "pay_Y", sig))
}

func TestVerifySignatureRejectsAnyMutation(t *testing.T) {
	sig := checkout.ExpectedSignature("secret", "order_X", "pay_Y")

	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == 'f' {
			mutated[i] = '0'
		} else {
			mutated[i] = 'f'
		}
		err := checkout.VerifySignature("secret", "order_X", "pay_Y", string(mutated))
		assert.ErrorIs(t, err, checkout.ErrInvalidSignature, "mutation at position %d", i)
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	sig := checkout.ExpectedSignature("other-secret", "order_X", "pay_Y")
	err := checkout.VerifySignature("secret", "order_X", "pay_Y", sig)
	assert.ErrorIs(t, err, checkout.ErrInvalidSignature)
}

func TestVerifySignatureRejectsSwappedIDs(t *testing.T) {
	sig := checkout.ExpectedSignature("secret", "pay_Y", "order_X")
	err := checkout.VerifySignature("secret", "order_X", "pay_Y", sig)
	assert.ErrorIs(t, err, checkout.ErrInvalidSignature)
}

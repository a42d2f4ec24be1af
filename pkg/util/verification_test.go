package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	code, err := GenerateVerificationCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestVerifyEmailCode(t *testing.T) {
	StoreEmailVerificationCode("codes@example.com", "123456")

	assert.False(t, VerifyEmailCode("codes@example.com", "000000"))
	assert.False(t, VerifyEmailCode("other@example.com", "123456"))

	assert.True(t, VerifyEmailCode("codes@example.com", "123456"))

	// Consumed on success
	assert.False(t, VerifyEmailCode("codes@example.com", "123456"))
}

func TestVerifyEmailCode_Reissue(t *testing.T) {
	StoreEmailVerificationCode("reissue@example.com", "111111")
	StoreEmailVerificationCode("reissue@example.com", "222222")

	// Only the most recent code is accepted
	assert.False(t, VerifyEmailCode("reissue@example.com", "111111"))
	assert.True(t, VerifyEmailCode("reissue@example.com", "222222"))
}

package domain

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLinkCode(t *testing.T) {
	code, err := GenerateLinkCode(bytes.NewReader([]byte{0, 1, 31, 32, 255, 8}))
	require.NoError(t, err)
	assert.Equal(t, "AB9A9J", code)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(LinkCodeAlphabet, r))
	}
	assert.NotContains(t, LinkCodeAlphabet, "0")
	assert.NotContains(t, LinkCodeAlphabet, "1")
	assert.NotContains(t, LinkCodeAlphabet, "O")
	assert.NotContains(t, LinkCodeAlphabet, "I")

	_, err = GenerateLinkCode(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestLinkCode_Redeemable(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lc := &LinkCode{MachineFingerprint: "fp-1", ExpiresAt: now.Add(LinkCodeTTL)}

	assert.True(t, lc.Redeemable("fp-1", now))
	assert.False(t, lc.Redeemable("fp-2", now))
	assert.False(t, lc.Redeemable("fp-1", lc.ExpiresAt))

	lc.Used = true
	assert.False(t, lc.Redeemable("fp-1", now))
}

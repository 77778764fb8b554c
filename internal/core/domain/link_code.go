package domain

import (
	"fmt"
	"io"
	"time"
)

const (
	LinkCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	LinkCodeLength   = 6
	LinkCodeTTL      = 15 * time.Minute
)

// LinkCode is a single-use pairing credential bound to one machine.
type LinkCode struct {
	ID                 string
	Code               string
	OrganizationID     string
	CreatedBy          string
	MachineFingerprint string
	ConnectorName      string
	ConnectorVersion   string
	ExpiresAt          time.Time
	Used               bool
	UsedAt             *time.Time
	CreatedAt          time.Time
}

// Redeemable reports whether the code may be exchanged by fingerprint at now.
func (l *LinkCode) Redeemable(fingerprint string, now time.Time) bool {
	return !l.Used && now.Before(l.ExpiresAt) && l.MachineFingerprint == fingerprint
}

// GenerateLinkCode draws LinkCodeLength characters from LinkCodeAlphabet.
// The alphabet size divides 256, so reducing a random byte modulo its length
// introduces no bias. rnd must be a cryptographically secure source.
func GenerateLinkCode(rnd io.Reader) (string, error) {
	buf := make([]byte, LinkCodeLength)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return "", fmt.Errorf("generate link code: %w", err)
	}
	for i, b := range buf {
		buf[i] = LinkCodeAlphabet[int(b)%len(LinkCodeAlphabet)]
	}
	return string(buf), nil
}

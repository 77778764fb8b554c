package service

import (
	"crypto/rand"
	"io"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Option customises a service at construction time.
type Option func(*options)

type options struct {
	now          func() time.Time
	rand         io.Reader
	passwordCost int
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRandom replaces the secure random source used for opaque tokens and
// link codes.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithPasswordCost sets the bcrypt cost for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(o *options) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			o.passwordCost = cost
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		now:          func() time.Time { return time.Now().UTC() },
		rand:         rand.Reader,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package models

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
)

const (
	DeliveryCodePrefix = "OLEO-"
	deliveryCodeLength = 4
	deliveryAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Largest multiple of len(deliveryAlphabet) that fits in a byte; bytes at or
	// above it are rejected so every symbol is equally likely.
	deliveryRejectAbove = 252
)

var deliveryCodePattern = regexp.MustCompile(`^OLEO-[A-Z0-9]{4}$`)

// CodeGenerator produces candidate delivery codes. Uniqueness is not its
// concern; the store rejects collisions and the caller draws again.
type CodeGenerator func() (string, error)

// IsDeliveryCode reports whether code has the OLEO-XXXX shape.
func IsDeliveryCode(code string) bool {
	return deliveryCodePattern.MatchString(code)
}

// RandomDeliveryCode draws a code from crypto/rand.
func RandomDeliveryCode() (string, error) {
	return DeliveryCodeFrom(rand.Reader)
}

// DeliveryCodeFrom draws a code from the given entropy source.
func DeliveryCodeFrom(r io.Reader) (string, error) {
	out := make([]byte, 0, len(DeliveryCodePrefix)+deliveryCodeLength)
	out = append(out, DeliveryCodePrefix...)
	buf := make([]byte, 8)
	for len(out) < cap(out) {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}
		for _, b := range buf {
			if b >= deliveryRejectAbove {
				continue
			}
			out = append(out, deliveryAlphabet[int(b)%len(deliveryAlphabet)])
			if len(out) == cap(out) {
				break
			}
		}
	}
	return string(out), nil
}

package device

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type tags reported by the built-in variants.
const (
	TypeLight      = "Light"
	TypeThermostat = "Thermostat"
	TypeDoorLock   = "DoorLock"
)

// maxSlugLength bounds slugs used in topics and cache keys.
const maxSlugLength = 100

// keyHashLength is the number of hex digits of the name hash in Key.
const keyHashLength = 12

// Device is the capability every controllable device implements.
//
// Name and Type never change after construction. State renders the current
// state without side effects. Apply is the only way to change state: on
// rejection it returns an error wrapping ErrUnsupportedCommand and the
// state is left exactly as it was.
type Device interface {
	Name() string
	Type() string
	Apply(cmd Command) (Event, error)
	State() string
}

// unsupported builds the rejection error for a command a device does not accept.
func unsupported(d Device, cmd Command) error {
	return fmt.Errorf("%s does not support %s: %w", d.Type(), cmd, ErrUnsupportedCommand)
}

// Slug converts a device name to a lowercase, hyphenated identifier.
// Distinct names can share a slug; use Key where uniqueness matters.
//
// Example: "Living Room Light" -> "living-room-light"
func Slug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	slug = strings.Trim(b.String(), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return "unnamed"
	}
	return slug
}

// Key returns a topic- and key-safe identifier unique to the exact name:
// the slug followed by a hash of the name.
//
// Example: "Living Room Light" -> "living-room-light-" + 12 hex digits
func Key(name string) string {
	sum := strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String(), "-", "")
	return Slug(name) + "-" + sum[:keyHashLength]
}

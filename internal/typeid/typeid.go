package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixShape    = "shape"
	PrefixText     = "text"
	PrefixSticky   = "sticky"
	PrefixSnapshot = "snap"
	PrefixSession  = "sess"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewShapeID() string    { return New(PrefixShape) }
func NewTextID() string     { return New(PrefixText) }
func NewStickyID() string   { return New(PrefixSticky) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewSessionID() string  { return New(PrefixSession) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}

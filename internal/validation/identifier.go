// File: internal/validation/identifier.go
package validation

import "github.com/google/uuid"

// IsValidID reports whether s is a canonical 8-4-4-4-12 hex identifier
// with a version-4 nibble and an RFC 4122 variant. Identifiers are gated
// here before any repository call so malformed input never reaches the
// database and never masquerades as an empty result.
func IsValidID(s string) bool {
	// uuid.Parse also accepts urn:uuid:, braced and bare-hex layouts;
	// only the 36-character canonical form is a valid identifier here.
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}

// NewID returns a fresh identifier in canonical form.
func NewID() string {
	return uuid.NewString()
}

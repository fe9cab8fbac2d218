package engine

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/pyjs/pkgs/lexer"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// canonicalVersion changes whenever the fingerprint input changes shape
const canonicalVersion uint8 = 1

// CanonicalUnit is the deterministic form of a compilation request.
// Rules are normalized so that order and duplicate blacklist entries do
// not change the fingerprint.
type CanonicalUnit struct {
	Version  uint8
	Source   string
	TabWidth int
	Disabled []string
	Names    []string
}

// canonicalize builds the unit for a request. A tab width of zero or
// less means the lexer default.
func canonicalize(source string, tabWidth int, rules []scope.Rule) *CanonicalUnit {
	if tabWidth <= 0 {
		tabWidth = lexer.DefaultTabWidth
	}
	disabled := make(map[string]bool)
	names := make(map[string]bool)
	for _, r := range rules {
		name, values := r.Canonical()
		if r.Policy == scope.BlacklistVariable {
			for _, v := range values {
				names[v] = true
			}
			continue
		}
		disabled[name] = true
	}

	cu := &CanonicalUnit{
		Version:  canonicalVersion,
		Source:   source,
		TabWidth: tabWidth,
		Disabled: sortedKeys(disabled),
		Names:    sortedKeys(names),
	}
	return cu
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MarshalBinary produces deterministic CBOR encoding of the unit
func (cu *CanonicalUnit) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	// Alias so the encoder does not call MarshalBinary recursively
	type canonicalUnitAlias CanonicalUnit
	data, err := encMode.Marshal((*canonicalUnitAlias)(cu))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Hash computes the BLAKE2b-256 digest of the canonical encoding
func (cu *CanonicalUnit) Hash() ([32]byte, error) {
	data, err := cu.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// Fingerprint identifies a (source, rules) compilation request under the
// default tab width. Use (*Engine).Fingerprint for an engine configured
// with another width.
func Fingerprint(source string, rules []scope.Rule) ([32]byte, error) {
	return canonicalize(source, lexer.DefaultTabWidth, rules).Hash()
}

// FormatFingerprint renders a fingerprint as "blake2b:<hex>"
func FormatFingerprint(fp [32]byte) string {
	return fmt.Sprintf("blake2b:%x", fp)
}

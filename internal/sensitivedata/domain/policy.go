package domain

import (
	"fmt"
	"strings"
)

// Policy flag names accepted by ParsePolicy.
const (
	FlagTreatNilAsEmpty = "treat_nil_as_empty"
	FlagEmptyVisible    = "empty_visible"
	FlagNilVisible      = "nil_visible"
)

// AttributePolicy governs how nil and empty values of one attribute are stored.
//
// A visible shape is written as an unencrypted sentinel so it can be queried
// without decryption. Only the shape is exposed, never real content.
type AttributePolicy struct {
	// TreatNilAsEmpty reads and writes nil as the empty value.
	TreatNilAsEmpty bool
	// EmptyVisibleInDB stores the empty value as the "" sentinel in both slots.
	EmptyVisibleInDB bool
	// NilVisibleInDB stores nil as nil in both slots.
	NilVisibleInDB bool
}

// Normalize returns the effective policy. NilVisibleInDB is forced when both
// TreatNilAsEmpty and EmptyVisibleInDB are set.
func (p AttributePolicy) Normalize() AttributePolicy {
	if p.TreatNilAsEmpty && p.EmptyVisibleInDB {
		p.NilVisibleInDB = true
	}
	return p
}

// String renders the policy in the ParsePolicy syntax.
func (p AttributePolicy) String() string {
	var flags []string
	if p.TreatNilAsEmpty {
		flags = append(flags, FlagTreatNilAsEmpty)
	}
	if p.EmptyVisibleInDB {
		flags = append(flags, FlagEmptyVisible)
	}
	if p.NilVisibleInDB {
		flags = append(flags, FlagNilVisible)
	}
	return strings.Join(flags, "+")
}

// ParsePolicy parses "+"-separated flags, e.g. "treat_nil_as_empty+empty_visible".
// An empty string yields the zero policy (everything encrypted).
func ParsePolicy(flags string) (AttributePolicy, error) {
	var policy AttributePolicy
	if strings.TrimSpace(flags) == "" {
		return policy, nil
	}

	for _, flag := range strings.Split(flags, "+") {
		switch strings.TrimSpace(flag) {
		case FlagTreatNilAsEmpty:
			policy.TreatNilAsEmpty = true
		case FlagEmptyVisible:
			policy.EmptyVisibleInDB = true
		case FlagNilVisible:
			policy.NilVisibleInDB = true
		default:
			return AttributePolicy{}, fmt.Errorf("%w: unknown policy flag %q", ErrInvalidSchema, flag)
		}
	}
	return policy.Normalize(), nil
}

package magic

import "errors"

var (
	// ErrInvalidConfiguration: a supported component has no costs or a zero per-level divisor.
	ErrInvalidConfiguration = errors.New("invalid effect configuration")
	// ErrUnresolvableCaster: no caster was passed and no default caster is available.
	ErrUnresolvableCaster = errors.New("no caster to resolve skill from")
	// ErrSkillLookup wraps failures returned by Caster.LiveSkillValue.
	ErrSkillLookup = errors.New("skill lookup failed")
)

package bandit

import "errors"

var (
	// ErrNoArms is returned by a choice algorithm asked to pick from an
	// empty arm set.
	ErrNoArms = errors.New("no arms available")

	// ErrNoArmPulled is returned when an update arrives before any arm has
	// been chosen.
	ErrNoArmPulled = errors.New("no arm has been pulled")

	// ErrShapeMismatch is returned when feature and target row counts
	// disagree, or a feature vector has the wrong dimension.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrUnknownParam is returned by SetParams for an unrecognized key.
	ErrUnknownParam = errors.New("unknown parameter")

	ErrUnknownArm   = errors.New("unknown arm")
	ErrDuplicateArm = errors.New("duplicate arm key")

	ErrUnknownBandit = errors.New("unknown bandit")
)

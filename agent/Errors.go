package agent

import (
	"errors"

	"github.com/samuelfneumann/tabular/environment"
)

var (
	// ErrInvalidConfig is returned when an agent is configured with
	// out-of-range hyper-parameters, such as non-positive episode
	// counts, a discount outside [0, 1] or inverted epsilon bounds. It is
	// the same error that environments return for invalid layouts.
	ErrInvalidConfig = environment.ErrInvalidConfig

	// ErrContractViolation is returned when an environment breaks its
	// contract, e.g. it returns a state outside [0, States()) or its
	// action count changes
	ErrContractViolation = errors.New("environment contract violation")

	// ErrEmptyActionSet is returned when an environment has no actions
	ErrEmptyActionSet = errors.New("empty action set")

	// ErrDone is returned when an episode is requested from an agent
	// which has already run all of its configured episodes
	ErrDone = errors.New("all episodes have been run")

	// ErrInvalidated is returned by an agent whose training run has
	// failed. Tables are mutated in place and cannot be rolled back, so
	// a failed run cannot be resumed.
	ErrInvalidated = errors.New("training run invalidated")
)

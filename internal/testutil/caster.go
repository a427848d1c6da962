package testutil

import (
	"errors"
	"sync/atomic"

	"github.com/udisondev/spellcost/internal/model"
)

// ErrSimulated is a sentinel error for testing error handling paths
var ErrSimulated = errors.New("simulated error for testing")

// StubCaster returns the same live value for every skill.
// Calls counts LiveSkillValue invocations.
type StubCaster struct {
	Value int
	Calls atomic.Int32
}

func NewStubCaster(value int) *StubCaster {
	return &StubCaster{Value: value}
}

func (c *StubCaster) LiveSkillValue(model.Skill) (int, error) {
	c.Calls.Add(1)
	return c.Value, nil
}

// FailingCaster fails every skill lookup with Err (ErrSimulated if nil).
type FailingCaster struct {
	Err error
}

func (c FailingCaster) LiveSkillValue(model.Skill) (int, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	return 0, ErrSimulated
}

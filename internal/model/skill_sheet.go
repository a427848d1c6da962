package model

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownSkill is returned when a sheet carries no value for the requested skill.
var ErrUnknownSkill = errors.New("skill not present on sheet")

// SkillSheet хранит live-значения магических навыков персонажа.
// Thread-safe: значения могут обновляться пока идут расчёты стоимости.
type SkillSheet struct {
	mu     sync.RWMutex
	name   string
	values map[Skill]int
}

// NewSkillSheet creates a sheet with a copy of the given values.
func NewSkillSheet(name string, values map[Skill]int) *SkillSheet {
	cp := make(map[Skill]int, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &SkillSheet{name: name, values: cp}
}

// Name returns the character name the sheet belongs to.
func (s *SkillSheet) Name() string {
	return s.name
}

// LiveSkillValue returns the current value of the skill.
func (s *SkillSheet) LiveSkillValue(skill Skill) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[skill]
	if !ok {
		return 0, fmt.Errorf("%s on %q: %w", skill, s.name, ErrUnknownSkill)
	}
	return v, nil
}

// SetSkill updates (or adds) a skill value.
func (s *SkillSheet) SetSkill(skill Skill, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[skill] = value
}

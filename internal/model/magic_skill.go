package model

import (
	"fmt"
	"strings"
)

// Skill определяет магическую школу, которой подчиняется эффект.
// Значения стабильны: они используются как ключи в конфигурации и каталоге эффектов.
type Skill int8

const (
	SkillDestruction Skill = iota
	SkillRestoration
	SkillIllusion
	SkillAlteration
	SkillThaumaturgy
	SkillMysticism
)

var skillNames = [...]string{
	SkillDestruction: "Destruction",
	SkillRestoration: "Restoration",
	SkillIllusion:    "Illusion",
	SkillAlteration:  "Alteration",
	SkillThaumaturgy: "Thaumaturgy",
	SkillMysticism:   "Mysticism",
}

// String returns the school name ("Destruction", "Mysticism"...).
func (s Skill) String() string {
	if s < 0 || int(s) >= len(skillNames) {
		return fmt.Sprintf("Skill(%d)", int8(s))
	}
	return skillNames[s]
}

// IsValid reports whether s is one of the known magic schools.
func (s Skill) IsValid() bool {
	return s >= 0 && int(s) < len(skillNames)
}

// ParseSkill converts a school name to Skill. Case-insensitive.
func ParseSkill(name string) (Skill, error) {
	for i, n := range skillNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Skill(i), nil
		}
	}
	return 0, fmt.Errorf("unknown magic skill %q", name)
}

// MarshalText implements encoding.TextMarshaler (YAML/JSON keys).
func (s Skill) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid magic skill %d", int8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Skill) UnmarshalText(text []byte) error {
	parsed, err := ParseSkill(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

package game

import (
	"errors"
	"fmt"
	"strings"
)

// NumTypes is the size of the elemental type universe.
const NumTypes = 18

// Type is one of the 18 elemental types. The zero value is not a valid type.
type Type uint8

const (
	Normal Type = iota + 1
	Fire
	Water
	Electric
	Grass
	Ice
	Fighting
	Poison
	Ground
	Flying
	Psychic
	Bug
	Rock
	Ghost
	Dragon
	Dark
	Steel
	Fairy
)

var typeNames = [NumTypes + 1]string{
	"", "Normal", "Fire", "Water", "Electric", "Grass", "Ice", "Fighting", "Poison",
	"Ground", "Flying", "Psychic", "Bug", "Rock", "Ghost", "Dragon", "Dark", "Steel", "Fairy",
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, NumTypes)
	for i := 1; i <= NumTypes; i++ {
		m[strings.ToLower(typeNames[i])] = Type(i)
	}
	return m
}()

// ErrUnknownType is matched by every *UnknownTypeError.
var ErrUnknownType = errors.New("unknown type")

// UnknownTypeError reports a type name or value outside the 18-type universe.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %q", e.Name)
}

func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// ParseType resolves a type name case-insensitively.
func ParseType(name string) (Type, error) {
	if t, ok := typeByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return 0, &UnknownTypeError{Name: name}
}

// AllTypes returns the 18 types in chart order.
func AllTypes() []Type {
	out := make([]Type, NumTypes)
	for i := range out {
		out[i] = Type(i + 1)
	}
	return out
}

// Valid reports whether t is inside the type universe.
func (t Type) Valid() bool {
	return t >= Normal && t <= Fairy
}

// Index returns the zero-based chart row/column for t.
func (t Type) Index() int {
	return int(t) - 1
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return typeNames[t]
}

// MarshalText encodes t by name so types read naturally in JSON and YAML.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, &UnknownTypeError{Name: t.String()}
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

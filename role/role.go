// Package role holds the numeric authority levels shared by users and roles.
// Lower numbers carry more authority; all comparisons go through Outranks.
package role

import "fmt"

type Level int

const (
	SuperAdmin Level = 1
	Admin      Level = 2
	HR         Level = 3
	Manager    Level = 4
	Employee   Level = 5
)

const (
	MinLevel Level = 1
	MaxLevel Level = 100
)

var canonicalNames = map[Level]string{
	SuperAdmin: "SUPER_ADMIN",
	Admin:      "ADMIN",
	HR:         "HR",
	Manager:    "MANAGER",
	Employee:   "EMPLOYEE",
}

// Canonical returns the five built-in levels from highest to lowest authority.
func Canonical() []Level {
	return []Level{SuperAdmin, Admin, HR, Manager, Employee}
}

func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

func (l Level) IsCanonical() bool {
	_, ok := canonicalNames[l]
	return ok
}

// Outranks reports whether l carries strictly more authority than other.
func (l Level) Outranks(other Level) bool {
	return l < other
}

// AtLeast reports whether l is other or outranks it.
func (l Level) AtLeast(other Level) bool {
	return l == other || l.Outranks(other)
}

func (l Level) String() string {
	if name, ok := canonicalNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL_%d", int(l))
}

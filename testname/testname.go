// Package testname implements the naming convention that decides whether a
// file or symbol denotes a test. It is the single matcher used for filtering
// candidate files during discovery, for deciding whether a loaded unit
// contains tests at all, and for enumerating the executable test symbols of
// a unit.
package testname

import (
	"regexp"
	"strings"
)

// A name denotes a test when "Test" or "test" appears at the start of the
// name or immediately after one of the separator characters `_ . / -` or a
// backspace control character. Only the first letter is case-insensitive;
// "TEST" does not qualify.
var validTestName = regexp.MustCompile("(?:^|[\\x08_./-])[Tt]est")

// IsTestName reports whether name qualifies as a test name.
func IsTestName(name string) bool {
	return validTestName.MatchString(name)
}

// IsEnumerable reports whether name should be iterated as an executable test
// within a loaded unit. Names starting with "_" are reserved for private
// helpers and excluded even when they otherwise match.
func IsEnumerable(name string) bool {
	return !strings.HasPrefix(name, "_") && IsTestName(name)
}

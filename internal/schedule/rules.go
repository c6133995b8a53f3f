// Package schedule parses schedule tag values and decides whether a moment
// triggers a start or a stop.
//
// A schedule is a space separated list of key=hour pairs:
//
//	mon_start=8 fri_stop=17 work_start=7 any_stop=19
//
// Keys are {day}_start / {day}_stop for day in mon..sun, work_start /
// work_stop (weekdays only) and any_start / any_stop (every day). Hours are
// compared to the current hour as strings, so "05" never matches hour 5.
package schedule

import (
	"fmt"
	"sort"
	"strings"
)

// Action is the power transition a key triggers.
type Action string

const (
	Start Action = "start"
	Stop  Action = "stop"
)

// Scope is the set of days a key applies to: a single day, every weekday or every day.
type Scope string

const (
	ScopeWork Scope = "work"
	ScopeAny  Scope = "any"
)

// Days lists the day scopes in week order.
var Days = []Scope{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var workdays = map[Scope]bool{"mon": true, "tue": true, "wed": true, "thu": true, "fri": true}

// Key identifies one rule, e.g. {mon, start} for "mon_start".
type Key struct {
	Scope  Scope
	Action Action
}

func (k Key) String() string { return string(k.Scope) + "_" + string(k.Action) }

// ParseKey converts "mon_start" style text into a Key.
func ParseKey(s string) (Key, error) {
	i := strings.LastIndex(s, "_")
	if i < 0 {
		return Key{}, fmt.Errorf("unknown key %q", s)
	}
	k := Key{Scope: Scope(s[:i]), Action: Action(s[i+1:])}
	if k.Action != Start && k.Action != Stop {
		return Key{}, fmt.Errorf("unknown key %q", s)
	}
	if !k.Scope.valid() {
		return Key{}, fmt.Errorf("unknown key %q", s)
	}
	return k, nil
}

func (s Scope) valid() bool {
	if s == ScopeWork || s == ScopeAny {
		return true
	}
	for _, d := range Days {
		if s == d {
			return true
		}
	}
	return false
}

// IsWorkday reports whether the day scope falls on mon..fri.
func IsWorkday(day Scope) bool { return workdays[day] }

// ParseError reports a schedule value that could not be parsed.
type ParseError struct {
	Value string
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid schedule %q: token %q: %v", e.Value, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RuleSet is a parsed schedule value.
type RuleSet struct {
	rules map[Key]string
}

// Parse splits a schedule value on single spaces into rules. Any token that
// is not exactly one key=hour pair, or whose key is unknown, fails the whole
// value; an empty token from a leading, trailing or doubled space does too.
// A repeated key keeps its last hour.
func Parse(value string) (RuleSet, error) {
	if value == "" {
		return RuleSet{}, &ParseError{Value: value, Err: fmt.Errorf("empty schedule")}
	}

	rs := RuleSet{rules: map[Key]string{}}
	for _, tok := range strings.Split(value, " ") {
		parts := strings.Split(tok, "=")
		if len(parts) != 2 {
			return RuleSet{}, &ParseError{Value: value, Token: tok, Err: fmt.Errorf("expected key=hour")}
		}
		key, err := ParseKey(parts[0])
		if err != nil {
			return RuleSet{}, &ParseError{Value: value, Token: tok, Err: err}
		}
		if parts[1] == "" {
			return RuleSet{}, &ParseError{Value: value, Token: tok, Err: fmt.Errorf("missing hour")}
		}
		rs.rules[key] = parts[1]
	}
	return rs, nil
}

// Hour returns the raw hour text configured for key.
func (rs RuleSet) Hour(k Key) (string, bool) {
	h, ok := rs.rules[k]
	return h, ok
}

// Len returns the number of distinct keys in the rule set.
func (rs RuleSet) Len() int { return len(rs.rules) }

// String renders the rule set in a stable key order.
func (rs RuleSet) String() string {
	keys := make([]Key, 0, len(rs.rules))
	for k := range rs.rules {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k.String() + "=" + rs.rules[k])
	}
	return b.String()
}

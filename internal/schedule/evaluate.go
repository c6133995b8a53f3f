package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Moment is the hour and day a schedule is evaluated against.
type Moment struct {
	Hour int
	Day  Scope
}

// At returns the moment t falls on in loc. A nil loc means UTC.
func At(t time.Time, loc *time.Location) Moment {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return Moment{
		Hour: t.Hour(),
		Day:  Scope(strings.ToLower(t.Weekday().String()[:3])),
	}
}

func (m Moment) hour() string { return strconv.Itoa(m.Hour) }

// Decision is the outcome of evaluating a rule set at a moment. Start and
// Stop are independent; both may be true.
type Decision struct {
	Start bool
	Stop  bool
}

// Evaluate decides whether m triggers a start and/or a stop.
func Evaluate(rs RuleSet, m Moment) Decision {
	return Decision{
		Start: rs.matches(Start, m),
		Stop:  rs.matches(Stop, m),
	}
}

// matches applies the precedence day key > any key > work key. A day key
// for m.Day decides on its own, even when its hour differs.
func (rs RuleSet) matches(a Action, m Moment) bool {
	hh := m.hour()
	if h, ok := rs.rules[Key{Scope: m.Day, Action: a}]; ok {
		return h == hh
	}
	if h, ok := rs.rules[Key{Scope: ScopeAny, Action: a}]; ok && h == hh {
		return true
	}
	if h, ok := rs.rules[Key{Scope: ScopeWork, Action: a}]; ok && h == hh && IsWorkday(m.Day) {
		return true
	}
	return false
}

// EvaluateString parses value and evaluates it at m.
func EvaluateString(value string, m Moment) (Decision, error) {
	rs, err := Parse(value)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(rs, m), nil
}

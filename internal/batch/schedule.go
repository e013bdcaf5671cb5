package batch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/runtime"
)

// Event is one scripted intervention of a headless run.
type Event struct {
	at    float64
	desc  string
	apply func(s *runtime.Session)
}

func (e Event) At() float64    { return e.at }
func (e Event) String() string { return e.desc }

// Schedule fires events in time order as the run advances.
type Schedule struct {
	events []Event
	next   int
}

// NewSchedule parses push entries of the form id:fx,fy[@t] and set entries
// of the form id.property=value[@t]. Events without a time fire at 0.
func NewSchedule(pushes, sets []string) (*Schedule, error) {
	sc := &Schedule{}
	for _, p := range pushes {
		ev, err := ParsePush(p)
		if err != nil {
			return nil, err
		}
		sc.events = append(sc.events, ev)
	}
	for _, s := range sets {
		ev, err := ParseSet(s)
		if err != nil {
			return nil, err
		}
		sc.events = append(sc.events, ev)
	}
	sort.SliceStable(sc.events, func(i, j int) bool { return sc.events[i].at < sc.events[j].at })
	return sc, nil
}

// Fire applies every event due at or before t and returns their
// descriptions.
func (sc *Schedule) Fire(s *runtime.Session, t float64) []string {
	var fired []string
	for sc.next < len(sc.events) && sc.events[sc.next].at <= t+1e-9 {
		ev := sc.events[sc.next]
		ev.apply(s)
		fired = append(fired, ev.desc)
		sc.next++
	}
	return fired
}

func (sc *Schedule) Len() int { return len(sc.events) }

// splitAt separates the optional "@seconds" suffix.
func splitAt(s string) (string, float64, error) {
	body, at, found := strings.Cut(s, "@")
	if !found {
		return s, 0, nil
	}
	t, err := strconv.ParseFloat(at, 64)
	if err != nil || t < 0 {
		return "", 0, fmt.Errorf("invalid time in %q", s)
	}
	return body, t, nil
}

func ParsePush(s string) (Event, error) {
	body, at, err := splitAt(s)
	if err != nil {
		return Event{}, err
	}
	id, vec, ok := strings.Cut(body, ":")
	if !ok || id == "" {
		return Event{}, fmt.Errorf("push %q: want id:fx,fy[@t]", s)
	}
	xs, ys, ok := strings.Cut(vec, ",")
	if !ok {
		return Event{}, fmt.Errorf("push %q: want id:fx,fy[@t]", s)
	}
	fx, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	fy, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return Event{}, fmt.Errorf("push %q: invalid force", s)
	}
	force := engine.Vector{X: fx, Y: fy}
	return Event{
		at:    at,
		desc:  fmt.Sprintf("push %s (%g, %g)", id, fx, fy),
		apply: func(s *runtime.Session) { s.ApplyForce(id, force) },
	}, nil
}

// ParseSet splits the property off at the last dot, so ids may contain
// dots.
func ParseSet(s string) (Event, error) {
	body, at, err := splitAt(s)
	if err != nil {
		return Event{}, err
	}
	lhs, val, ok := strings.Cut(body, "=")
	if !ok {
		return Event{}, fmt.Errorf("set %q: want id.property=value[@t]", s)
	}
	dot := strings.LastIndex(lhs, ".")
	if dot <= 0 || dot == len(lhs)-1 {
		return Event{}, fmt.Errorf("set %q: want id.property=value[@t]", s)
	}
	id, prop := lhs[:dot], lhs[dot+1:]
	if _, ok := runtime.ParseProperty(prop); !ok {
		return Event{}, fmt.Errorf("set %q: unknown property %s", s, prop)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return Event{}, fmt.Errorf("set %q: invalid value", s)
	}
	return Event{
		at:    at,
		desc:  fmt.Sprintf("set %s.%s = %g", id, prop, v),
		apply: func(s *runtime.Session) { s.SetProperty(id, prop, v) },
	}, nil
}

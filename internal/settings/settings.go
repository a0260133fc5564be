// Package settings provides the layered key/value configuration shared by the
// dispatcher and every command. Each value remembers the priority it was set
// at, and a later write only lands when its priority is at least as high.
package settings

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Priority orders the configuration layers.
type Priority int

// Named priorities, lowest first.
const (
	PriorityDefault Priority = 0
	PriorityCommand Priority = 10
	PriorityProject Priority = 20
	PrioritySpider  Priority = 30
	PriorityCmdline Priority = 40
)

var priorityNames = map[string]Priority{
	"default": PriorityDefault,
	"command": PriorityCommand,
	"project": PriorityProject,
	"spider":  PrioritySpider,
	"cmdline": PriorityCmdline,
}

// ParsePriority resolves a priority name such as "command".
func ParsePriority(name string) (Priority, error) {
	p, ok := priorityNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown settings priority %q", name)
	}
	return p, nil
}

// String returns the layer name for known priorities.
func (p Priority) String() string {
	for name, value := range priorityNames {
		if value == p {
			return name
		}
	}
	return strconv.Itoa(int(p))
}

// ErrFrozen is returned when writing to frozen settings.
var ErrFrozen = errors.New("settings are frozen")

type attribute struct {
	value    any
	priority Priority
}

// Settings is a layered configuration map.
type Settings struct {
	attrs  map[string]attribute
	frozen bool
}

// New returns settings populated with the built-in defaults.
func New() *Settings {
	s := &Settings{attrs: map[string]attribute{}}
	_ = s.SetDict(Defaults(), PriorityDefault)
	return s
}

// Empty returns settings with no values at all.
func Empty() *Settings {
	return &Settings{attrs: map[string]attribute{}}
}

// Set stores value under key unless a higher-priority value is already set.
func (s *Settings) Set(key string, value any, priority Priority) error {
	if s.frozen {
		return ErrFrozen
	}
	if current, ok := s.attrs[key]; ok && current.priority > priority {
		return nil
	}
	s.attrs[key] = attribute{value: value, priority: priority}
	return nil
}

// SetDict applies every entry of values at priority.
func (s *Settings) SetDict(values map[string]any, priority Priority) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := s.Set(key, values[key], priority); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the raw value stored under key.
func (s *Settings) Get(key string) (any, bool) {
	attr, ok := s.attrs[key]
	if !ok {
		return nil, false
	}
	return attr.value, true
}

// GetPriority reports the priority the current value was set at.
func (s *Settings) GetPriority(key string) (Priority, bool) {
	attr, ok := s.attrs[key]
	if !ok {
		return 0, false
	}
	return attr.priority, true
}

// GetString returns the value as a string, or "" when unset.
func (s *Settings) GetString(key string) string {
	value, ok := s.Get(key)
	if !ok || value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return fmt.Sprint(value)
}

// GetBool interprets the value as a boolean. Strings "1", "true", "True" and
// friends follow strconv.ParseBool.
func (s *Settings) GetBool(key string) (bool, error) {
	value, ok := s.Get(key)
	if !ok || value == nil {
		return false, nil
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("setting %s: %q is not a boolean", key, v)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("setting %s: %T is not a boolean", key, value)
}

// GetInt interprets the value as an int.
func (s *Settings) GetInt(key string) (int, error) {
	value, ok := s.Get(key)
	if !ok || value == nil {
		return 0, nil
	}
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("setting %s: %q is not an integer", key, v)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("setting %s: %T is not an integer", key, value)
}

// GetFloat interprets the value as a float64.
func (s *Settings) GetFloat(key string) (float64, error) {
	value, ok := s.Get(key)
	if !ok || value == nil {
		return 0, nil
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("setting %s: %q is not a number", key, v)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("setting %s: %T is not a number", key, value)
}

// GetList returns the value as a string list. A string is split on commas.
func (s *Settings) GetList(key string) []string {
	value, ok := s.Get(key)
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return []string{fmt.Sprint(value)}
}

// Keys returns every key in sorted order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.attrs))
	for key := range s.attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Copy returns an unfrozen deep copy of the layer table.
func (s *Settings) Copy() *Settings {
	out := &Settings{attrs: make(map[string]attribute, len(s.attrs))}
	for key, attr := range s.attrs {
		out.attrs[key] = attr
	}
	return out
}

// Freeze makes every later write fail with ErrFrozen.
func (s *Settings) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze was called.
func (s *Settings) Frozen() bool {
	return s.frozen
}

package command

import (
	"fmt"
	"sort"
	"strings"
)

// UsageError reports that the caller misused a command. The dispatcher prints
// Message as a parser error when it is non-empty, prints the command help when
// PrintHelp is set, and exits with code 2.
type UsageError struct {
	Message   string
	PrintHelp bool
}

func (e *UsageError) Error() string {
	if e.Message == "" {
		return "usage error"
	}
	return e.Message
}

// Usagef builds a UsageError that does not request help output.
func Usagef(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// HelpError builds a UsageError that only prints the help text.
func HelpError() *UsageError {
	return &UsageError{PrintHelp: true}
}

// ParseKeyValues turns NAME=VALUE items into a map. The last duplicate wins.
func ParseKeyValues(items []string) (map[string]string, error) {
	out := make(map[string]string, len(items))
	for _, item := range items {
		name, value, ok := strings.Cut(item, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid NAME=VALUE pair %q", item)
		}
		out[name] = value
	}
	return out, nil
}

// SortedKeys returns the keys of m in order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Package featureflags evaluates the FEATURE_FLAGS setting.
//
// The setting is a comma-separated list of name=value pairs, for example
// "user_cache=25%,other=off". Percentages roll a flag out to a stable subset
// of user IDs.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// UserCache serves GET user detail through the Redis cache-aside path.
const UserCache = "user_cache"

type rule struct {
	percent int // 0..100; on is 100, off is 0
	raw     string
}

// Set holds the parsed rules. A nil *Set reports every flag as disabled.
type Set struct {
	rules map[string]rule
}

// Parse builds a Set from raw. Entries that are not name=value pairs or whose
// value is not on/off/true/false/1/0/N% are skipped and reported in invalid.
func Parse(raw string) (s *Set, invalid []string) {
	s = &Set{rules: make(map[string]rule)}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, ok := strings.Cut(entry, "=")
		name, value = normalize(name), normalize(value)
		if !ok || name == "" || value == "" {
			invalid = append(invalid, entry)
			continue
		}
		pct, err := parseValue(value)
		if err != nil {
			invalid = append(invalid, entry)
			continue
		}
		s.rules[name] = rule{percent: pct, raw: value}
	}

	return s, invalid
}

func parseValue(v string) (int, error) {
	switch v {
	case "on", "true", "1":
		return 100, nil
	case "off", "false", "0":
		return 0, nil
	}
	if pctRaw, ok := strings.CutSuffix(v, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return 0, fmt.Errorf("invalid rollout %q: %w", v, err)
		}
		return min(max(pct, 0), 100), nil
	}
	return 0, fmt.Errorf("unknown flag value %q", v)
}

// On reports whether name is fully enabled. Partial rollouts need a user and
// are reported as off here.
func (s *Set) On(name string) bool {
	return s.percent(name) == 100
}

// EnabledFor reports whether name is enabled for userID. A partial rollout is
// never enabled for the zero ID.
func (s *Set) EnabledFor(name string, userID uint) bool {
	pct := s.percent(name)
	switch {
	case pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		return false
	}
	return bucket(name, userID) < pct
}

func (s *Set) percent(name string) int {
	if s == nil {
		return 0
	}
	return s.rules[normalize(name)].percent
}

// Names lists the configured flags in order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.rules))
	for name := range s.rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// String renders the set back in FEATURE_FLAGS form.
func (s *Set) String() string {
	names := s.Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+s.rules[name].raw)
	}
	return strings.Join(parts, ",")
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}

package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SetDelimiter separates values of a StringSet in its stored form.
const SetDelimiter = ","

// StringSet is an ordered set of strings. It is stored as a single
// delimited string ("a,b,c") and decodes from either that form or a JSON array.
type StringSet []string

// NewStringSet builds a set from values, dropping duplicates and empty strings.
func NewStringSet(values ...string) StringSet {
	set := make(StringSet, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	return set
}

// ParseStringSet splits a delimited string into a set.
func ParseStringSet(s string) StringSet {
	if s == "" {
		return StringSet{}
	}
	return NewStringSet(strings.Split(s, SetDelimiter)...)
}

// String joins the set with SetDelimiter.
func (s StringSet) String() string {
	return strings.Join(s, SetDelimiter)
}

// Contains reports whether v is a member of the set.
func (s StringSet) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Check rejects values that cannot survive the delimited form.
func (s StringSet) Check() error {
	for _, v := range s {
		if strings.Contains(v, SetDelimiter) {
			return fmt.Errorf("set value %q contains delimiter %q", v, SetDelimiter)
		}
	}
	return nil
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	return json.Marshal(s.String())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = ParseStringSet(joined)
		return nil
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("string set must be a delimited string or an array: %w", err)
	}
	*s = NewStringSet(values...)
	return nil
}

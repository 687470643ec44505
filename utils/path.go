package utils

import "strings"

/**
 * Path is a parsed placeholder reference. For "{{t1_search.candidates.ids}}"
 * the path is [t1_search candidates ids]: First() addresses the task whose
 * result is referenced, Next() is the field walk inside that result.
 */
type Path []string

func NewPath(s ...string) Path {
	p := Path{}
	p = append(p, s...)
	return p
}

// ParseRef splits a raw placeholder into a Path. All braces and
// surrounding whitespace are stripped before splitting on dots.
func ParseRef(raw string) Path {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.Trim(trimmed, "{}")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return Path{}
	}
	return Path(strings.Split(trimmed, "."))
}

func (p Path) First() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[0], true
}

func (p Path) Next() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[1:]
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

package entity

import "strings"

// Task is one natural-language goal a run tries to accomplish.
// Name keys the dataset folder and log file; Goal is what the
// planner reasons about.
type Task struct {
	Name string
	Goal string
}

// Slug renders the task name safe for file paths: lower-cased, with
// anything outside [a-z0-9-_] collapsed to single dashes.
func (t Task) Slug() string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(t.Name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "task"
	}
	return out
}

package dom

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

// DefaultThreshold is the minimum fraction of the page that must
// differ, after normalization, to count as a real change.
const DefaultThreshold = 0.05

// volatileAttrs are attribute names whose values churn on every render
// without meaning anything: anti-CSRF material, cache tokens, server
// timestamps. They are erased before comparison.
var volatileAttrs = []string{"nonce", "csrf", "csrf-token", "etag", "ts", "timestamp"}

var volatileAttrRe = regexp.MustCompile(
	`\s(?:` + strings.Join(volatileAttrs, "|") + `)="[^"]*"`)

var _ output.ChangeDetector = (*Detector)(nil)

// Detector compares two snapshots by Levenshtein distance over their
// normalized content. Formatting churn and volatile attributes never
// count; equal normalized content is never a change.
type Detector struct {
	threshold float64
}

func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

func (d *Detector) HasChanged(before, after entity.Snapshot) bool {
	if before.Fingerprint == after.Fingerprint {
		return false
	}

	a := Normalize(before.Content)
	b := Normalize(after.Content)
	if a == b {
		return false
	}

	longer := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longer {
		longer = n
	}
	if longer == 0 {
		return false
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)

	return float64(distance)/float64(longer) > d.threshold
}

// Normalize collapses whitespace runs to single spaces and erases
// volatile attributes. Idempotent.
func Normalize(content string) string {
	content = volatileAttrRe.ReplaceAllString(content, "")
	return strings.Join(strings.Fields(content), " ")
}

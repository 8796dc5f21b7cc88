package output

import "webpilot/internal/domain/entity"

// ChangeDetector decides whether an action had an observable effect on
// the page. Implementations normalize both snapshots before comparing,
// so volatile attributes alone never count as change.
type ChangeDetector interface {
	HasChanged(before, after entity.Snapshot) bool
}

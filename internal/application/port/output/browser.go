package output

import (
	"context"

	"webpilot/internal/domain/entity"
)

// BrowserPort drives one live page. Locator-taking methods resolve
// fail-closed: a selector or xpath must match exactly one visible,
// enabled element, coordinates dispatch without matching.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, loc entity.Locator) error
	TypeText(ctx context.Context, loc entity.Locator, text string) error
	WaitFor(ctx context.Context, loc entity.Locator) error
	Scroll(ctx context.Context, direction string) error

	PageSnapshot(ctx context.Context) (entity.Snapshot, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	CurrentURL() string
	Close()
}

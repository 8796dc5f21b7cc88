package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"time"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
	"webpilot/internal/infrastructure/dom"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	ErrBrowserClosed          = errors.New("browser adapter is closed")
	ErrInvalidURL             = errors.New("invalid url")
	ErrInvalidScrollDirection = errors.New("invalid scroll direction")
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

// BrowserAdapter drives a single Chromium page through go-rod. One
// adapter, one page, one run: the loop owns it for the whole session.
type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	cleanCfg dom.CleanConfig
	closed   bool
}

type BrowserConfig struct {
	Headless                bool
	SlowMotion              time.Duration
	Timeout                 time.Duration
	NoSandbox               bool
	DevTools                bool
	DisableSecurityFeatures bool
	// SnapshotBudget caps snapshot content length in bytes.
	SnapshotBudget int
}

const (
	defaultSlowMotion     = 500 * time.Millisecond
	defaultTimeout        = 10 * time.Second
	defaultSnapshotBudget = 2000

	waitPollInterval = 100 * time.Millisecond
)

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:       false,
		SlowMotion:     defaultSlowMotion,
		Timeout:        defaultTimeout,
		NoSandbox:      false,
		DevTools:       false,
		SnapshotBudget: defaultSnapshotBudget,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")

	if cfg.DisableSecurityFeatures {
		l = l.
			Set("disable-web-security").
			Set("allow-running-insecure-content").
			Set("disable-setuid-sandbox")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		Trace(true).
		SlowMotion(cfg.SlowMotion).
		Context(ctx).
		MustConnect()

	page := browser.MustPage("about:blank")

	cleanCfg := dom.DefaultCleanConfig
	if cfg.SnapshotBudget > 0 {
		cleanCfg.MaxChars = cfg.SnapshotBudget
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		cleanCfg: cleanCfg,
	}, nil
}

func (b *BrowserAdapter) IsReady() bool {
	return !b.closed && b.browser != nil && b.page != nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if b.closed {
		return ErrBrowserClosed
	}
	if err := validateURL(rawURL); err != nil {
		return err
	}

	page := b.page.Context(ctx)
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	page.WaitIdle(5 * time.Second)
	return nil
}

func (b *BrowserAdapter) Click(ctx context.Context, loc entity.Locator) error {
	if b.closed {
		return ErrBrowserClosed
	}

	page := b.page.Context(ctx)

	// Coordinates skip element matching entirely.
	if loc.Coord != nil {
		if err := page.Mouse.MoveTo(proto.Point{X: float64(loc.Coord.X), Y: float64(loc.Coord.Y)}); err != nil {
			return fmt.Errorf("mouse move failed: %w", err)
		}
		if err := page.Mouse.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("click failed: %w", err)
		}
		page.WaitIdle(2 * time.Second)
		return nil
	}

	el, err := b.resolveOne(page, loc)
	if err != nil {
		return err
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	page.WaitIdle(2 * time.Second)
	return nil
}

func (b *BrowserAdapter) TypeText(ctx context.Context, loc entity.Locator, text string) error {
	if b.closed {
		return ErrBrowserClosed
	}
	if loc.Coord != nil {
		return fmt.Errorf("typing needs a selector or xpath target: %w", entity.ErrInvalidAction)
	}

	page := b.page.Context(ctx)

	el, err := b.resolveOne(page, loc)
	if err != nil {
		return err
	}

	entry, err := isTextEntry(el)
	if err != nil {
		return fmt.Errorf("inspect element %s: %w", loc, err)
	}
	if !entry {
		return fmt.Errorf("locator %s: %w", loc, entity.ErrWrongElementKind)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}

	return nil
}

func (b *BrowserAdapter) WaitFor(ctx context.Context, loc entity.Locator) error {
	if b.closed {
		return ErrBrowserClosed
	}
	if loc.Coord != nil {
		return fmt.Errorf("waiting needs a selector or xpath target: %w", entity.ErrInvalidAction)
	}

	deadline := time.Now().Add(b.timeout)
	for {
		if els, err := b.matches(b.page, loc); err == nil {
			for _, el := range els {
				if visible, verr := el.Visible(); verr == nil && visible {
					return nil
				}
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("locator %s: %w", loc, entity.ErrWaitTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitPollInterval):
		}
	}
}

func (b *BrowserAdapter) Scroll(ctx context.Context, direction string) error {
	if b.closed {
		return ErrBrowserClosed
	}

	page := b.page.Context(ctx)

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "down":
		page.Eval(`() => window.scrollBy(0, window.innerHeight * 2)`)
	case "up":
		page.Eval(`() => window.scrollBy(0, -window.innerHeight * 2)`)
	case "top":
		page.Eval(`() => window.scrollTo(0, 0)`)
	case "bottom":
		page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	default:
		return fmt.Errorf("%q: %w", direction, ErrInvalidScrollDirection)
	}

	page.WaitIdle(800 * time.Millisecond)
	return nil
}

// PageSnapshot reads the body markup, cleans it and fingerprints it.
// Observation only: nothing here mutates the page.
func (b *BrowserAdapter) PageSnapshot(ctx context.Context) (entity.Snapshot, error) {
	if b.closed {
		return entity.Snapshot{}, fmt.Errorf("%v: %w", ErrBrowserClosed, entity.ErrExtraction)
	}

	body, err := b.page.Context(ctx).Timeout(b.timeout).Element("body")
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("body not found (%v): %w", err, entity.ErrExtraction)
	}

	raw, err := body.HTML()
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("read body markup (%v): %w", err, entity.ErrExtraction)
	}

	return entity.NewSnapshot(dom.Clean(raw, &b.cleanCfg)), nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if b.closed {
		return nil, ErrBrowserClosed
	}

	imgBytes, err := b.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	if b.closed {
		return ""
	}
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func (b *BrowserAdapter) matches(page *rod.Page, loc entity.Locator) (rod.Elements, error) {
	if loc.XPath != "" {
		return page.ElementsX(loc.XPath)
	}
	return page.Elements(loc.Selector)
}

// resolveOne returns the single visible, enabled element the locator
// names. Zero usable matches is ErrElementNotFound (ErrElementDisabled
// when only disabled ones matched), more than one is ErrAmbiguousMatch;
// none of those is ever acted on.
func (b *BrowserAdapter) resolveOne(page *rod.Page, loc entity.Locator) (*rod.Element, error) {
	els, err := b.matches(page, loc)
	if err != nil {
		return nil, fmt.Errorf("locator %s (%v): %w", loc, err, entity.ErrElementNotFound)
	}

	var usable []*rod.Element
	disabled := 0
	for _, el := range els {
		if ok, verr := el.Visible(); verr != nil || !ok {
			continue
		}
		if attr, aerr := el.Attribute("disabled"); aerr == nil && attr != nil {
			disabled++
			continue
		}
		usable = append(usable, el)
	}

	switch len(usable) {
	case 0:
		if disabled > 0 {
			return nil, fmt.Errorf("locator %s: %w", loc, entity.ErrElementDisabled)
		}
		return nil, fmt.Errorf("locator %s: %w", loc, entity.ErrElementNotFound)
	case 1:
		return usable[0], nil
	default:
		return nil, fmt.Errorf("locator %s matched %d usable elements: %w", loc, len(usable), entity.ErrAmbiguousMatch)
	}
}

func isTextEntry(el *rod.Element) (bool, error) {
	obj, err := el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return false, err
	}

	switch obj.Value.Str() {
	case "textarea":
		return true, nil
	case "input":
		typ, err := el.Attribute("type")
		if err != nil {
			return false, err
		}
		if typ == nil {
			return true, nil
		}
		switch strings.ToLower(*typ) {
		case "", "text", "search", "email", "password", "url", "tel", "number":
			return true, nil
		}
		return false, nil
	}

	editable, err := el.Attribute("contenteditable")
	if err != nil {
		return false, err
	}
	return editable != nil && (*editable == "" || *editable == "true"), nil
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%q: %w", rawURL, ErrInvalidURL)
	}
	switch parsed.Scheme {
	case "http", "https", "about":
		return nil
	default:
		return fmt.Errorf("%q: %w", rawURL, ErrInvalidURL)
	}
}

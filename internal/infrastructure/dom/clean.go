// Package dom turns raw page markup into the compact, stable text the
// planner and the change detector work on.
package dom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type CleanConfig struct {
	// RemoveTags are dropped with their whole subtree.
	RemoveTags []string
	// RemoveAttrs are dropped wherever they appear; data-*, aria-*
	// (except aria-label) and on* handlers are always dropped.
	RemoveAttrs []string
	// MaxChars caps the rendered output. Zero means no cap.
	MaxChars int
}

var DefaultCleanConfig = CleanConfig{
	RemoveTags: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title",
	},
	RemoveAttrs: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	MaxChars: 2000,
}

// Clean reduces raw HTML to the body subtree with presentation noise
// removed: script/style/etc. subtrees, comments, hidden elements, and
// attributes irrelevant to interaction. The result is what a snapshot
// stores, so it must be deterministic for identical input.
func Clean(rawHTML string, cfg *CleanConfig) string {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return truncate(rawHTML, cfg.MaxChars)
	}

	body := findBody(doc)
	if body == nil {
		return truncate(rawHTML, cfg.MaxChars)
	}

	cleanNode(body, cfg)

	var sb strings.Builder
	_ = html.Render(&sb, body)
	return truncate(sb.String(), cfg.MaxChars)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func cleanNode(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if isOneOf(n.Data, cfg.RemoveTags...) || isHidden(n) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

// isHidden checks the markers a static parse can see. Computed styles
// are out of reach here, so this is best effort.
func isHidden(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if attr.Val == "true" {
				return true
			}
		case "type":
			if n.Data == "input" && attr.Val == "hidden" {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

func filterAttributes(attrs []html.Attribute, cfg *CleanConfig) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if removeAttr(attr, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func removeAttr(attr html.Attribute, cfg *CleanConfig) bool {
	if isOneOf(attr.Key, cfg.RemoveAttrs...) {
		return true
	}
	// aria-label is the accessible name of icon-only controls; it is
	// the one aria attribute worth keeping for interaction.
	if attr.Key == "aria-label" {
		return false
	}
	return strings.HasPrefix(attr.Key, "data-") ||
		strings.HasPrefix(attr.Key, "aria-") ||
		strings.HasPrefix(attr.Key, "on")
}

// truncate hard-cuts at max bytes, backing off a partial rune at the
// edge. No marker is appended: identical long pages must keep yielding
// identical snapshots.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}

// internal/menu/menu.go
package menu

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Sentinel is returned in place of the catalog when no menu source can be
// read. The interpreter grounds the model on this text so replies stay
// well-formed even without a real catalog.
const Sentinel = "Menu not available"

// Provider exposes the item/price catalog as read-only grounding text.
// The catalog is loaded once at construction; a reload requires a restart.
type Provider struct {
	text      string
	available bool
}

// Load reads the catalog at path and returns a Provider. Markdown sources
// are used verbatim; .html/.htm sources are converted to markdown first.
// A missing or unreadable source fails soft to the sentinel text.
func Load(path string) *Provider {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("menu catalog unavailable", "path", path, "error", err)
		return &Provider{text: Sentinel}
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		md, err := htmltomarkdown.ConvertString(text)
		if err != nil {
			slog.Warn("menu html conversion failed", "path", path, "error", err)
			return &Provider{text: Sentinel}
		}
		text = md
	}

	return &Provider{text: text, available: true}
}

// Text returns the cached catalog text (or the sentinel).
func (p *Provider) Text() string { return p.text }

// Available reports whether a real catalog was loaded.
func (p *Provider) Available() bool { return p.available }

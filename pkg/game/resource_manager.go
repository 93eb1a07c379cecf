package game

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/restoration/pkg/config"
)

// FontStyle selects one of the bundled Go font faces.
type FontStyle int

const (
	FontRegular FontStyle = iota
	FontBold
	FontItalic
)

func (s FontStyle) String() string {
	switch s {
	case FontBold:
		return "bold"
	case FontItalic:
		return "italic"
	}
	return "regular"
}

var fontData = map[FontStyle][]byte{
	FontRegular: goregular.TTF,
	FontBold:    gobold.TTF,
	FontItalic:  goitalic.TTF,
}

// ResourceManager is responsible for centralized management of page resources.
// It caches font faces per style and size, and the content records read from
// the content filesystem: the variant index, the icon registry and one site
// record per variant.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. It is used from the ebiten game loop
// only; content reloads triggered by the file watcher are applied from Update.
//
// Usage:
//
//	rm := NewResourceManager(embedded.Content())
//	if err := rm.LoadContent(); err != nil {
//	    return err
//	}
//	site, err := rm.Site("wealthy")
type ResourceManager struct {
	content fs.FS

	fontSources   map[FontStyle]*text.GoTextFaceSource // Parsed font sources
	fontFaceCache map[string]*text.GoTextFace          // style:size -> face

	loaded *config.Content
}

var errContentNotLoaded = errors.New("content not loaded, call LoadContent() first")

// NewResourceManager creates a ResourceManager reading content from fsys.
func NewResourceManager(fsys fs.FS) *ResourceManager {
	return &ResourceManager{
		content:       fsys,
		fontSources:   make(map[FontStyle]*text.GoTextFaceSource),
		fontFaceCache: make(map[string]*text.GoTextFace),
	}
}

// ContentFS returns the filesystem content is read from.
func (rm *ResourceManager) ContentFS() fs.FS {
	return rm.content
}

// LoadFont returns a text face for the style and size, creating and caching
// it on first use.
func (rm *ResourceManager) LoadFont(style FontStyle, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", style, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, ok := rm.fontSources[style]
	if !ok {
		data, known := fontData[style]
		if !known {
			return nil, fmt.Errorf("unknown font style %d", style)
		}
		var err error
		source, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", style, err)
		}
		rm.fontSources[style] = source
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// GetFont retrieves a previously loaded face from the cache, or nil.
func (rm *ResourceManager) GetFont(style FontStyle, size float64) *text.GoTextFace {
	return rm.fontFaceCache[fmt.Sprintf("%s:%.1f", style, size)]
}

// LoadContent reads the variant index, the icon registry and every site
// record from the content filesystem.
func (rm *ResourceManager) LoadContent() error {
	content, err := config.LoadContent(rm.content)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	rm.loaded = content
	return nil
}

// Reload switches to a new content filesystem. The previous content stays
// active when the new one fails to load.
func (rm *ResourceManager) Reload(fsys fs.FS) error {
	content, err := config.LoadContent(fsys)
	if err != nil {
		return fmt.Errorf("failed to reload content: %w", err)
	}
	rm.content = fsys
	rm.loaded = content
	return nil
}

// Content returns the loaded content, or nil before LoadContent.
func (rm *ResourceManager) Content() *config.Content {
	return rm.loaded
}

// Variants returns the variant index, or nil before LoadContent.
func (rm *ResourceManager) Variants() *config.VariantRegistry {
	if rm.loaded == nil {
		return nil
	}
	return rm.loaded.Variants
}

// Icons returns the icon registry, or nil before LoadContent.
func (rm *ResourceManager) Icons() *config.IconRegistry {
	if rm.loaded == nil {
		return nil
	}
	return rm.loaded.Icons
}

// Site returns the site record of a variant; an empty id selects the default
// variant.
func (rm *ResourceManager) Site(id string) (*config.SiteConfig, error) {
	if rm.loaded == nil {
		return nil, errContentNotLoaded
	}
	return rm.loaded.Site(id)
}

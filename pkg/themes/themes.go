// Package themes loads go-theme manifests and resolves a theme/variant pair
// into the CSS custom properties the HTML renderer emits.
package themes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-bookform/pkg/render"
)

//go:embed manifests/*.yaml
var builtinManifests embed.FS

const (
	// DefaultTheme is the bundled theme used when nothing else is configured.
	DefaultTheme = "paper"
	// StylesheetAsset is the asset key of a theme's main stylesheet.
	StylesheetAsset = "stylesheet"
)

var (
	ErrThemeNotFound   = errors.New("themes: theme not found")
	ErrVariantNotFound = errors.New("themes: variant not found")
)

type registrar interface {
	Register(manifest *theme.Manifest) error
}

// Catalog stores manifests and implements theme.ThemeSelector.
type Catalog struct {
	mu             sync.RWMutex
	registry       registrar
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// New creates an empty catalog. Empty defaults fall back to DefaultTheme and
// the base variant.
func New(defaultTheme, defaultVariant string) *Catalog {
	defaultTheme = strings.TrimSpace(defaultTheme)
	if defaultTheme == "" {
		defaultTheme = DefaultTheme
	}
	return &Catalog{
		registry:       theme.NewRegistry(),
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   defaultTheme,
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Builtin returns a catalog holding the bundled manifests.
func Builtin(defaultTheme, defaultVariant string) (*Catalog, error) {
	c := New(defaultTheme, defaultVariant)
	sub, err := fs.Sub(builtinManifests, "manifests")
	if err != nil {
		return nil, fmt.Errorf("themes: builtin manifests: %w", err)
	}
	if err := c.LoadFS(sub); err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds a manifest. Names must be unique.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("themes: manifest name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.manifests[manifest.Name]; exists {
		return fmt.Errorf("themes: theme %q already registered", manifest.Name)
	}
	if err := c.registry.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %q: %w", manifest.Name, err)
	}
	c.manifests[manifest.Name] = manifest
	return nil
}

// Names lists registered themes, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Select resolves name and variant; empty values use the catalog defaults.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = c.defaultVariant
	}

	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrVariantNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest and every token becomes a "--" prefixed
// CSS variable.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	m := sel.Manifest

	tokens := copyMap(m.Tokens)
	partials := copyMap(m.Templates)
	files := copyMap(m.Assets.Files)
	prefix := m.Assets.Prefix

	if variant, ok := m.Variants[sel.Variant]; ok {
		tokens = mergeMap(tokens, variant.Tokens)
		partials = mergeMap(partials, variant.Templates)
		files = mergeMap(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// View converts a renderer config into the view attached to a page.
func View(cfg *theme.RendererConfig) *render.ThemeView {
	if cfg == nil {
		return nil
	}
	view := &render.ThemeView{
		Name:      cfg.Theme,
		Variant:   cfg.Variant,
		Variables: copyMap(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		if href := cfg.AssetURL(StylesheetAsset); href != "" {
			view.Styles = append(view.Styles, href)
		}
	}
	return view
}

// Resolve selects and flattens in one step.
func (c *Catalog) Resolve(name, variant string) (*render.ThemeView, error) {
	sel, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return View(RendererConfig(sel)), nil
}

// LoadFS registers every *.yaml / *.yml manifest found in fsys.
func (c *Catalog) LoadFS(fsys fs.FS) error {
	if fsys == nil {
		return nil
	}
	return fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isManifestFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("themes: read %s: %w", p, err)
		}
		manifest, err := ParseManifest(data)
		if err != nil {
			return fmt.Errorf("themes: %s: %w", p, err)
		}
		return c.Register(manifest)
	})
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var raw manifestFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, errors.New("manifest name is required")
	}

	manifest := &theme.Manifest{
		Name:      strings.TrimSpace(raw.Name),
		Version:   raw.Version,
		Tokens:    raw.Tokens,
		Templates: raw.Templates,
		Assets:    theme.Assets{Prefix: raw.Assets.Prefix, Files: raw.Assets.Files},
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(raw.Variants))
		for name, v := range raw.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return manifest, nil
}

func isManifestFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".yaml" || ext == ".yml"
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func mergeMap(base, over map[string]string) map[string]string {
	if len(over) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(over))
	}
	for k, v := range over {
		base[k] = v
	}
	return base
}

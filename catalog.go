package astroreturn

import (
	"fmt"
	"os"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Catalog is an immutable set of bodies keyed by case-insensitive ID.
type Catalog struct {
	bodies []Body
	byID   map[string]Body
}

// NewCatalog validates bodies and builds a catalog. IDs must be unique
// ignoring case.
func NewCatalog(bodies []Body) (*Catalog, error) {
	c := &Catalog{
		bodies: make([]Body, 0, len(bodies)),
		byID:   make(map[string]Body, len(bodies)),
	}
	for _, b := range bodies {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(b.ID)
		if _, dup := c.byID[key]; dup {
			return nil, fmt.Errorf("%w: duplicate body id %q", ErrInvalidInput, b.ID)
		}
		c.byID[key] = b
		c.bodies = append(c.bodies, b)
	}
	return c, nil
}

// DefaultCatalog returns the built-in bodies.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Body{
		Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, LunarPhase,
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup finds a body by ID, ignoring case.
func (c *Catalog) Lookup(id string) (Body, bool) {
	b, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	return b, ok
}

// Bodies returns the bodies in catalog order.
func (c *Catalog) Bodies() []Body {
	out := make([]Body, len(c.bodies))
	copy(out, c.bodies)
	return out
}

// Len returns the number of bodies.
func (c *Catalog) Len() int { return len(c.bodies) }

// catalogFile is the on-disk layout:
//
//	extend_defaults = true
//
//	[[body]]
//	id = "saturn"
//	period_days = 378.09
//	step_days = 10
//	retrograde = true
type catalogFile struct {
	ExtendDefaults *bool  `toml:"extend_defaults"`
	Bodies         []Body `toml:"body"`
}

// ParseCatalog reads a TOML catalog. Unless extend_defaults is false, the
// file's bodies are layered over DefaultCatalog: an entry with a built-in
// ID replaces it, new IDs are appended.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	extend := f.ExtendDefaults == nil || *f.ExtendDefaults
	if !extend {
		return NewCatalog(f.Bodies)
	}

	base := DefaultCatalog().Bodies()
	index := make(map[string]int, len(base))
	for i, b := range base {
		index[strings.ToLower(b.ID)] = i
	}

	var added []Body
	seen := make(map[string]bool, len(f.Bodies))
	for _, b := range f.Bodies {
		key := strings.ToLower(b.ID)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate body id %q", ErrInvalidInput, b.ID)
		}
		seen[key] = true

		if i, ok := index[key]; ok {
			base[i] = b
			continue
		}
		added = append(added, b)
	}
	sort.SliceStable(added, func(i, j int) bool { return added[i].ID < added[j].ID })

	return NewCatalog(append(base, added...))
}

// LoadCatalogFile reads and parses a TOML catalog from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

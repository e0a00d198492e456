package curriculum

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Units []Unit `yaml:"units"`
}

// Catalog is the ordered unit/level tree. Static segments come from the
// embedded YAML; generated segments are cached onto levels by ID.
type Catalog struct {
	mu    sync.RWMutex
	units []Unit
}

// Default parses the embedded HTML curriculum.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

// MustDefault is Default for package-level wiring and tests. It panics if
// the embedded catalog is invalid.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{units: f.Units}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return c, nil
}

// New builds a catalog from units without validation. Used by tests and
// callers that construct content programmatically.
func New(units ...Unit) *Catalog {
	return &Catalog{units: units}
}

// Units returns a copy of the unit list.
func (c *Catalog) Units() []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.units)
}

// Levels returns every level in catalog order.
func (c *Catalog) Levels() []Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Level
	for _, u := range c.units {
		out = append(out, u.Levels...)
	}
	return out
}

// Level looks up a level by ID.
func (c *Catalog) Level(id string) (Level, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ui, li := c.find(id)
	if ui < 0 {
		return Level{}, false
	}
	return c.units[ui].Levels[li], true
}

// UnitOf returns the unit containing the level.
func (c *Catalog) UnitOf(levelID string) (Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ui, _ := c.find(levelID)
	if ui < 0 {
		return Unit{}, false
	}
	return c.units[ui], true
}

// FirstLevel returns the first level of the first unit.
func (c *Catalog) FirstLevel() (Level, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, u := range c.units {
		if len(u.Levels) > 0 {
			return u.Levels[0], true
		}
	}
	return Level{}, false
}

// NextLevel returns the level unlocked by completing levelID: the next
// level in the same unit, or the first level of the following unit.
func (c *Catalog) NextLevel(levelID string) (Level, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ui, li := c.find(levelID)
	if ui < 0 {
		return Level{}, false
	}
	if li+1 < len(c.units[ui].Levels) {
		return c.units[ui].Levels[li+1], true
	}
	for _, u := range c.units[ui+1:] {
		if len(u.Levels) > 0 {
			return u.Levels[0], true
		}
	}
	return Level{}, false
}

// SetSegments caches segments onto the level with the given ID. It reports
// false when the level does not exist, leaving the catalog untouched.
func (c *Catalog) SetSegments(levelID string, segments []Segment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ui, li := c.find(levelID)
	if ui < 0 {
		return false
	}
	// Copy-on-write so slices handed out earlier stay unchanged.
	levels := slices.Clone(c.units[ui].Levels)
	levels[li].Segments = slices.Clone(segments)
	c.units[ui].Levels = levels
	return true
}

func (c *Catalog) find(levelID string) (int, int) {
	for ui, u := range c.units {
		for li, l := range u.Levels {
			if l.ID == levelID {
				return ui, li
			}
		}
	}
	return -1, -1
}

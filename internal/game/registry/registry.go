// Package registry owns every World Bible in the process, keyed by world id.
package registry

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
)

// Summary is a short description of a registered world.
type Summary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Style       bible.Style     `json:"style"`
	TechLevel   bible.TechLevel `json:"tech_level"`
	Characters  int             `json:"characters"`
	Protagonist string          `json:"protagonist,omitempty"`
}

// entry guards one world. Mutations of the same world are serialized by mu.
type entry struct {
	mu    sync.RWMutex
	world *bible.WorldBible
}

// Registry maps world ids to World Bibles.
// All methods are safe for concurrent use; callers only ever see copies.
type Registry struct {
	mu     sync.RWMutex
	worlds map[string]*entry
	newID  func() string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		worlds: make(map[string]*entry),
		newID:  uuid.NewString,
	}
}

// Create stores a copy of w under a fresh world id.
//
// Precondition: w must be non-nil and valid.
// Postcondition: Returns an id that was not previously registered; no existing world is overwritten.
func (r *Registry) Create(w *bible.WorldBible) string {
	stored := w.Clone()
	if stored.Characters == nil {
		stored.Characters = make(map[string]*bible.Character)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for {
		if _, exists := r.worlds[id]; !exists {
			break
		}
		id = r.newID()
	}
	r.worlds[id] = &entry{world: stored}
	return id
}

func (r *Registry) lookup(worldID string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.worlds[worldID]
	r.mu.RUnlock()
	if !ok {
		return nil, bible.NewError(bible.KindWorldNotFound, "world_id", "world %q not found", worldID)
	}
	return e, nil
}

// Get returns a deep copy of the world registered under worldID.
//
// Postcondition: Returns WORLD_NOT_FOUND if no such world exists.
func (r *Registry) Get(worldID string) (*bible.WorldBible, error) {
	e, err := r.lookup(worldID)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.world.Clone(), nil
}

// CharacterNames returns the names of the characters in a world, sorted.
func (r *Registry) CharacterNames(worldID string) ([]string, error) {
	e, err := r.lookup(worldID)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := e.world.CharacterNames()
	slices.Sort(names)
	return names, nil
}

// AddCharacter stores a copy of c in a world. The name check runs under the
// world's lock, so of two concurrent adds with the same name exactly one succeeds.
//
// Precondition: c must be a validated character.
// Postcondition: Returns WORLD_NOT_FOUND or DUPLICATE_NAME without modifying the world.
func (r *Registry) AddCharacter(worldID string, c *bible.Character) error {
	e, err := r.lookup(worldID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err = e.insert(worldID, c)
	return err
}

// AddProtagonist stores a copy of c and makes it the world's protagonist in
// one step. No reader can observe the character without the assignment.
//
// Precondition: c must be a validated character.
// Postcondition: Returns WORLD_NOT_FOUND or DUPLICATE_NAME without modifying the world.
func (r *Registry) AddProtagonist(worldID string, c *bible.Character) error {
	e, err := r.lookup(worldID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	stored, err := e.insert(worldID, c)
	if err != nil {
		return err
	}
	e.world.Protagonist = stored
	return nil
}

// insert requires e.mu to be held for writing.
func (e *entry) insert(worldID string, c *bible.Character) (*bible.Character, error) {
	if _, exists := e.world.Characters[c.Name]; exists {
		return nil, bible.NewError(bible.KindDuplicateName, "character.name",
			"character %q already exists in world %q", c.Name, worldID)
	}
	stored := c.Clone()
	e.world.Characters[c.Name] = stored
	return stored, nil
}

// UpdateCharacter applies patch to the named character. The patched character
// is re-validated against the other names in the world and committed only if valid.
//
// Postcondition: Returns the updated character, or an error and leaves the world unchanged.
func (r *Registry) UpdateCharacter(worldID, name string, patch bible.CharacterPatch) (*bible.Character, error) {
	e, err := r.lookup(worldID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.world.Characters[name]
	if !ok {
		return nil, bible.NewError(bible.KindCharacterNotFound, "character.name",
			"character %q not found in world %q", name, worldID)
	}
	if patch.IsEmpty() {
		return current.Clone(), nil
	}

	others := make([]string, 0, len(e.world.Characters))
	for other := range e.world.Characters {
		if other != name {
			others = append(others, other)
		}
	}
	updated, err := bible.ValidateCharacter(patch.Apply(current.Input()), others)
	if err != nil {
		return nil, err
	}

	e.world.Characters[name] = updated
	if e.world.Protagonist != nil && e.world.Protagonist.Name == name {
		e.world.Protagonist = updated
	}
	return updated.Clone(), nil
}

// SetProtagonist makes the named character the world's protagonist.
//
// Postcondition: Returns WORLD_NOT_FOUND or CHARACTER_NOT_FOUND without modifying the world.
func (r *Registry) SetProtagonist(worldID, name string) error {
	e, err := r.lookup(worldID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.world.Characters[name]
	if !ok {
		return bible.NewError(bible.KindCharacterNotFound, "character.name",
			"character %q not found in world %q", name, worldID)
	}
	e.world.Protagonist = c
	return nil
}

// List returns a summary of every world, sorted by name and then id.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	entries := make(map[string]*entry, len(r.worlds))
	for id, e := range r.worlds {
		entries[id] = e
	}
	r.mu.RUnlock()

	out := make([]Summary, 0, len(entries))
	for id, e := range entries {
		e.mu.RLock()
		s := Summary{
			ID:         id,
			Name:       e.world.Metadata.Name,
			Style:      e.world.Metadata.Style,
			TechLevel:  e.world.Cosmology.TechLevel,
			Characters: len(e.world.Characters),
		}
		if e.world.Protagonist != nil {
			s.Protagonist = e.world.Protagonist.Name
		}
		e.mu.RUnlock()
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Len returns the number of registered worlds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.worlds)
}

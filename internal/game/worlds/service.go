// Package worlds is the operation façade over the World Bible core. Transports
// call it with raw input; it validates through package bible and stores
// through the registry.
package worlds

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/game/registry"
	"github.com/cory-johannsen/worldbible/internal/observability"
)

// Operation names used in logs and failure metrics.
const (
	OpGenerateWorld     = "generate_world"
	OpCreateCharacter   = "create_character"
	OpReadWorld         = "read_world"
	OpUpdateCharacter   = "update_character"
	OpAssignProtagonist = "assign_protagonist"
)

// Store is the world storage the service delegates to. *registry.Registry implements it.
type Store interface {
	Create(w *bible.WorldBible) string
	Get(worldID string) (*bible.WorldBible, error)
	CharacterNames(worldID string) ([]string, error)
	AddCharacter(worldID string, c *bible.Character) error
	AddProtagonist(worldID string, c *bible.Character) error
	UpdateCharacter(worldID, name string, patch bible.CharacterPatch) (*bible.Character, error)
	SetProtagonist(worldID, name string) error
	List() []registry.Summary
	Len() int
}

// Templates supplies the raw world input for a style. *genesis.Catalog implements it.
type Templates interface {
	WorldInput(style bible.Style) (bible.WorldInput, error)
}

// CharacterCreated confirms a successful create_character call.
type CharacterCreated struct {
	WorldID     string `json:"world_id"`
	Name        string `json:"name"`
	Race        string `json:"race"`
	Location    string `json:"location,omitempty"`
	Protagonist bool   `json:"protagonist,omitempty"`
}

// Service implements the world operations.
// All methods are safe for concurrent use.
type Service struct {
	store     Store
	templates Templates
	rules     []bible.ConsistencyRule
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service.
//
// Precondition: store, templates and logger must be non-nil; rules must be
// non-empty; metrics may be nil to disable metrics.
func NewService(store Store, templates Templates, rules []bible.ConsistencyRule, logger *zap.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:     store,
		templates: templates,
		rules:     rules,
		logger:    logger,
		metrics:   metrics,
	}
}

// GenerateWorld builds the default world for style, validates it in full and
// registers it.
//
// Postcondition: Returns the new world id, or INVALID_ENUM / CONSISTENCY_ERROR
// (or another validation error) and registers nothing.
func (s *Service) GenerateWorld(ctx context.Context, style string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	parsed, err := bible.ParseStyle(style)
	if err != nil {
		return "", s.fail(OpGenerateWorld, err, zap.String("style", style))
	}
	in, err := s.templates.WorldInput(parsed)
	if err != nil {
		return "", s.fail(OpGenerateWorld, err, zap.String("style", style))
	}
	w, err := bible.ValidateWorldWithRules(in, s.rules)
	if err != nil {
		return "", s.fail(OpGenerateWorld, err, zap.String("style", style))
	}

	id := s.store.Create(w)
	if s.metrics != nil {
		s.metrics.WorldsCreated.Inc()
		s.metrics.Worlds.Set(float64(s.store.Len()))
	}
	s.logger.Info("world generated",
		zap.String("world_id", id),
		zap.String("style", style),
		zap.String("tech_level", string(w.Cosmology.TechLevel)),
	)
	return id, nil
}

// CreateCharacter validates in against the world's existing names and adds it.
// When in.Protagonist is set the character also becomes the protagonist.
//
// Postcondition: Returns the confirmation, or WORLD_NOT_FOUND, DUPLICATE_NAME
// or a character validation error and leaves the world unchanged.
func (s *Service) CreateCharacter(ctx context.Context, worldID string, in bible.CharacterInput) (CharacterCreated, error) {
	if err := ctx.Err(); err != nil {
		return CharacterCreated{}, err
	}
	names, err := s.store.CharacterNames(worldID)
	if err != nil {
		return CharacterCreated{}, s.fail(OpCreateCharacter, err, zap.String("world_id", worldID))
	}
	c, err := bible.ValidateCharacter(in, names)
	if err != nil {
		return CharacterCreated{}, s.fail(OpCreateCharacter, err,
			zap.String("world_id", worldID), zap.String("character", in.Name))
	}
	add := s.store.AddCharacter
	if in.Protagonist {
		add = s.store.AddProtagonist
	}
	if err := add(worldID, c); err != nil {
		return CharacterCreated{}, s.fail(OpCreateCharacter, err,
			zap.String("world_id", worldID), zap.String("character", c.Name))
	}

	if s.metrics != nil {
		s.metrics.CharactersCreated.Inc()
	}
	s.logger.Info("character created",
		zap.String("world_id", worldID),
		zap.String("character", c.Name),
		zap.Bool("protagonist", in.Protagonist),
	)
	return CharacterCreated{
		WorldID:     worldID,
		Name:        c.Name,
		Race:        c.Race,
		Location:    c.CurrentLocation,
		Protagonist: in.Protagonist,
	}, nil
}

// ReadWorld returns a copy of the world.
func (s *Service) ReadWorld(ctx context.Context, worldID string) (*bible.WorldBible, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, err := s.store.Get(worldID)
	if err != nil {
		return nil, s.fail(OpReadWorld, err, zap.String("world_id", worldID))
	}
	return w, nil
}

// UpdateCharacter applies patch to the named character.
//
// Postcondition: Returns the updated character, or an error and leaves the world unchanged.
func (s *Service) UpdateCharacter(ctx context.Context, worldID, name string, patch bible.CharacterPatch) (*bible.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.store.UpdateCharacter(worldID, name, patch)
	if err != nil {
		return nil, s.fail(OpUpdateCharacter, err,
			zap.String("world_id", worldID), zap.String("character", name))
	}
	s.logger.Info("character updated",
		zap.String("world_id", worldID),
		zap.String("character", name),
	)
	return c, nil
}

// AssignProtagonist makes an existing character the world's protagonist.
func (s *Service) AssignProtagonist(ctx context.Context, worldID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.SetProtagonist(worldID, name); err != nil {
		return s.fail(OpAssignProtagonist, err,
			zap.String("world_id", worldID), zap.String("character", name))
	}
	s.logger.Info("protagonist assigned",
		zap.String("world_id", worldID),
		zap.String("character", name),
	)
	return nil
}

// ListWorlds summarizes every registered world.
func (s *Service) ListWorlds(ctx context.Context) ([]registry.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.List(), nil
}

// fail logs and counts a failed operation and returns err unchanged.
func (s *Service) fail(op string, err error, fields ...zap.Field) error {
	kind := bible.KindOf(err)
	fields = append(fields,
		zap.String("operation", op),
		zap.String("kind", string(kind)),
		zap.Strings("fields", bible.FieldsOf(err)),
		zap.Error(err),
	)
	if kind == "" {
		s.logger.Error("operation failed", fields...)
	} else {
		s.logger.Warn("operation rejected", fields...)
	}
	if s.metrics != nil {
		s.metrics.RecordFailure(op, string(kind))
	}
	return err
}

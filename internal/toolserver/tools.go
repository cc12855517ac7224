// Package toolserver exposes the world operations as MCP tools and resources
// so an agent can generate worlds and manage their characters.
package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/game/registry"
	"github.com/cory-johannsen/worldbible/internal/game/worlds"
)

// Tool names.
const (
	ToolGenerateWorld     = "generate_world"
	ToolCreateCharacter   = "create_character"
	ToolReadWorld         = "read_world"
	ToolUpdateCharacter   = "update_character"
	ToolAssignProtagonist = "assign_protagonist"
	ToolListWorlds        = "list_worlds"
)

// WorldURIPrefix prefixes the resource URI of every world.
const WorldURIPrefix = "worlds://"

// GenerateWorldInput is the generate_world argument.
type GenerateWorldInput struct {
	Style string `json:"style" jsonschema:"world style such as Fantasy or Sci-Fi"`
}

// GenerateWorldResult is the generate_world result.
type GenerateWorldResult struct {
	WorldID string `json:"world_id"`
	URI     string `json:"uri"`
}

// CreateCharacterInput is the create_character argument.
type CreateCharacterInput struct {
	WorldID   string               `json:"world_id" jsonschema:"id returned by generate_world"`
	Character bible.CharacterInput `json:"character" jsonschema:"the character to add"`
}

// ReadWorldInput is the read_world argument.
type ReadWorldInput struct {
	WorldID string `json:"world_id" jsonschema:"id returned by generate_world"`
}

// ReadWorldResult wraps the full world.
type ReadWorldResult struct {
	World *bible.WorldBible `json:"world"`
}

// UpdateCharacterInput is the update_character argument. Patch is decoded
// strictly so that immutable or unknown keys are reported by name.
type UpdateCharacterInput struct {
	WorldID string         `json:"world_id" jsonschema:"id returned by generate_world"`
	Name    string         `json:"name" jsonschema:"name of the character to update"`
	Patch   map[string]any `json:"patch" jsonschema:"fields to change; name and race cannot be changed"`
}

// UpdateCharacterResult is the updated character.
type UpdateCharacterResult struct {
	Character *bible.Character `json:"character"`
}

// AssignProtagonistInput is the assign_protagonist argument.
type AssignProtagonistInput struct {
	WorldID string `json:"world_id" jsonschema:"id returned by generate_world"`
	Name    string `json:"name" jsonschema:"name of an existing character"`
}

// AssignProtagonistResult confirms the assignment.
type AssignProtagonistResult struct {
	WorldID     string `json:"world_id"`
	Protagonist string `json:"protagonist"`
}

// ListWorldsInput takes no arguments.
type ListWorldsInput struct{}

// ListWorldsResult summarizes the registered worlds.
type ListWorldsResult struct {
	Worlds []registry.Summary `json:"worlds"`
}

// toolError presents a world error as "<KIND>: <detail>".
type toolError struct {
	err error
}

func (e toolError) Error() string { return bible.Describe(e.err) }

func (e toolError) Unwrap() error { return e.err }

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return toolError{err: err}
}

func generateWorldTool() *mcp.Tool {
	styles := make([]string, len(bible.Styles))
	for i, s := range bible.Styles {
		styles[i] = string(s)
	}
	return &mcp.Tool{
		Name:        ToolGenerateWorld,
		Description: "Generates a complete, validated world of the given style. Styles: " + strings.Join(styles, ", ") + ".",
	}
}

func generateWorldHandler(svc *worlds.Service) mcp.ToolHandlerFor[GenerateWorldInput, GenerateWorldResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GenerateWorldInput) (*mcp.CallToolResult, GenerateWorldResult, error) {
		id, err := svc.GenerateWorld(ctx, in.Style)
		if err != nil {
			return nil, GenerateWorldResult{}, wrap(err)
		}
		return nil, GenerateWorldResult{WorldID: id, URI: WorldURIPrefix + id}, nil
	}
}

func createCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolCreateCharacter,
		Description: "Adds a character to a world. Names are unique per world; set protagonist to also make it the world's protagonist.",
	}
}

func createCharacterHandler(svc *worlds.Service) mcp.ToolHandlerFor[CreateCharacterInput, worlds.CharacterCreated] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CreateCharacterInput) (*mcp.CallToolResult, worlds.CharacterCreated, error) {
		created, err := svc.CreateCharacter(ctx, in.WorldID, in.Character)
		if err != nil {
			return nil, worlds.CharacterCreated{}, wrap(err)
		}
		return nil, created, nil
	}
}

func readWorldTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolReadWorld,
		Description: "Returns the full World Bible, including every character.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}
}

func readWorldHandler(svc *worlds.Service) mcp.ToolHandlerFor[ReadWorldInput, ReadWorldResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ReadWorldInput) (*mcp.CallToolResult, ReadWorldResult, error) {
		w, err := svc.ReadWorld(ctx, in.WorldID)
		if err != nil {
			return nil, ReadWorldResult{}, wrap(err)
		}
		return nil, ReadWorldResult{World: w}, nil
	}
}

func updateCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name: ToolUpdateCharacter,
		Description: "Changes an existing character. Patchable fields: " +
			strings.Join(bible.PatchableFields, ", ") + ". Attributes and reputation are merged.",
	}
}

func updateCharacterHandler(svc *worlds.Service) mcp.ToolHandlerFor[UpdateCharacterInput, UpdateCharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UpdateCharacterInput) (*mcp.CallToolResult, UpdateCharacterResult, error) {
		patch, err := bible.DecodeCharacterPatch(in.Patch)
		if err != nil {
			return nil, UpdateCharacterResult{}, wrap(err)
		}
		c, err := svc.UpdateCharacter(ctx, in.WorldID, in.Name, patch)
		if err != nil {
			return nil, UpdateCharacterResult{}, wrap(err)
		}
		return nil, UpdateCharacterResult{Character: c}, nil
	}
}

func assignProtagonistTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolAssignProtagonist,
		Description: "Makes an existing character the world's protagonist.",
	}
}

func assignProtagonistHandler(svc *worlds.Service) mcp.ToolHandlerFor[AssignProtagonistInput, AssignProtagonistResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AssignProtagonistInput) (*mcp.CallToolResult, AssignProtagonistResult, error) {
		if err := svc.AssignProtagonist(ctx, in.WorldID, in.Name); err != nil {
			return nil, AssignProtagonistResult{}, wrap(err)
		}
		return nil, AssignProtagonistResult{WorldID: in.WorldID, Protagonist: in.Name}, nil
	}
}

func listWorldsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolListWorlds,
		Description: "Lists every world with its style, tech level and character count.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}
}

func listWorldsHandler(svc *worlds.Service) mcp.ToolHandlerFor[ListWorldsInput, ListWorldsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListWorldsInput) (*mcp.CallToolResult, ListWorldsResult, error) {
		list, err := svc.ListWorlds(ctx)
		if err != nil {
			return nil, ListWorldsResult{}, wrap(err)
		}
		if list == nil {
			list = []registry.Summary{}
		}
		return nil, ListWorldsResult{Worlds: list}, nil
	}
}

// WorldResourceTemplate describes the readable world resource.
func WorldResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "world",
		Title:       "World Bible",
		Description: "A complete World Bible as JSON. URI format: worlds://{world_id}",
		MIMEType:    "application/json",
		URITemplate: WorldURIPrefix + "{world_id}",
	}
}

// WorldResourceHandler serves worlds://{world_id}.
func WorldResourceHandler(svc *worlds.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("world ID is required; use URI format worlds://{world_id}")
		}
		uri := req.Params.URI
		worldID, err := parseWorldURI(uri)
		if err != nil {
			return nil, err
		}
		w, err := svc.ReadWorld(ctx, worldID)
		if err != nil {
			if bible.KindOf(err) == bible.KindWorldNotFound {
				return nil, mcp.ResourceNotFoundError(uri)
			}
			return nil, wrap(err)
		}
		data, err := json.MarshalIndent(w, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal world: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: "application/json", Text: string(data)},
			},
		}, nil
	}
}

func parseWorldURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, WorldURIPrefix) {
		return "", fmt.Errorf("URI must start with %q", WorldURIPrefix)
	}
	id := strings.TrimSpace(strings.TrimPrefix(uri, WorldURIPrefix))
	if id == "" || strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("world ID is required in URI %q", uri)
	}
	return id, nil
}

// loggingMiddleware logs every request the server receives.
func loggingMiddleware(logger *zap.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			res, err := next(ctx, method, req)
			fields := []zap.Field{
				zap.String("method", method),
				zap.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				logger.Warn("mcp request failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("mcp request", fields...)
			}
			return res, err
		}
	}
}

// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/graph"
	"github.com/aoidb/aoi/infrastructure/api/jsonapi"
	"github.com/aoidb/aoi/internal/database"
)

// GraphQuerier answers neighbourhood queries for MCP tools.
type GraphQuerier interface {
	Neighborhood(ctx context.Context, seedID int64, limit int) (graph.Neighborhood, error)
}

// EntityLookup reads entities and relations for MCP tools.
type EntityLookup interface {
	Get(ctx context.Context, id int64) (entity.Entity, error)
	Search(ctx context.Context, filter service.EntityFilter) ([]entity.Entity, error)
	Relations(ctx context.Context, entityID int64) ([]entity.Relation, error)
}

// EventLookup reads events with their linked entities for MCP tools.
type EventLookup interface {
	Get(ctx context.Context, id int64) (service.EventDetail, error)
}

// Server wraps the MCP server with entity-graph tools.
type Server struct {
	mcpServer  *server.MCPServer
	graph      GraphQuerier
	entities   EntityLookup
	events     EventLookup
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(graph GraphQuerier, entities EntityLookup, events EventLookup, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		graph:      graph,
		entities:   entities,
		events:     events,
		serializer: jsonapi.NewSerializer(),
		logger:     logger,
	}

	mcpServer := server.NewMCPServer(
		"aoi",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("graph_neighborhood",
		mcp.WithDescription("Two-hop neighbourhood of an entity: the events it appears in, the entities sharing those events, and co-occurrence weights"),
		mcp.WithNumber("entity_id",
			mcp.Required(),
			mcp.Description("ID of the seed entity"),
		),
		mcp.WithNumber("max",
			mcp.Description(fmt.Sprintf("Maximum number of events to expand (default: %d)", service.DefaultGraphMax)),
		),
	), s.handleNeighborhood)

	mcpServer.AddTool(mcp.NewTool("search_entities",
		mcp.WithDescription("Find entities by name fragment and type"),
		mcp.WithString("query",
			mcp.Description("Case-insensitive name fragment"),
		),
		mcp.WithString("type",
			mcp.Description("Entity type, e.g. Person, Org, Location, MMSI, IMO"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Number of results to return (default: %d)", service.DefaultSearchLimit)),
		),
	), s.handleSearchEntities)

	mcpServer.AddTool(mcp.NewTool("get_entity",
		mcp.WithDescription("Get an entity and its relations"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The numeric entity ID"),
		),
	), s.handleGetEntity)

	mcpServer.AddTool(mcp.NewTool("get_event",
		mcp.WithDescription("Get an event and the entities linked to it"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The numeric event ID"),
		),
	), s.handleGetEvent)
}

func (s *Server) handleNeighborhood(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "entity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := request.GetInt("max", 0)
	if limit > service.MaxGraphMax {
		limit = service.MaxGraphMax
	}

	n, err := s.graph.Neighborhood(ctx, id, limit)
	if err != nil {
		return s.failure(ctx, "neighbourhood", err), nil
	}
	return textResult(s.serializer.GraphResource(n))
}

func (s *Server) handleSearchEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := service.EntityFilter{
		Type:  entity.Type(request.GetString("type", "")),
		Query: request.GetString("query", ""),
		Limit: request.GetInt("limit", service.DefaultSearchLimit),
	}

	found, err := s.entities.Search(ctx, filter)
	if err != nil {
		return s.failure(ctx, "search entities", err), nil
	}
	return textResult(s.serializer.EntityResources(found))
}

func (s *Server) handleGetEntity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, err := s.entities.Get(ctx, id)
	if err != nil {
		return s.failure(ctx, "get entity", err), nil
	}
	relations, err := s.entities.Relations(ctx, id)
	if err != nil {
		return s.failure(ctx, "get relations", err), nil
	}

	return textResult(struct {
		Entity    *jsonapi.Resource   `json:"entity"`
		Relations []*jsonapi.Resource `json:"relations"`
	}{
		Entity:    s.serializer.EntityResource(e),
		Relations: s.serializer.RelationResources(relations),
	})
}

func (s *Server) handleGetEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detail, err := s.events.Get(ctx, id)
	if err != nil {
		return s.failure(ctx, "get event", err), nil
	}

	return textResult(struct {
		Event    *jsonapi.Resource   `json:"event"`
		Entities []*jsonapi.Resource `json:"entities"`
	}{
		Event:    s.serializer.EventResource(detail.Event),
		Entities: s.serializer.LinkedEntityResources(detail.Entities),
	})
}

// failure reports not-found as a plain tool error and logs everything else.
func (s *Server) failure(ctx context.Context, op string, err error) *mcp.CallToolResult {
	if errors.Is(err, database.ErrNotFound) {
		return mcp.NewToolResultError(err.Error())
	}
	s.logger.ErrorContext(ctx, op+" failed", slog.Any("error", err))
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

func requireID(request mcp.CallToolRequest, name string) (int64, error) {
	v, err := request.RequireFloat(name)
	if err != nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	if v < 1 || v != float64(int64(v)) {
		return 0, fmt.Errorf("invalid %s: %v", name, v)
	}
	return int64(v), nil
}

func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

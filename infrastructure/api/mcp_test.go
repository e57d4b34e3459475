package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/infrastructure/api"
)

// mcpSession drives the streamable HTTP transport mounted at /mcp.
type mcpSession struct {
	t       *testing.T
	handler http.Handler
	id      string
	nextID  int
}

func newMCPSession(t *testing.T, handler http.Handler) *mcpSession {
	return &mcpSession{t: t, handler: handler}
}

func (s *mcpSession) call(method string, params any) *httptest.ResponseRecorder {
	s.t.Helper()
	s.nextID++
	msg := map[string]any{"jsonrpc": "2.0", "id": s.nextID, "method": method}
	if params != nil {
		msg["params"] = params
	}
	body, err := json.Marshal(msg)
	require.NoError(s.t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if s.id != "" {
		req.Header.Set("Mcp-Session-Id", s.id)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// initialize performs the handshake and remembers the session id.
func (s *mcpSession) initialize() (name, version string) {
	s.t.Helper()
	w := s.call("initialize", map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "api-test", "version": "0.0.1"},
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	s.id = w.Header().Get("Mcp-Session-Id")
	require.NotEmpty(s.t, s.id, "initialize did not return a session id")

	var resp struct {
		Result struct {
			ServerInfo struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(s.t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Result.ServerInfo.Name, resp.Result.ServerInfo.Version
}

// tool invokes a tool and returns the text of its first content block.
func (s *mcpSession) tool(name string, args map[string]any) (string, bool) {
	s.t.Helper()
	w := s.call("tools/call", map[string]any{"name": name, "arguments": args})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	require.NoError(s.t, json.NewDecoder(w.Body).Decode(&resp))
	if len(resp.Result.Content) == 0 {
		return "", resp.Result.IsError
	}
	return resp.Result.Content[0].Text, resp.Result.IsError
}

func TestMCPEndpoint_Initialize(t *testing.T) {
	session := newMCPSession(t, api.NewAPIServer(newTestClient(t), nil).Handler())

	name, version := session.initialize()

	assert.Equal(t, "aoi", name)
	assert.Equal(t, aoi.Version, version)
}

func TestMCPEndpoint_RejectsInvalidContentType(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// The neighbourhood tool is reached through the same middleware chain
// ListenAndServe installs.
func TestMCPEndpoint_ServerMiddlewareStack(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	e, err := client.Events.Ingest(ctx, service.IngestRequest{Title: "Erin works at Harbour Board in Sydney."})
	require.NoError(t, err)
	_, err = client.Fusion.FuseEvent(ctx, e)
	require.NoError(t, err)
	people, err := client.Entities.Search(ctx, service.EntityFilter{Query: "erin"})
	require.NoError(t, err)
	require.Len(t, people, 1)

	apiServer := api.NewAPIServer(client, nil)
	apiServer.MountRoutes()
	srv := api.NewServer("", nil)
	srv.Router().Mount("/", apiServer.Router())

	session := newMCPSession(t, srv.Router())
	session.initialize()

	text, isError := session.tool("graph_neighborhood", map[string]any{"entity_id": people[0].ID()})
	require.False(t, isError, text)
	assert.Contains(t, text, fmt.Sprintf(`"entity:%d"`, people[0].ID()))
	assert.Contains(t, text, "Harbour Board")

	text, isError = session.tool("graph_neighborhood", map[string]any{"entity_id": 999999})
	assert.True(t, isError)
	assert.Contains(t, text, "not found")
}

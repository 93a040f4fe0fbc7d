package handlers

import (
	"context"
	"testing"

	"backend/internal/store/storetest"

	"github.com/stretchr/testify/require"
)

func newStartupsHandler() (*Startups, *storetest.Client) {
	client := storetest.New("startup_name")
	return NewStartups(client, "startups"), client
}

func TestStartupsCreateRequiresNameAndSummary(t *testing.T) {
	h, _ := newStartupsHandler()
	ctx := context.Background()

	resp, err := h.Handle(ctx, testReq("POST", "/startups", nil, `{"startup_name":"Acme"}`))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)

	resp, err = h.Handle(ctx, testReq("POST", "/startups", nil, `{"summary":"we make anvils"}`))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestStartupsDuplicateCreateConflicts(t *testing.T) {
	h, _ := newStartupsHandler()
	ctx := context.Background()

	first, err := h.Handle(ctx, testReq("POST", "/startups", nil, `{"startup_name":"Acme","summary":"anvils"}`))
	require.NoError(t, err)
	require.Equal(t, 201, first.StatusCode)

	dup, err := h.Handle(ctx, testReq("POST", "/startups", nil, `{"startup_name":"Acme","summary":"rockets"}`))
	require.NoError(t, err)
	require.Equal(t, 409, dup.StatusCode)
	require.Contains(t, dup.Body, "already exists")

	// The losing create must leave the original record untouched.
	get, err := h.Handle(ctx, testReq("GET", "/startups/Acme", map[string]string{"startup_name": "Acme"}, ""))
	require.NoError(t, err)
	var got Startup
	decode(t, get.Body, &got)
	require.Equal(t, "anvils", got.Summary)
	require.NotEmpty(t, got.CreatedAt)
}

func TestStartupsGetDecodesName(t *testing.T) {
	h, _ := newStartupsHandler()
	ctx := context.Background()

	_, err := h.Handle(ctx, testReq("POST", "/startups", nil, `{"startup_name":"Acme Inc","summary":"anvils"}`))
	require.NoError(t, err)

	resp, err := h.Handle(ctx, testReq("GET", "/startups/Acme%20Inc", map[string]string{"startup_name": "Acme%20Inc"}, ""))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var got Startup
	decode(t, resp.Body, &got)
	require.Equal(t, "Acme Inc", got.StartupName)
}

func TestStartupsUpdateSkipsFalsySummary(t *testing.T) {
	h, _ := newStartupsHandler()
	ctx := context.Background()

	_, err := h.Handle(ctx, testReq("POST", "/startups", nil,
		`{"startup_name":"Acme","summary":"anvils","session_categories":["pitch"]}`))
	require.NoError(t, err)

	resp, err := h.Handle(ctx, testReq("PUT", "/startups/Acme", map[string]string{"startup_name": "Acme"},
		`{"summary":"rockets","session_categories":[]}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var got Startup
	decode(t, resp.Body, &got)
	require.Equal(t, "rockets", got.Summary)
	require.Equal(t, []string{"pitch"}, got.SessionCategories)
	require.NotEmpty(t, got.UpdatedAt)
}

func TestStartupsUpdateNotFound(t *testing.T) {
	h, _ := newStartupsHandler()

	resp, err := h.Handle(context.Background(), testReq("PUT", "/startups/Ghost", map[string]string{"startup_name": "Ghost"}, `{"summary":"x"}`))
	require.NoError(t, err)
	require.Equal(t, 404, resp.StatusCode)
	require.Contains(t, resp.Body, "Startup not found")
}

func TestStartupsDeleteIsIdempotent(t *testing.T) {
	h, _ := newStartupsHandler()
	ctx := context.Background()

	params := map[string]string{"startup_name": "Ghost"}
	resp, err := h.Handle(ctx, testReq("DELETE", "/startups/Ghost", params, ""))
	require.NoError(t, err)
	require.Equal(t, 204, resp.StatusCode)
}

package apiclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSendsCLIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "cli", req.Client)

		_ = json.NewEncoder(w).Encode(LoginResponse{
			Token: "jwt-token",
			User:  User{Username: "alice", Role: "user"},
		})
	}))
	defer server.Close()

	resp, err := New(server.URL).Login("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestCreateLibrary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/libraries", r.URL.Path)

		var req struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "My Notes", req.Name)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Library{ID: "lib-1", Name: req.Name, Slug: "my-notes"})
	}))
	defer server.Close()

	lib, err := New(server.URL).CreateLibrary("My Notes")
	require.NoError(t, err)
	assert.Equal(t, "my-notes", lib.Slug)
}

func TestSyncLibrary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/libraries/lib-1/sync", r.URL.Path)
		_ = json.NewEncoder(w).Encode(SyncSummary{TotalPages: 3, Updated: 1, NoChange: 2})
	}))
	defer server.Close()

	summary, err := New(server.URL).SyncLibrary("lib-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalPages)
	assert.Equal(t, 1, summary.Updated)
}

func TestUpdatePagePartialBody(t *testing.T) {
	content := "updated body with [[Other Page]]"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// Title omitted, content present
		_, hasTitle := body["title"]
		assert.False(t, hasTitle)
		assert.Equal(t, content, body["content"])

		_ = json.NewEncoder(w).Encode(PageUpdate{
			Page:  Page{ID: "page-1", Content: content},
			Links: &LinkReport{LinksFound: 1, BrokenLinks: 1},
		})
	}))
	defer server.Close()

	update, err := New(server.URL).UpdatePage("page-1", nil, &content)
	require.NoError(t, err)
	assert.Equal(t, content, update.Page.Content)
	require.NotNil(t, update.Links)
	assert.Equal(t, 1, update.Links.LinksFound)
}

func TestRemoveWorkspaceItemKindInQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/workspaces/ws-1/items/item-1", r.URL.Path)
		assert.Equal(t, "page", r.URL.Query().Get("kind"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := New(server.URL).RemoveWorkspaceItem("ws-1", "item-1", "page")
	require.NoError(t, err)
}

func TestSetUserQuota(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/admin/users/alice/quota", r.URL.Path)

		var req struct {
			StorageQuota int64 `json:"storage_quota"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1<<30), req.StorageQuota)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := New(server.URL).SetUserQuota("alice", 1<<30)
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(ServerStatus{Status: "ok", Version: "1.2.3", Uptime: "5s"})
	}))
	defer server.Close()

	status, err := New(server.URL).Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
}

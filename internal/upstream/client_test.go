package upstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/internal/access"
	"talentgate/internal/upstream"
	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

func newClient(t *testing.T, handler http.Handler) (*upstream.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL)
	require.NoError(t, err)
	return upstream.NewClient(base), server
}

func identityCtx() context.Context {
	ctx := requestcontext.WithIdentity(context.Background(), "user-1", domain.RoleCandidate, "")
	return requestcontext.WithRequestID(ctx, "req-7")
}

func TestClientForwardsIdentityHeaders(t *testing.T) {
	var got http.Header
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_ = json.NewEncoder(w).Encode([]upstream.Document{})
	}))

	_, err := client.ListDocuments(identityCtx(), "")
	require.NoError(t, err)

	assert.Equal(t, "user-1", got.Get(access.HeaderUserID))
	assert.Equal(t, "candidate", got.Get(access.HeaderUserRole))
	assert.Equal(t, "req-7", got.Get("X-Request-Id"))
	assert.Empty(t, got.Get(access.HeaderCompanyID))
}

func TestClientDecodesListResponses(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/candidates/applications", r.URL.Path)
		assert.Equal(t, "applied", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode([]upstream.Application{
			{ID: "app-1", JobTitle: "Backend Engineer", Status: upstream.StatusApplied},
		})
	}))

	apps, err := client.ListApplications(identityCtx(), upstream.StatusApplied)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Backend Engineer", apps[0].JobTitle)
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid status transition"})
	}))

	_, err := client.WithdrawApplication(identityCtx(), "app-1")
	require.Error(t, err)

	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "invalid status transition", apiErr.Message)
}

func TestClientHandlesEmptyErrorBody(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := client.DeleteDocument(identityCtx(), "doc-1")
	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "502")
}

func TestClientWrapsNetworkErrors(t *testing.T) {
	base, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)
	client := upstream.NewClient(base)

	_, err = client.GetProfile(identityCtx())
	require.Error(t, err)

	var apiErr *upstream.APIError
	assert.False(t, errors.As(err, &apiErr), "network failures are not APIErrors")
	assert.Contains(t, err.Error(), "call upstream")
}

package aps_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"hublens-backend/domain/core/valueobjects"
	"hublens-backend/infrastructure/aps"
	pkgerrors "hublens-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials() valueobjects.Credentials {
	return valueobjects.Credentials{
		AccessToken: "test-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func testURN(t *testing.T) valueobjects.VersionURN {
	t.Helper()
	urn, err := valueobjects.NewVersionURN("urn:adsk.wipprod:fs.file:vf.test?version=1")
	require.NoError(t, err)
	return urn
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *aps.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return aps.NewClient(server.URL, valueobjects.RegionUS, zap.NewNop(), nil)
}

func TestListHubsDecodesEnvelope(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":[
			{"type":"hubs","id":"h1","attributes":{"name":"Acme"}},
			{"type":"hubs","id":"h2","attributes":{"name":"ignored","displayName":"Beta Corp"}}
		]}`))
	})

	hubs, err := client.ListHubs(context.Background(), testCredentials())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/project/v1/hubs", gotPath)
	require.Len(t, hubs, 2)
	assert.Equal(t, "h1", hubs[0].ID)
	assert.Equal(t, "Acme", hubs[0].Name)
	assert.Equal(t, "Beta Corp", hubs[1].Name, "displayName wins over name")
}

func TestListFolderContentsSplitsTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"type":"folders","id":"f1","attributes":{"displayName":"Drawings"}},
			{"type":"items","id":"i1","attributes":{"displayName":"model.rvt"}}
		]}`))
	})

	entries, err := client.ListFolderContents(context.Background(), testCredentials(), "p1", "f0")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.True(t, entries[0].IsFolder)
	assert.False(t, entries[1].IsFolder)
}

func TestListModelViewsUsesEncodedURN(t *testing.T) {
	urn := testURN(t)

	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{"metadata":[
			{"name":"{3D}","role":"3d","guid":"g1"},
			{"name":"Sheet","role":"2d","guid":"g2"}
		]}}`))
	})

	views, err := client.ListModelViews(context.Background(), testCredentials(), urn)
	require.NoError(t, err)

	assert.Equal(t, "/modelderivative/v2/designdata/"+urn.Encode()+"/metadata", gotPath)
	require.Len(t, views, 2)
	assert.Equal(t, "g1", views[0].GUID)
	assert.Equal(t, "3d", views[0].Role)
}

func TestGetAllPropertiesProcessing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	records, processing, err := client.GetAllProperties(context.Background(), testCredentials(), testURN(t), "g1")
	require.NoError(t, err)

	assert.True(t, processing)
	assert.Nil(t, records)
}

func TestGetAllPropertiesComplete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"collection":[
			{"objectid":4,"name":"Basic Wall","properties":{"Dimensions":{"Length":"3000"}}}
		]}}`))
	})

	records, processing, err := client.GetAllProperties(context.Background(), testCredentials(), testURN(t), "g1")
	require.NoError(t, err)

	assert.False(t, processing)
	require.Len(t, records, 1)
	assert.Equal(t, int64(4), records[0].ObjectID)
	assert.Equal(t, "3000", records[0].Properties["Dimensions"]["Length"])
}

func TestGetObjectTreeDecodesHierarchy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"objects":[
			{"objectid":1,"name":"Model","objects":[{"objectid":2,"name":"Walls"}]}
		]}}`))
	})

	tree, err := client.GetObjectTree(context.Background(), testCredentials(), testURN(t), "g1")
	require.NoError(t, err)

	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Walls", tree[0].Children[0].Name)
}

func TestGetObjectTreeRejectsProcessing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	_, err := client.GetObjectTree(context.Background(), testCredentials(), testURN(t), "g1")
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeTransport))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType pkgerrors.ErrorType
	}{
		{"unauthorized", http.StatusUnauthorized, pkgerrors.ErrorTypeUnauthorized},
		{"forbidden", http.StatusForbidden, pkgerrors.ErrorTypeUnauthorized},
		{"not found", http.StatusNotFound, pkgerrors.ErrorTypeNotFound},
		{"rate limited", http.StatusTooManyRequests, pkgerrors.ErrorTypeTransport},
		{"server error", http.StatusBadGateway, pkgerrors.ErrorTypeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.ListHubs(context.Background(), testCredentials())
			require.Error(t, err)
			assert.True(t, pkgerrors.IsType(err, tt.wantType))
		})
	}
}

func TestMissingCredentialRejectedLocally(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.ListHubs(context.Background(), valueobjects.Credentials{})

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnauthorized))
	assert.False(t, called, "a zero credential never reaches the upstream")
}

func TestMalformedResponseIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": not-json`))
	})

	_, err := client.ListHubs(context.Background(), testCredentials())
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeTransport))
}

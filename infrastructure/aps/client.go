package aps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"hublens-backend/application/ports"
	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
	pkgerrors "hublens-backend/pkg/errors"
	"hublens-backend/pkg/observability"
)

// DefaultBaseURL is the production Autodesk Platform Services host
const DefaultBaseURL = "https://developer.api.autodesk.com"

// Client is the typed gateway to the APS Data Management and Model
// Derivative APIs. Every call carries the caller's bearer token; the client
// holds no credential state of its own. A circuit breaker guards the
// upstream: network failures and 5xx responses trip it, client-side 4xx
// responses do not.
type Client struct {
	baseURL    string
	region     valueobjects.Region
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
	metrics    *observability.Collector
}

var _ ports.DataGateway = (*Client)(nil)
var _ ports.DerivativeGateway = (*Client)(nil)

// NewClient creates an APS client for the given host and region
func NewClient(baseURL string, region valueobjects.Region, logger *zap.Logger, metrics *observability.Collector) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "aps",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    baseURL,
		region:     region,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    breaker,
		logger:     logger,
		metrics:    metrics,
	}
}

// ListHubs lists the hubs visible to the credential
func (c *Client) ListHubs(ctx context.Context, cred valueobjects.Credentials) ([]ports.Hub, error) {
	body, err := c.get(ctx, cred, "list_hubs", "/project/v1/hubs")
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, decodeError("list_hubs", err)
	}

	hubs := make([]ports.Hub, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		hubs = append(hubs, ports.Hub{ID: r.ID, Name: r.label()})
	}
	return hubs, nil
}

// ListProjects lists a hub's projects
func (c *Client) ListProjects(ctx context.Context, cred valueobjects.Credentials, hubID string) ([]ports.Project, error) {
	body, err := c.get(ctx, cred, "list_projects",
		fmt.Sprintf("/project/v1/hubs/%s/projects", hubID))
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, decodeError("list_projects", err)
	}

	projects := make([]ports.Project, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		projects = append(projects, ports.Project{ID: r.ID, Name: r.label()})
	}
	return projects, nil
}

// ListTopFolders lists a project's top-level folders
func (c *Client) ListTopFolders(ctx context.Context, cred valueobjects.Credentials, hubID, projectID string) ([]ports.FolderEntry, error) {
	body, err := c.get(ctx, cred, "list_top_folders",
		fmt.Sprintf("/project/v1/hubs/%s/projects/%s/topFolders", hubID, projectID))
	if err != nil {
		return nil, err
	}
	return decodeFolderEntries("list_top_folders", body)
}

// ListFolderContents lists a folder's subfolders and items
func (c *Client) ListFolderContents(ctx context.Context, cred valueobjects.Credentials, projectID, folderID string) ([]ports.FolderEntry, error) {
	body, err := c.get(ctx, cred, "list_folder_contents",
		fmt.Sprintf("/data/v1/projects/%s/folders/%s/contents", projectID, folderID))
	if err != nil {
		return nil, err
	}
	return decodeFolderEntries("list_folder_contents", body)
}

// ListItemVersions lists an item's versions, newest first per the API
func (c *Client) ListItemVersions(ctx context.Context, cred valueobjects.Credentials, projectID, itemID string) ([]ports.Version, error) {
	body, err := c.get(ctx, cred, "list_item_versions",
		fmt.Sprintf("/data/v1/projects/%s/items/%s/versions", projectID, itemID))
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, decodeError("list_item_versions", err)
	}

	versions := make([]ports.Version, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		// A version resource's id is its URN.
		versions = append(versions, ports.Version{
			URN:  valueobjects.VersionURN(r.ID),
			Name: r.label(),
		})
	}
	return versions, nil
}

// ListModelViews lists the viewable metadata of a version
func (c *Client) ListModelViews(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN) ([]ports.View, error) {
	body, err := c.get(ctx, cred, "list_model_views",
		fmt.Sprintf("%s/%s/metadata", c.derivativeBase(), urn.Encode()))
	if err != nil {
		return nil, err
	}

	var envelope metadataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, decodeError("list_model_views", err)
	}

	views := make([]ports.View, 0, len(envelope.Data.Metadata))
	for _, m := range envelope.Data.Metadata {
		views = append(views, ports.View{GUID: m.GUID, Name: m.Name, Role: m.Role})
	}
	return views, nil
}

// GetAllProperties fetches the flat property collection of a view. A 202
// response means the derivation job is still running.
func (c *Client) GetAllProperties(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN, viewGUID string) ([]entities.PropertyRecord, bool, error) {
	body, status, err := c.getWithStatus(ctx, cred, "get_all_properties",
		fmt.Sprintf("%s/%s/metadata/%s/properties", c.derivativeBase(), urn.Encode(), viewGUID))
	if err != nil {
		return nil, false, err
	}
	if status == http.StatusAccepted {
		return nil, true, nil
	}

	var envelope propertiesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false, decodeError("get_all_properties", err)
	}
	return envelope.Data.Collection, false, nil
}

// GetObjectTree fetches the object hierarchy of a view. Callers only invoke
// this after GetAllProperties reported the job complete, so a 202 here is an
// upstream inconsistency and surfaces as a transport error.
func (c *Client) GetObjectTree(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN, viewGUID string) ([]*entities.ObjectTreeNode, error) {
	body, status, err := c.getWithStatus(ctx, cred, "get_object_tree",
		fmt.Sprintf("%s/%s/metadata/%s", c.derivativeBase(), urn.Encode(), viewGUID))
	if err != nil {
		return nil, err
	}
	if status == http.StatusAccepted {
		return nil, pkgerrors.NewTransportError("get_object_tree", status, nil)
	}

	var envelope objectTreeEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, decodeError("get_object_tree", err)
	}
	return envelope.Data.Objects, nil
}

// derivativeBase returns the region-specific Model Derivative path prefix
func (c *Client) derivativeBase() string {
	if c.region == valueobjects.RegionEMEA {
		return "/modelderivative/v2/regions/eu/designdata"
	}
	return "/modelderivative/v2/designdata"
}

func (c *Client) get(ctx context.Context, cred valueobjects.Credentials, operation, path string) ([]byte, error) {
	body, _, err := c.getWithStatus(ctx, cred, operation, path)
	return body, err
}

// getWithStatus performs one authenticated GET inside the circuit breaker
// and maps non-success statuses onto the error taxonomy. 202 is passed
// through: the derivative endpoints use it for "still processing".
func (c *Client) getWithStatus(ctx context.Context, cred valueobjects.Credentials, operation, path string) ([]byte, int, error) {
	if cred.IsZero() {
		return nil, 0, pkgerrors.NewUnauthorizedError("missing credential")
	}

	type response struct {
		body   []byte
		status int
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			// Returned as an error so the breaker counts it.
			return nil, pkgerrors.NewTransportError(operation, resp.StatusCode, nil)
		}
		return response{body: body, status: resp.StatusCode}, nil
	})
	if err != nil {
		c.observe(operation, "error")
		if pkgerrors.GetAppError(err) != nil {
			return nil, 0, err
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, 0, pkgerrors.NewUnavailableError("aps").WithCause(err)
		}
		return nil, 0, pkgerrors.NewTransportError(operation, 0, err)
	}

	resp := result.(response)
	switch {
	case resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden:
		c.observe(operation, "unauthorized")
		return nil, resp.status, pkgerrors.NewUnauthorizedError("credential rejected by upstream")
	case resp.status == http.StatusNotFound:
		c.observe(operation, "not_found")
		return nil, resp.status, pkgerrors.NewNotFoundError(operation)
	case resp.status >= 400:
		c.observe(operation, "error")
		return nil, resp.status, pkgerrors.NewTransportError(operation, resp.status, nil)
	}

	c.observe(operation, "ok")
	return resp.body, resp.status, nil
}

func (c *Client) observe(operation, outcome string) {
	if c.metrics != nil {
		c.metrics.ObserveGateway(operation, outcome)
	}
}

func decodeFolderEntries(operation string, body []byte) ([]ports.FolderEntry, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, decodeError(operation, err)
	}

	entries := make([]ports.FolderEntry, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		entries = append(entries, ports.FolderEntry{
			ID:       r.ID,
			Name:     r.label(),
			IsFolder: r.Type == "folders",
		})
	}
	return entries, nil
}

func decodeError(operation string, err error) error {
	return pkgerrors.NewTransportError(operation, 0, fmt.Errorf("decode response: %w", err))
}

// Package ports defines the interfaces the application services consume.
// Infrastructure provides the implementations; tests provide fakes.
package ports

import (
	"context"
	"time"

	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
)

// Hub is a top-level tenant container
type Hub struct {
	ID   string
	Name string
}

// Project is a construction project within a hub
type Project struct {
	ID   string
	Name string
}

// FolderEntry is one entry of a folder listing: either a subfolder or an
// item (a file-like entity)
type FolderEntry struct {
	ID       string
	Name     string
	IsFolder bool
}

// Version is one revision of an item; its URN is the derivative join key
type Version struct {
	URN  valueobjects.VersionURN
	Name string
}

// View is a renderable viewpoint of a model version
type View struct {
	GUID string
	Name string
	Role string
}

// DataGateway lists the navigation hierarchy from the vendor's data
// management API. Every call takes the caller's credential; implementations
// never hold tokens between calls.
type DataGateway interface {
	ListHubs(ctx context.Context, cred valueobjects.Credentials) ([]Hub, error)
	ListProjects(ctx context.Context, cred valueobjects.Credentials, hubID string) ([]Project, error)
	ListTopFolders(ctx context.Context, cred valueobjects.Credentials, hubID, projectID string) ([]FolderEntry, error)
	ListFolderContents(ctx context.Context, cred valueobjects.Credentials, projectID, folderID string) ([]FolderEntry, error)
	ListItemVersions(ctx context.Context, cred valueobjects.Credentials, projectID, itemID string) ([]Version, error)
}

// DerivativeGateway queries the vendor's model derivative service for a
// version's views, flat property collection, and object tree.
type DerivativeGateway interface {
	ListModelViews(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN) ([]View, error)

	// GetAllProperties returns processing=true while the server-side
	// derivation job is still running; records are only valid once
	// processing is false.
	GetAllProperties(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN, viewGUID string) (records []entities.PropertyRecord, processing bool, err error)

	GetObjectTree(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN, viewGUID string) ([]*entities.ObjectTreeNode, error)
}

// Clock abstracts time so the poller can be tested without wall-clock
// delays
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

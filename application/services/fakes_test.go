package services_test

import (
	"context"
	"time"

	"hublens-backend/application/ports"
	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
)

func testCredentials() valueobjects.Credentials {
	return valueobjects.Credentials{
		AccessToken: "test-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

// fakeClock satisfies ports.Clock without wall-clock delays. With block set,
// After never fires, which lets cancellation paths be exercised.
type fakeClock struct {
	now        time.Time
	afterCalls int
	block      bool
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.afterCalls++
	if c.block {
		return make(chan time.Time)
	}
	ch := make(chan time.Time, 1)
	ch <- c.now.Add(d)
	return ch
}

// fakeDerivative scripts the derivative gateway: the first processingRounds
// property calls report the job as still running.
type fakeDerivative struct {
	views    []ports.View
	viewsErr error

	processingRounds int
	records          []entities.PropertyRecord
	propsErr         error
	onProps          func()

	tree    []*entities.ObjectTreeNode
	treeErr error

	viewCalls  int
	propsCalls int
	treeCalls  int
}

func (f *fakeDerivative) ListModelViews(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN) ([]ports.View, error) {
	f.viewCalls++
	if f.viewsErr != nil {
		return nil, f.viewsErr
	}
	return f.views, nil
}

func (f *fakeDerivative) GetAllProperties(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN, viewGUID string) ([]entities.PropertyRecord, bool, error) {
	f.propsCalls++
	if f.onProps != nil {
		f.onProps()
	}
	if f.propsErr != nil {
		return nil, false, f.propsErr
	}
	if f.propsCalls <= f.processingRounds {
		return nil, true, nil
	}
	return f.records, false, nil
}

func (f *fakeDerivative) GetObjectTree(ctx context.Context, cred valueobjects.Credentials, urn valueobjects.VersionURN, viewGUID string) ([]*entities.ObjectTreeNode, error) {
	f.treeCalls++
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return f.tree, nil
}

// fakeData scripts the data management gateway with per-operation call
// counters so caching behavior is observable. A non-zero delay makes hub
// listing slow so overlapping expansions can be arranged.
type fakeData struct {
	delay      time.Duration
	hubs       []ports.Hub
	projects   map[string][]ports.Project
	topFolders map[string][]ports.FolderEntry
	contents   map[string][]ports.FolderEntry
	versions   map[string][]ports.Version

	hubsErr     error
	projectsErr error

	hubCalls     int
	projectCalls int
	folderCalls  int
	contentCalls int
	versionCalls int
}

func (f *fakeData) ListHubs(ctx context.Context, cred valueobjects.Credentials) ([]ports.Hub, error) {
	f.hubCalls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.hubsErr != nil {
		return nil, f.hubsErr
	}
	return f.hubs, nil
}

func (f *fakeData) ListProjects(ctx context.Context, cred valueobjects.Credentials, hubID string) ([]ports.Project, error) {
	f.projectCalls++
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return f.projects[hubID], nil
}

func (f *fakeData) ListTopFolders(ctx context.Context, cred valueobjects.Credentials, hubID, projectID string) ([]ports.FolderEntry, error) {
	f.folderCalls++
	return f.topFolders[projectID], nil
}

func (f *fakeData) ListFolderContents(ctx context.Context, cred valueobjects.Credentials, projectID, folderID string) ([]ports.FolderEntry, error) {
	f.contentCalls++
	return f.contents[folderID], nil
}

func (f *fakeData) ListItemVersions(ctx context.Context, cred valueobjects.Credentials, projectID, itemID string) ([]ports.Version, error) {
	f.versionCalls++
	return f.versions[itemID], nil
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hublens-backend/application/ports"
	"hublens-backend/domain/core/aggregates"
	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
	"hublens-backend/pkg/auth"
	pkgerrors "hublens-backend/pkg/errors"
)

// NavigationService drives the lazy navigation tree: each node's children
// are fetched on first expansion, sorted, cached for the session, and never
// refetched.
type NavigationService struct {
	data     ports.DataGateway
	deriv    ports.DerivativeGateway
	collator *collate.Collator
	logger   *zap.Logger
}

// NewNavigationService creates a navigation service
func NewNavigationService(
	data ports.DataGateway,
	deriv ports.DerivativeGateway,
	logger *zap.Logger,
) *NavigationService {
	return &NavigationService{
		data:  data,
		deriv: deriv,
		// Locale-aware but case-sensitive ordering of display names.
		collator: collate.New(language.Und),
		logger:   logger,
	}
}

// Roots expands the implicit root node and returns the hub list
func (s *NavigationService) Roots(ctx context.Context, sess *auth.Session, cred valueobjects.Credentials) ([]*aggregates.NodeSnapshot, error) {
	root, err := s.Expand(ctx, sess, aggregates.RootID, cred)
	if err != nil {
		return nil, err
	}
	return root.Children, nil
}

// Expand loads a node's children and returns a snapshot of the result.
// Re-entrant expands of a loading node and expands of an already expanded
// node are no-ops; a collapsed node re-expands from cache with zero fetches.
func (s *NavigationService) Expand(
	ctx context.Context,
	sess *auth.Session,
	nodeID string,
	cred valueobjects.Credentials,
) (*aggregates.NodeSnapshot, error) {
	tree := sess.Tree()

	node, action, err := tree.BeginExpand(nodeID)
	if err != nil {
		return nil, err
	}

	if action == aggregates.ActionFetch {
		if err := s.runFetch(ctx, tree, node, cred); err != nil {
			return nil, err
		}
	}

	return tree.Snapshot(nodeID)
}

// runFetch performs the single fetch claimed by BeginExpand and settles the
// node's state through the tree aggregate.
func (s *NavigationService) runFetch(
	ctx context.Context,
	tree *aggregates.NavigationTree,
	node *entities.NavigationNode,
	cred valueobjects.Credentials,
) error {
	children, err := s.fetchChildren(ctx, node, cred)
	if err != nil {
		// A failed view listing degrades to a synthetic inert child;
		// every other failure reverts the node so the user can retry.
		if node.Kind == entities.KindVersion {
			s.logger.Warn("View listing failed, attaching error node",
				zap.String("nodeID", node.ID),
				zap.Error(err),
			)
			errChild := entities.NewErrorNode(node.ID, viewErrorMessage(err))
			return tree.CompleteExpand(node.ID, []*entities.NavigationNode{errChild})
		}

		tree.FailExpand(node.ID)
		return err
	}

	s.sortNodes(children)
	return tree.CompleteExpand(node.ID, children)
}

// Collapse toggles an expanded node shut; children stay cached
func (s *NavigationService) Collapse(sess *auth.Session, nodeID string) error {
	return sess.Tree().Collapse(nodeID)
}

// fetchChildren dispatches the single fetch appropriate to the node's kind
func (s *NavigationService) fetchChildren(
	ctx context.Context,
	node *entities.NavigationNode,
	cred valueobjects.Credentials,
) ([]*entities.NavigationNode, error) {
	switch node.Kind {
	case entities.KindRoot:
		hubs, err := s.data.ListHubs(ctx, cred)
		if err != nil {
			return nil, err
		}
		children := make([]*entities.NavigationNode, 0, len(hubs))
		for _, hub := range hubs {
			children = append(children, entities.NewNavigationNode(
				"hub/"+hub.ID, hub.Name, entities.KindHub,
				entities.NodeRef{HubID: hub.ID},
			))
		}
		return children, nil

	case entities.KindHub:
		projects, err := s.data.ListProjects(ctx, cred, node.Ref.HubID)
		if err != nil {
			return nil, err
		}
		children := make([]*entities.NavigationNode, 0, len(projects))
		for _, project := range projects {
			children = append(children, entities.NewNavigationNode(
				fmt.Sprintf("project/%s/%s", node.Ref.HubID, project.ID),
				project.Name, entities.KindProject,
				entities.NodeRef{HubID: node.Ref.HubID, ProjectID: project.ID},
			))
		}
		return children, nil

	case entities.KindProject:
		entries, err := s.data.ListTopFolders(ctx, cred, node.Ref.HubID, node.Ref.ProjectID)
		if err != nil {
			return nil, err
		}
		return s.folderEntryNodes(node, entries), nil

	case entities.KindFolder:
		entries, err := s.data.ListFolderContents(ctx, cred, node.Ref.ProjectID, node.Ref.FolderID)
		if err != nil {
			return nil, err
		}
		return s.folderEntryNodes(node, entries), nil

	case entities.KindItem:
		versions, err := s.data.ListItemVersions(ctx, cred, node.Ref.ProjectID, node.Ref.ItemID)
		if err != nil {
			return nil, err
		}
		children := make([]*entities.NavigationNode, 0, len(versions))
		for _, version := range versions {
			children = append(children, entities.NewNavigationNode(
				"version/"+version.URN.Encode(),
				version.Name, entities.KindVersion,
				entities.NodeRef{
					ProjectID:  node.Ref.ProjectID,
					ItemID:     node.Ref.ItemID,
					VersionURN: version.URN,
				},
			))
		}
		return children, nil

	case entities.KindVersion:
		views, err := s.deriv.ListModelViews(ctx, cred, node.Ref.VersionURN)
		if err != nil {
			return nil, err
		}
		children := make([]*entities.NavigationNode, 0, len(views))
		for _, view := range views {
			// Only 3-D views are renderable selection points.
			if !strings.EqualFold(view.Role, "3d") {
				continue
			}
			children = append(children, entities.NewNavigationNode(
				fmt.Sprintf("view/%s/%s", node.Ref.VersionURN.Encode(), view.GUID),
				view.Name, entities.KindView,
				entities.NodeRef{
					VersionURN: node.Ref.VersionURN,
					ViewGUID:   view.GUID,
				},
			))
		}
		if len(children) == 0 {
			return nil, pkgerrors.NewNotFoundError("3d views for version")
		}
		return children, nil
	}

	return nil, pkgerrors.NewValidationError(
		fmt.Sprintf("node kind %q cannot be expanded", node.Kind))
}

func (s *NavigationService) folderEntryNodes(
	parent *entities.NavigationNode,
	entries []ports.FolderEntry,
) []*entities.NavigationNode {
	children := make([]*entities.NavigationNode, 0, len(entries))
	for _, entry := range entries {
		if entry.IsFolder {
			children = append(children, entities.NewNavigationNode(
				fmt.Sprintf("folder/%s/%s", parent.Ref.ProjectID, entry.ID),
				entry.Name, entities.KindFolder,
				entities.NodeRef{
					HubID:     parent.Ref.HubID,
					ProjectID: parent.Ref.ProjectID,
					FolderID:  entry.ID,
				},
			))
		} else {
			children = append(children, entities.NewNavigationNode(
				fmt.Sprintf("item/%s/%s", parent.Ref.ProjectID, entry.ID),
				entry.Name, entities.KindItem,
				entities.NodeRef{
					HubID:     parent.Ref.HubID,
					ProjectID: parent.Ref.ProjectID,
					ItemID:    entry.ID,
				},
			))
		}
	}
	return children
}

func (s *NavigationService) sortNodes(nodes []*entities.NavigationNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return s.collator.CompareString(nodes[i].DisplayName, nodes[j].DisplayName) < 0
	})
}

func viewErrorMessage(err error) string {
	if pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound) {
		return "No viewable content"
	}
	return "Failed to load views"
}

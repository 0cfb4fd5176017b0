package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"hublens-backend/application/services"
	"hublens-backend/domain/core/aggregates"
	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
	"hublens-backend/pkg/auth"
	"hublens-backend/pkg/common"
	pkgerrors "hublens-backend/pkg/errors"
	"hublens-backend/pkg/utils"
)

// NavigationHandler exposes the lazy navigation tree over HTTP
type NavigationHandler struct {
	service      *services.NavigationService
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler(service *services.NavigationService, logger *zap.Logger) *NavigationHandler {
	return &NavigationHandler{
		service:      service,
		errorHandler: pkgerrors.NewErrorHandler(logger),
		logger:       logger,
	}
}

// NodeRequest identifies the tree node an operation targets. Node IDs are
// opaque to the client; they are returned by earlier expansions.
type NodeRequest struct {
	NodeID string `json:"nodeId" validate:"required"`
}

// NodeResponse is the wire form of a navigation node
type NodeResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	State      string          `json:"state"`
	Selectable bool            `json:"selectable"`
	VersionURN string          `json:"versionUrn,omitempty"`
	ViewGUID   string          `json:"viewGuid,omitempty"`
	Children   []*NodeResponse `json:"children,omitempty"`
}

// Roots handles GET /api/navigation/roots: list the hubs
func (h *NavigationHandler) Roots(w http.ResponseWriter, r *http.Request) {
	sess, cred, err := sessionAndCredentials(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	roots, err := h.service.Roots(r.Context(), sess, cred)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, nodeResponses(roots, false))
}

// Expand handles POST /api/navigation/expand: load a node's children
func (h *NavigationHandler) Expand(w http.ResponseWriter, r *http.Request) {
	var req NodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	sess, cred, err := sessionAndCredentials(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	node, err := h.service.Expand(r.Context(), sess, req.NodeID, cred)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, nodeResponse(node, true))
}

// Collapse handles POST /api/navigation/collapse: local toggle, cache kept
func (h *NavigationHandler) Collapse(w http.ResponseWriter, r *http.Request) {
	var req NodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	sess, err := auth.SessionFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.service.Collapse(sess, req.NodeID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"collapsed": true})
}

func sessionAndCredentials(r *http.Request) (*auth.Session, valueobjects.Credentials, error) {
	sess, err := auth.SessionFromContext(r.Context())
	if err != nil {
		return nil, valueobjects.Credentials{}, err
	}
	cred, err := auth.CredentialsFromContext(r.Context())
	if err != nil {
		return nil, valueobjects.Credentials{}, err
	}
	return sess, cred, nil
}

func nodeResponse(snap *aggregates.NodeSnapshot, withChildren bool) *NodeResponse {
	resp := &NodeResponse{
		ID:         snap.ID,
		Name:       snap.DisplayName,
		Kind:       string(snap.Kind),
		State:      snap.State.String(),
		Selectable: snap.Selectable(),
	}
	if snap.Kind == entities.KindView {
		resp.VersionURN = snap.Ref.VersionURN.String()
		resp.ViewGUID = snap.Ref.ViewGUID
	}
	if withChildren {
		resp.Children = nodeResponses(snap.Children, false)
	}
	return resp
}

func nodeResponses(snaps []*aggregates.NodeSnapshot, withChildren bool) []*NodeResponse {
	out := make([]*NodeResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, nodeResponse(snap, withChildren))
	}
	return out
}

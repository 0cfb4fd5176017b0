package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"hublens-backend/application/services"
	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
	"hublens-backend/pkg/auth"
	"hublens-backend/pkg/common"
	pkgerrors "hublens-backend/pkg/errors"
	"hublens-backend/pkg/utils"
)

// ModelHandler runs the selection pipeline: poll for derivative readiness,
// merge properties onto the object tree, and serve the result
type ModelHandler struct {
	service      *services.ModelService
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewModelHandler creates a new model handler
func NewModelHandler(service *services.ModelService, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{
		service:      service,
		errorHandler: pkgerrors.NewErrorHandler(logger),
		logger:       logger,
	}
}

// SelectRequest picks one version/view pair for inspection
type SelectRequest struct {
	VersionURN string `json:"versionUrn" validate:"required"`
	ViewGUID   string `json:"viewGuid" validate:"required"`
}

// SelectionResponse is the wire form of an applied selection
type SelectionResponse struct {
	VersionURN string                     `json:"versionUrn"`
	ViewGUID   string                     `json:"viewGuid"`
	Tree       []*entities.ObjectTreeNode `json:"tree,omitempty"`
	Properties []entities.PropertyRecord  `json:"properties,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

// Select handles POST /api/model/select. The request blocks while the
// derivation job is polled, bounded by the poller's attempt budget; closing
// the connection cancels the poll.
func (h *ModelHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	urn, err := valueobjects.NewVersionURN(req.VersionURN)
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	sess, cred, err := sessionAndCredentials(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.service.Select(r.Context(), sess, cred, urn, req.ViewGUID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, selectionResponse(result))
}

// Current handles GET /api/model/current: the session's last applied
// selection outcome, if any
func (h *ModelHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.SessionFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result := h.service.Current(sess)
	if result == nil {
		common.RespondJSON(w, http.StatusOK, nil)
		return
	}

	common.RespondJSON(w, http.StatusOK, selectionResponse(result))
}

func selectionResponse(result *auth.SelectionResult) *SelectionResponse {
	resp := &SelectionResponse{
		VersionURN: result.Target.VersionURN.String(),
		ViewGUID:   result.Target.ViewGUID,
		Tree:       result.Tree,
		Properties: result.Records,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

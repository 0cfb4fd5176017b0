package services

import (
	"context"

	"go.uber.org/zap"

	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
	"hublens-backend/pkg/auth"
	pkgerrors "hublens-backend/pkg/errors"
)

// ModelService runs the selection pipeline: poll the derivation job for a
// chosen version/view, merge the flat properties onto the object tree, and
// apply the outcome to the session, unless a newer selection superseded
// this one while it was in flight.
type ModelService struct {
	poller *Poller
	logger *zap.Logger
}

// NewModelService creates a model service
func NewModelService(poller *Poller, logger *zap.Logger) *ModelService {
	return &ModelService{poller: poller, logger: logger}
}

// Select runs one poll-and-merge cycle for the given version/view pair. The
// returned result is also stored as the session's current selection unless
// the cycle was superseded, in which case a conflict error is returned and
// nothing is overwritten.
func (s *ModelService) Select(
	ctx context.Context,
	sess *auth.Session,
	cred valueobjects.Credentials,
	urn valueobjects.VersionURN,
	viewGUID string,
) (*auth.SelectionResult, error) {
	target := auth.SelectionTarget{VersionURN: urn, ViewGUID: viewGUID}
	gen := sess.BeginSelection()

	s.logger.Info("Selection started",
		zap.String("viewGuid", viewGUID),
		zap.Uint64("generation", gen),
	)

	polled, err := s.poller.AwaitProperties(ctx, cred, urn, viewGUID)
	if err != nil {
		failure := &auth.SelectionResult{Target: target, Err: err}
		if !sess.ApplySelection(gen, failure) {
			return nil, errSuperseded()
		}
		return nil, err
	}

	result := &auth.SelectionResult{
		Target:  target,
		Tree:    entities.MergeProperties(polled.Tree, polled.Records),
		Records: polled.Records,
	}

	if !sess.ApplySelection(gen, result) {
		// A later selection won the race; discard this outcome.
		s.logger.Debug("Stale selection result discarded",
			zap.String("viewGuid", viewGUID),
			zap.Uint64("generation", gen),
		)
		return nil, errSuperseded()
	}
	return result, nil
}

// Current returns the session's last applied selection result, or nil
func (s *ModelService) Current(sess *auth.Session) *auth.SelectionResult {
	return sess.CurrentSelection()
}

func errSuperseded() error {
	return pkgerrors.NewConflictError("selection superseded by a newer one")
}

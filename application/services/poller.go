package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hublens-backend/application/ports"
	"hublens-backend/domain/core/entities"
	"hublens-backend/domain/core/valueobjects"
	pkgerrors "hublens-backend/pkg/errors"
	"hublens-backend/pkg/observability"
)

// pollState is the poller's explicit state machine. Modeling the loop this
// way keeps every transition visible and lets tests drive it with a fake
// clock instead of real sleeps.
type pollState int

const (
	stateRequesting pollState = iota
	stateWaiting
	stateReady
	stateFailed
)

// DerivativeResult is the terminal output of a successful poll cycle: the
// flat property collection and the object tree for one version/view pair.
type DerivativeResult struct {
	Records []entities.PropertyRecord
	Tree    []*entities.ObjectTreeNode
}

// Poller waits for the server-side derivation job of a model version to
// finish, then fetches its object tree. Results are never cached across
// version/view pairs; every selection runs a fresh cycle.
type Poller struct {
	gateway     ports.DerivativeGateway
	clock       ports.Clock
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger
	metrics     *observability.Collector
}

// NewPoller creates a poller with the given fixed retry interval and
// attempt budget
func NewPoller(
	gateway ports.DerivativeGateway,
	clock ports.Clock,
	interval time.Duration,
	maxAttempts int,
	logger *zap.Logger,
	metrics *observability.Collector,
) *Poller {
	return &Poller{
		gateway:     gateway,
		clock:       clock,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
		metrics:     metrics,
	}
}

// AwaitProperties polls the property endpoint for the given version/view
// until the derivation job reports complete, then fetches the object tree
// exactly once. A "still processing" response waits one interval and
// retries; exhausting the attempt budget yields a timeout error; any
// transport failure aborts immediately and is not retried.
func (p *Poller) AwaitProperties(
	ctx context.Context,
	cred valueobjects.Credentials,
	urn valueobjects.VersionURN,
	viewGUID string,
) (*DerivativeResult, error) {
	state := stateRequesting
	attempts := 0
	var records []entities.PropertyRecord

	for {
		switch state {
		case stateRequesting:
			attempts++
			recs, processing, err := p.gateway.GetAllProperties(ctx, cred, urn, viewGUID)
			if err != nil {
				// Transport and authorization failures abort the
				// cycle; only "still processing" is retried.
				p.observeCycle("error", attempts)
				return nil, err
			}
			if processing {
				if attempts >= p.maxAttempts {
					state = stateFailed
				} else {
					state = stateWaiting
				}
				continue
			}
			records = recs
			state = stateReady

		case stateWaiting:
			select {
			case <-ctx.Done():
				p.observeCycle("canceled", attempts)
				return nil, pkgerrors.NewInternalError("poll canceled").WithCause(ctx.Err())
			case <-p.clock.After(p.interval):
				state = stateRequesting
			}

		case stateReady:
			tree, err := p.gateway.GetObjectTree(ctx, cred, urn, viewGUID)
			if err != nil {
				p.observeCycle("error", attempts)
				return nil, err
			}
			p.logger.Debug("Derivation job ready",
				zap.String("viewGuid", viewGUID),
				zap.Int("attempts", attempts),
				zap.Int("records", len(records)),
			)
			p.observeCycle("ready", attempts)
			return &DerivativeResult{Records: records, Tree: tree}, nil

		case stateFailed:
			p.logger.Warn("Derivation job still processing after attempt budget",
				zap.String("viewGuid", viewGUID),
				zap.Int("attempts", attempts),
			)
			p.observeCycle("timeout", attempts)
			return nil, pkgerrors.NewTimeoutError(
				fmt.Sprintf("await properties for view %s", viewGUID))
		}
	}
}

func (p *Poller) observeCycle(outcome string, attempts int) {
	if p.metrics != nil {
		p.metrics.ObservePollCycle(outcome, attempts)
	}
}

package services_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"hublens-backend/application/services"
	"hublens-backend/domain/core/entities"
	"hublens-backend/pkg/auth"
	pkgerrors "hublens-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(gateway *fakeDerivative) *services.ModelService {
	poller := services.NewPoller(gateway, &fakeClock{}, time.Second, 150, zap.NewNop(), nil)
	return services.NewModelService(poller, zap.NewNop())
}

func TestSelectMergesAndApplies(t *testing.T) {
	gateway := &fakeDerivative{
		records: []entities.PropertyRecord{
			{ObjectID: 2, Properties: entities.PropertySet{"Identity": {"Mark": "w1"}}},
		},
		tree: []*entities.ObjectTreeNode{
			{ObjectID: 1, Name: "Model", Children: []*entities.ObjectTreeNode{
				{ObjectID: 2, Name: "Wall"},
			}},
		},
	}
	service := newTestModel(gateway)
	sess := auth.NewSession("s1")

	result, err := service.Select(context.Background(), sess, testCredentials(), testURN(t), testViewGUID)
	require.NoError(t, err)

	require.Len(t, result.Tree, 1)
	assert.Equal(t, entities.PropertySet{"Identity": {"Mark": "w1"}}, result.Tree[0].Children[0].Properties)
	assert.Same(t, result, service.Current(sess), "applied result becomes the session's current selection")
}

func TestSelectFailureIsRecordedOnSession(t *testing.T) {
	gateway := &fakeDerivative{processingRounds: 1000}
	service := newTestModel(gateway)
	sess := auth.NewSession("s1")

	_, err := service.Select(context.Background(), sess, testCredentials(), testURN(t), testViewGUID)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeTimeout))

	current := service.Current(sess)
	require.NotNil(t, current, "a failed cycle still records its outcome")
	assert.Error(t, current.Err)
	assert.Nil(t, current.Tree)
}

func TestSelectSupersededResultIsDiscarded(t *testing.T) {
	sess := auth.NewSession("s1")

	gateway := &fakeDerivative{
		records: []entities.PropertyRecord{{ObjectID: 1}},
		tree:    []*entities.ObjectTreeNode{{ObjectID: 1, Name: "Model"}},
	}
	// A newer selection begins while this cycle's poll is in flight.
	gateway.onProps = func() {
		sess.BeginSelection()
	}
	service := newTestModel(gateway)

	_, err := service.Select(context.Background(), sess, testCredentials(), testURN(t), testViewGUID)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))
	assert.Nil(t, service.Current(sess), "a stale result never overwrites session state")
}

func TestSelectSupersededFailureIsDiscarded(t *testing.T) {
	sess := auth.NewSession("s1")

	gateway := &fakeDerivative{
		propsErr: pkgerrors.NewTransportError("get_all_properties", 502, nil),
	}
	gateway.onProps = func() {
		sess.BeginSelection()
	}
	service := newTestModel(gateway)

	_, err := service.Select(context.Background(), sess, testCredentials(), testURN(t), testViewGUID)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))
	assert.Nil(t, service.Current(sess))
}

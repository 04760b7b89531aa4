package doclink

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

// Not parallel: the counters are process-wide.
func TestMetrics_FindOutcomes(t *testing.T) {
	f := newKitFixture(t)
	h := f.h
	h.metrics = true

	resolved := counterValue(t, findsTotal.WithLabelValues(outcomeResolved))
	collisions := counterValue(t, findsTotal.WithLabelValues(outcomeLookupCollision))
	unfindable := counterValue(t, findsTotal.WithLabelValues(outcomeUnfindableMatch))

	_, err := h.Find("Kit/Widget", nil, false)
	require.NoError(t, err)
	_, err = h.Find("Kit/draw(_:)", nil, false)
	require.Error(t, err)
	_, err = h.Find("Kit/Internal", nil, false)
	require.Error(t, err)

	assert.Equal(t, resolved+1, counterValue(t, findsTotal.WithLabelValues(outcomeResolved)))
	assert.Equal(t, collisions+1, counterValue(t, findsTotal.WithLabelValues(outcomeLookupCollision)))
	assert.Equal(t, unfindable+1, counterValue(t, findsTotal.WithLabelValues(outcomeUnfindableMatch)))
}

func TestMetrics_CollisionStrategies(t *testing.T) {
	f := newKitFixture(t)
	h := f.h
	h.metrics = true

	tests := []struct {
		path     string
		strategy string
	}{
		{"Kit/Item/small", strategyLookahead},
		{"Kit/Gadget", strategySameSymbol},
		{"Kit/Widget/resize(_:)", strategyFavored},
	}
	for _, tt := range tests {
		before := counterValue(t, collisionsResolvedTotal.WithLabelValues(tt.strategy))
		_, err := h.Find(tt.path, nil, false)
		require.NoError(t, err, tt.path)
		assert.Equal(t, before+1, counterValue(t, collisionsResolvedTotal.WithLabelValues(tt.strategy)), tt.path)
	}
}

func TestMetrics_Disabled(t *testing.T) {
	f := newKitFixture(t)

	before := counterValue(t, findsTotal.WithLabelValues(outcomeResolved))
	_, err := f.h.Find("Kit/Widget", nil, false)
	require.NoError(t, err)
	assert.Equal(t, before, counterValue(t, findsTotal.WithLabelValues(outcomeResolved)))
}

func TestFindOutcome(t *testing.T) {
	t.Parallel()
	assert.Equal(t, outcomeNotFound, findOutcome(&NotFoundError{}))
	assert.Equal(t, outcomeUnknownName, findOutcome(&UnknownNameError{}))
	assert.Equal(t, outcomeUnknownDisambiguation, findOutcome(&UnknownDisambiguationError{}))
	assert.Equal(t, outcomeLookupCollision, findOutcome(&LookupCollisionError{}))
	assert.Equal(t, outcomeUnfindableMatch, findOutcome(&UnfindableMatchError{}))
	assert.Equal(t, outcomeNonSymbolMatch, findOutcome(&NonSymbolMatchError{}))
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBeforeInitIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		ObserveReconciliation(ResultSuccess, time.Millisecond)
	})
}

func TestObserveClosing(t *testing.T) {
	Init(nil)

	before := testutil.ToFloat64(closingTotal.WithLabelValues(OperationClose, ResultRejected))
	ObserveClosing(OperationClose, ResultRejected, 20*time.Millisecond)
	after := testutil.ToFloat64(closingTotal.WithLabelValues(OperationClose, ResultRejected))
	assert.Equal(t, before+1, after)

	ObserveValidation(true)
	assert.GreaterOrEqual(t, testutil.ToFloat64(validationTotal.WithLabelValues("true")), 1.0)
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTurn(t *testing.T) {
	before := testutil.ToFloat64(ChatTurns.WithLabelValues(OutcomeCompleted))
	RecordTurn(OutcomeCompleted)
	RecordTurn(OutcomeCompleted)

	assert.Equal(t, before+2, testutil.ToFloat64(ChatTurns.WithLabelValues(OutcomeCompleted)))
}

func TestRecordChunks(t *testing.T) {
	before := testutil.ToFloat64(StreamChunks)
	RecordChunks(3)

	assert.Equal(t, before+3, testutil.ToFloat64(StreamChunks))
}

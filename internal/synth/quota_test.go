package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solartrack/internal/model"
)

func TestQuotaTracker_StartsEmpty(t *testing.T) {
	q := NewQuotaTracker()
	for _, c := range model.AnomalyCategories {
		assert.Zero(t, q.Count(c))
		assert.True(t, q.NeedsMore(c))
		assert.True(t, q.HasRoom(c))
	}
	assert.True(t, q.AnyNeedsMore())
}

func TestQuotaTracker_RecordCounts(t *testing.T) {
	q := NewQuotaTracker()
	c := model.AnomalySuddenDrop

	for i := 1; i <= 7; i++ {
		require.True(t, q.Record(c))
		assert.Equal(t, i, q.Count(c))
	}
	assert.False(t, q.NeedsMore(c), "minimum reached at 5")
	assert.True(t, q.HasRoom(c))
}

func TestQuotaTracker_MaxIsHardCap(t *testing.T) {
	q := NewQuotaTracker()
	c := model.AnomalyOverproduction

	for i := 0; i < MaxPerCategory; i++ {
		require.True(t, q.Record(c))
	}
	assert.False(t, q.HasRoom(c))
	assert.False(t, q.Record(c), "record past the cap must refuse")
	assert.Equal(t, MaxPerCategory, q.Count(c))
}

func TestQuotaTracker_AnyNeedsMore(t *testing.T) {
	q := NewQuotaTracker()
	for _, c := range model.AnomalyCategories {
		for i := 0; i < MinPerCategory; i++ {
			q.Record(c)
		}
	}
	assert.False(t, q.AnyNeedsMore())
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTrace_Append(t *testing.T) {
	t.Parallel()

	trace := NewRunTrace("https://linkedin.com/in/jane-doe")
	require.NotEmpty(t, trace.RunID)

	trace.Append("fetch_profile", "url", "https://linkedin.com/in/jane-doe")
	trace.Append("no_detail")
	trace.Append("odd_pair", "key") // trailing key without a value is dropped

	require.Len(t, trace.Entries, 3)
	assert.Equal(t, "fetch_profile", trace.Entries[0].Action)
	assert.Equal(t, "https://linkedin.com/in/jane-doe", trace.Entries[0].Detail["url"])
	assert.Nil(t, trace.Entries[1].Detail)
	assert.Empty(t, trace.Entries[2].Detail)
}

func TestRunTrace_SnapshotIsolated(t *testing.T) {
	t.Parallel()

	trace := NewRunTrace("https://example.com")
	trace.Append("first")

	snap := trace.Snapshot()
	trace.Append("second")

	assert.Len(t, snap.Entries, 1)
	assert.Len(t, trace.Entries, 2)
	assert.Equal(t, trace.RunID, snap.RunID)
}

package requestController

import (
	"testing"
	"time"

	. "geoportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func historyRequest(id int, variable Variable, outDir *string, debug bool, age time.Duration) *Request {
	return &Request{
		BaseModel: BaseModel{
			ID:        id,
			CreatedAt: time.Now().Add(-age),
		},
		VariableName: variable,
		OutDir:       outDir,
		Debug:        debug,
	}
}

func TestCollapseDuplicates(t *testing.T) {
	// Input is newest first, the way the repository returns it.
	requests := []*Request{
		historyRequest(5, VariableTemperature, nil, false, 1*time.Hour),
		historyRequest(4, VariableTemperature, nil, false, 2*time.Hour),
		historyRequest(3, VariableGeopotential, nil, false, 3*time.Hour),
		historyRequest(2, VariableTemperature, strPtr("/out"), false, 4*time.Hour),
		historyRequest(1, VariableTemperature, nil, false, 5*time.Hour),
	}

	collapsed := CollapseDuplicates(requests)

	require.Len(t, collapsed, 3)

	// Most recent entry represents its group.
	assert.Equal(t, 5, collapsed[0].ID)
	assert.Equal(t, 3, collapsed[0].Count)

	assert.Equal(t, 3, collapsed[1].ID)
	assert.Equal(t, 1, collapsed[1].Count)

	assert.Equal(t, 2, collapsed[2].ID)
	assert.Equal(t, 1, collapsed[2].Count)
}

func TestCollapseDuplicates_KeyIsCoarse(t *testing.T) {
	// Requests differing only in fields outside (variableName, outDir,
	// debug) still collapse into one group.
	a := historyRequest(2, VariableTemperature, nil, false, time.Hour)
	a.PressureLevels = IntList{1000}
	b := historyRequest(1, VariableTemperature, nil, false, 2*time.Hour)
	b.PressureLevels = IntList{500, 300}

	collapsed := CollapseDuplicates([]*Request{a, b})
	require.Len(t, collapsed, 1)
	assert.Equal(t, 2, collapsed[0].Count)
}

func TestCollapseDuplicates_DebugSplitsGroups(t *testing.T) {
	collapsed := CollapseDuplicates([]*Request{
		historyRequest(2, VariableTemperature, nil, true, time.Hour),
		historyRequest(1, VariableTemperature, nil, false, 2*time.Hour),
	})

	require.Len(t, collapsed, 2)
	assert.Equal(t, 1, collapsed[0].Count)
	assert.Equal(t, 1, collapsed[1].Count)
}

func TestCollapseDuplicates_NilAndEmptyOutDirMatch(t *testing.T) {
	// A missing outDir and an empty one form the same group; the key uses
	// the dereferenced value.
	collapsed := CollapseDuplicates([]*Request{
		historyRequest(2, VariableTemperature, strPtr(""), false, time.Hour),
		historyRequest(1, VariableTemperature, nil, false, 2*time.Hour),
	})

	require.Len(t, collapsed, 1)
	assert.Equal(t, 2, collapsed[0].Count)
}

func TestCollapseDuplicates_NoDuplicateKeysInOutput(t *testing.T) {
	requests := []*Request{
		historyRequest(6, VariableTemperature, nil, false, 1*time.Hour),
		historyRequest(5, VariableTemperature, strPtr("/a"), false, 2*time.Hour),
		historyRequest(4, VariableTemperature, nil, true, 3*time.Hour),
		historyRequest(3, VariableGeopotential, nil, false, 4*time.Hour),
		historyRequest(2, VariableTemperature, nil, false, 5*time.Hour),
		historyRequest(1, VariableTemperature, strPtr("/a"), false, 6*time.Hour),
	}

	collapsed := CollapseDuplicates(requests)

	seen := map[duplicateKey]bool{}
	total := 0
	for _, entry := range collapsed {
		key := keyOf(&entry.Request)
		assert.False(t, seen[key], "duplicate key in output: %+v", key)
		seen[key] = true
		total += entry.Count
	}
	assert.Equal(t, len(requests), total)
}

func TestCollapseDuplicates_Empty(t *testing.T) {
	assert.Empty(t, CollapseDuplicates(nil))
	assert.Empty(t, CollapseDuplicates([]*Request{}))
}

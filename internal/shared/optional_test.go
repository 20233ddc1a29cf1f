package shared

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parentPatch struct {
	ParentID OptionalUUID `json:"parentId"`
}

func TestOptionalUUID(t *testing.T) {
	id := uuid.New()

	var absent parentPatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.ParentID.Set)

	var cleared parentPatch
	require.NoError(t, json.Unmarshal([]byte(`{"parentId":null}`), &cleared))
	assert.True(t, cleared.ParentID.Set)
	assert.Nil(t, cleared.ParentID.Value)

	var set parentPatch
	require.NoError(t, json.Unmarshal([]byte(`{"parentId":"`+id.String()+`"}`), &set))
	assert.True(t, set.ParentID.Set)
	require.NotNil(t, set.ParentID.Value)
	assert.Equal(t, id, *set.ParentID.Value)

	var bad parentPatch
	assert.Error(t, json.Unmarshal([]byte(`{"parentId":"nope"}`), &bad))
}

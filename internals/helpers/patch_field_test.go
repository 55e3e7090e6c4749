package helper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchPayload struct {
	Title       *PatchField[string]  `json:"title,omitempty"`
	Description *PatchField[string]  `json:"description,omitempty"`
	Points      *PatchField[float64] `json:"points,omitempty"`
}

func TestPatchFieldThreeStates(t *testing.T) {
	var p patchPayload
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Baru","description":null}`), &p))

	// dikirim nilai
	require.NotNil(t, p.Title)
	assert.True(t, p.Title.ShouldUpdate())
	assert.False(t, p.Title.IsNull())
	assert.Equal(t, "Baru", *p.Title.Value)

	// dikirim null
	require.NotNil(t, p.Description)
	assert.True(t, p.Description.ShouldUpdate())
	assert.True(t, p.Description.IsNull())

	// tidak dikirim
	assert.Nil(t, p.Points)
}

func TestPutUpdate(t *testing.T) {
	var p patchPayload
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Judul","description":null}`), &p))

	upd := map[string]any{}
	PutUpdate(upd, "title", p.Title)
	PutUpdate(upd, "description", p.Description)
	PutUpdate(upd, "points", p.Points)

	assert.Equal(t, "Judul", upd["title"])
	val, ok := upd["description"]
	assert.True(t, ok)
	assert.Nil(t, val)
	_, ok = upd["points"]
	assert.False(t, ok) // absent → tidak masuk updates
}

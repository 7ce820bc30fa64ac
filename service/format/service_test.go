package format

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoineSebert/scheduling-solver/model"
)

func testSolution() *model.Solution {
	return &model.Solution{
		Filepaths:   model.FilepathPair{Tsk: "case_1.tsk", Cfg: "case_1.cfg"},
		Hyperperiod: 3,
		Arch: model.Architecture{
			{
				ID: 0,
				Cores: []model.Core{
					{ID: 0, Slices: []model.Slice{{Task: model.TaskRef{ChainID: 0, TaskID: 1}, Start: 0, End: 3}}},
					{ID: 1, Slices: []model.Slice{{Task: model.TaskRef{ChainID: 0, TaskID: 0}, Start: 0, End: 2}}},
				},
			},
		},
	}
}

func TestParse(t *testing.T) {
	for _, name := range []string{"json", "xml", "raw"} {
		parsed, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), parsed)
	}
	_, err := Parse("graphml")
	assert.Error(t, err)
}

func TestRenderJSON(t *testing.T) {
	rendered, err := JSON.Render(testSolution())
	require.NoError(t, err)

	var decoded struct {
		Hyperperiod int `json:"hyperperiod"`
		Arch        []struct {
			Cores []struct {
				Slices []struct {
					Start int `json:"start"`
					End   int `json:"end"`
				} `json:"slices"`
			} `json:"cores"`
		} `json:"arch"`
	}
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	assert.Equal(t, 3, decoded.Hyperperiod)
	require.Len(t, decoded.Arch, 1)
	require.Len(t, decoded.Arch[0].Cores, 2)
	assert.Equal(t, 3, decoded.Arch[0].Cores[0].Slices[0].End)
}

func TestRenderXML(t *testing.T) {
	rendered, err := XML.Render(testSolution())
	require.NoError(t, err)

	assert.Contains(t, rendered, `<Schedule CpuId="0" CoreId="0">`)
	assert.Contains(t, rendered, `<Slice ChainId="0" TaskId="1" Start="0" Duration="3">`)
	assert.Contains(t, rendered, `<Slice ChainId="0" TaskId="0" Start="0" Duration="2">`)
}

func TestRenderRaw(t *testing.T) {
	rendered, err := Raw.Render(testSolution())
	require.NoError(t, err)
	assert.Contains(t, rendered, "case_1.tsk")
}

func TestRenderNilSolution(t *testing.T) {
	_, err := JSON.Render(nil)
	assert.Error(t, err)
}

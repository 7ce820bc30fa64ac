package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoineSebert/scheduling-solver/model"
)

func placedTask(id, wcet, period, coreID int) model.Task {
	task := model.Task{ID: id, WCET: wcet, Period: period, Deadline: period, CPUID: 0}
	task.Place(coreID)
	return task
}

func TestGenerate(t *testing.T) {
	problem := &model.Problem{
		Graph: []model.Chain{
			{
				ID:     0,
				Budget: 20,
				Tasks: []model.Task{
					placedTask(0, 2, 10, 1),
					placedTask(1, 3, 10, 0),
				},
			},
		},
		Arch: model.Architecture{
			{ID: 0, Cores: []model.Core{{ID: 0}, {ID: 1}}},
		},
	}

	hyperperiod, err := Generate(problem)
	require.NoError(t, err)
	assert.Equal(t, 3, hyperperiod)

	core0 := problem.Arch[0].Core(0)
	require.Len(t, core0.Slices, 1)
	assert.Equal(t, model.Slice{Task: model.TaskRef{ChainID: 0, TaskID: 1}, Start: 0, End: 3}, core0.Slices[0])

	core1 := problem.Arch[0].Core(1)
	require.Len(t, core1.Slices, 1)
	assert.Equal(t, model.Slice{Task: model.TaskRef{ChainID: 0, TaskID: 0}, Start: 0, End: 2}, core1.Slices[0])
}

func TestGenerateSequentialSlices(t *testing.T) {
	problem := &model.Problem{
		Graph: []model.Chain{
			{
				ID:       0,
				Budget:   40,
				Priority: 1,
				Tasks: []model.Task{
					placedTask(0, 2, 10, 0),
					placedTask(1, 4, 10, 0),
				},
			},
			{
				ID:     1,
				Budget: 40,
				Tasks: []model.Task{
					placedTask(0, 5, 20, 0),
				},
			},
		},
		Arch: model.Architecture{
			{ID: 0, Cores: []model.Core{{ID: 0}}},
		},
	}

	hyperperiod, err := Generate(problem)
	require.NoError(t, err)
	assert.Equal(t, 11, hyperperiod)

	// The priority 1 chain lays out first, the priority 0 chain follows;
	// consecutive slices touch with zero gap and zero overlap.
	slices := problem.Arch[0].Cores[0].Slices
	require.Len(t, slices, 3)
	assert.Equal(t, 0, slices[0].Start)
	for i := range slices {
		task := problem.Task(slices[i].Task)
		require.NotNil(t, task)
		assert.Equal(t, task.WCET, slices[i].End-slices[i].Start)
		if i > 0 {
			assert.Equal(t, slices[i-1].End, slices[i].Start)
		}
		assert.LessOrEqual(t, slices[i].End, hyperperiod)
	}
	assert.Equal(t, hyperperiod, slices[len(slices)-1].End)
	assert.Equal(t, model.TaskRef{ChainID: 1, TaskID: 0}, slices[2].Task)
}

func TestGenerateOrdersByTaskCount(t *testing.T) {
	problem := &model.Problem{
		Graph: []model.Chain{
			{
				ID:     0,
				Budget: 40,
				Tasks: []model.Task{
					placedTask(0, 1, 10, 0),
				},
			},
			{
				ID:     1,
				Budget: 40,
				Tasks: []model.Task{
					placedTask(0, 2, 10, 0),
					placedTask(1, 2, 10, 0),
				},
			},
		},
		Arch: model.Architecture{
			{ID: 0, Cores: []model.Core{{ID: 0}}},
		},
	}

	_, err := Generate(problem)
	require.NoError(t, err)

	// Equal priority: the longer chain claims core time first.
	slices := problem.Arch[0].Cores[0].Slices
	require.Len(t, slices, 3)
	assert.Equal(t, model.TaskRef{ChainID: 1, TaskID: 0}, slices[0].Task)
	assert.Equal(t, model.TaskRef{ChainID: 1, TaskID: 1}, slices[1].Task)
	assert.Equal(t, model.TaskRef{ChainID: 0, TaskID: 0}, slices[2].Task)
}

func TestGenerateEmptyProblem(t *testing.T) {
	problem := &model.Problem{
		Arch: model.Architecture{
			{ID: 0, Cores: []model.Core{{ID: 0}, {ID: 1}}},
		},
	}

	hyperperiod, err := Generate(problem)
	require.NoError(t, err)
	assert.Equal(t, 0, hyperperiod)
	for i := range problem.Arch[0].Cores {
		assert.Empty(t, problem.Arch[0].Cores[i].Slices)
	}
}

func TestGenerateRejectsUnplacedTask(t *testing.T) {
	problem := &model.Problem{
		Graph: []model.Chain{
			{ID: 0, Budget: 10, Tasks: []model.Task{{ID: 0, WCET: 1, Period: 5, Deadline: 5, CPUID: 0}}},
		},
		Arch: model.Architecture{
			{ID: 0, Cores: []model.Core{{ID: 0}}},
		},
	}

	_, err := Generate(problem)
	assert.Error(t, err)
	var configErr *model.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

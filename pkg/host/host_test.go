// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/gointcode/pkg/host"
	"github.com/lassandro/gointcode/pkg/machine"
)

var (
	amplifier = []machine.Word{
		3, 15, 3, 16, 1002, 16, 10, 16, 1, 16, 15, 15, 4, 15, 99, 0, 0,
	}
	amplifierReversed = []machine.Word{
		3, 23, 3, 24, 1002, 24, 10, 24, 1002, 23, -1, 23, 101, 5, 23, 23, 1,
		24, 23, 23, 4, 23, 99, 0, 0,
	}
	amplifierFeedback = []machine.Word{
		3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26, 27, 4, 27,
		1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5,
	}
)

func TestQueue(t *testing.T) {
	q := host.NewQueue(1, 2)
	q.Push(3)
	assert.Equal(t, 3, q.Len())

	for _, want := range []machine.Word{1, 2, 3} {
		have, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, have)
	}

	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestExecute(t *testing.T) {
	mc, err := machine.New([]machine.Word{3, 0, 4, 0, 3, 0, 4, 0, 99})
	require.NoError(t, err)

	outputs, err := host.Execute(mc, []machine.Word{5, -6})
	require.NoError(t, err)
	assert.Equal(t, []machine.Word{5, -6}, outputs)
	assert.Equal(t, machine.STATUS_HALTED, mc.Status())
}

func TestExecuteInputExhausted(t *testing.T) {
	mc, err := machine.New([]machine.Word{3, 0, 4, 0, 3, 0, 4, 0, 99})
	require.NoError(t, err)

	outputs, err := host.Execute(mc, []machine.Word{5})
	assert.ErrorIs(t, err, host.ErrInputExhausted)
	assert.Equal(t, []machine.Word{5}, outputs)
	assert.Equal(t, machine.STATUS_NEEDS_INPUT, mc.Status())

	// The suspended machine can still be resumed by another driver.
	outputs, err = host.Execute(mc, []machine.Word{7})
	require.NoError(t, err)
	assert.Equal(t, []machine.Word{7}, outputs)
}

func TestExecuteFault(t *testing.T) {
	mc, err := machine.New([]machine.Word{104, 1, 98})
	require.NoError(t, err)

	outputs, err := host.Execute(mc, nil)
	assert.ErrorIs(t, err, machine.ErrInvalidOpcode)
	assert.Equal(t, []machine.Word{1}, outputs)
}

func TestPump(t *testing.T) {
	mc, err := machine.New([]machine.Word{3, 0, 4, 0, 1105, 1, 0})
	require.NoError(t, err)

	var emitted []machine.Word
	emit := func(value machine.Word) {
		emitted = append(emitted, value)
	}

	queue := host.NewQueue(1, 2)
	ran, err := host.Pump(mc, queue, emit)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []machine.Word{1, 2}, emitted)

	ran, err = host.Pump(mc, queue, emit)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestPipeline(t *testing.T) {
	tests := []struct {
		Name     string
		Program  []machine.Word
		Phases   []machine.Word
		Feedback bool
		Signal   machine.Word
	}{
		{"Serial", amplifier, []machine.Word{4, 3, 2, 1, 0}, false, 43210},
		{"Serial reversed", amplifierReversed, []machine.Word{0, 1, 2, 3, 4}, false, 54321},
		{"Feedback", amplifierFeedback, []machine.Word{9, 8, 7, 6, 5}, true, 139629729},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			pipeline, err := host.NewPipeline(test.Program, test.Phases, test.Feedback)
			require.NoError(t, err)

			signal, err := pipeline.Run(0)
			require.NoError(t, err)
			assert.Equal(t, test.Signal, signal)
		})
	}
}

func TestPipelineFailures(t *testing.T) {
	_, err := host.NewPipeline(amplifier, nil, false)
	assert.Error(t, err)

	pipeline, err := host.NewPipeline([]machine.Word{3, 0, 3, 0, 3, 0, 99}, []machine.Word{1}, false)
	require.NoError(t, err)

	_, err = pipeline.Run(0)
	assert.ErrorIs(t, err, host.ErrDeadlock)

	pipeline, err = host.NewPipeline([]machine.Word{3, 0, 3, 0, 99}, []machine.Word{1}, false)
	require.NoError(t, err)

	_, err = pipeline.Run(0)
	assert.ErrorIs(t, err, host.ErrNoOutput)

	pipeline, err = host.NewPipeline([]machine.Word{3, 0, 3, 0, 98}, []machine.Word{1, 2}, false)
	require.NoError(t, err)

	_, err = pipeline.Run(0)
	assert.ErrorIs(t, err, machine.ErrInvalidOpcode)
	assert.Contains(t, err.Error(), "stage 0")
}

func TestPermutations(t *testing.T) {
	assert.Equal(t, [][]machine.Word{{}}, host.Permutations(nil))

	perms := host.Permutations([]machine.Word{1, 2, 3})
	assert.Len(t, perms, 6)
	assert.Contains(t, perms, []machine.Word{3, 1, 2})
	assert.Equal(t, []machine.Word{1, 2, 3}, perms[0])

	assert.Len(t, host.Permutations([]machine.Word{0, 1, 2, 3, 4}), 120)
}

func TestMaxSignal(t *testing.T) {
	tests := []struct {
		Name     string
		Program  []machine.Word
		Phases   []machine.Word
		Feedback bool
		Signal   machine.Word
		Ordering []machine.Word
	}{
		{"Serial", amplifier, []machine.Word{0, 1, 2, 3, 4}, false, 43210, []machine.Word{4, 3, 2, 1, 0}},
		{"Serial reversed", amplifierReversed, []machine.Word{0, 1, 2, 3, 4}, false, 54321, []machine.Word{0, 1, 2, 3, 4}},
		{"Feedback", amplifierFeedback, []machine.Word{5, 6, 7, 8, 9}, true, 139629729, []machine.Word{9, 8, 7, 6, 5}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			signal, ordering, err := host.MaxSignal(
				context.Background(), test.Program, test.Phases, test.Feedback,
			)
			require.NoError(t, err)
			assert.Equal(t, test.Signal, signal)
			assert.Equal(t, test.Ordering, ordering)
		})
	}
}

func TestMaxSignalFault(t *testing.T) {
	_, _, err := host.MaxSignal(
		context.Background(), []machine.Word{98}, []machine.Word{0, 1}, false,
	)
	assert.ErrorIs(t, err, machine.ErrInvalidOpcode)
}

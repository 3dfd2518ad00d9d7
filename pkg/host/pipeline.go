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

package host

import (
	"github.com/pkg/errors"

	"github.com/lassandro/gointcode/pkg/machine"
)

var (
	ErrDeadlock = errors.New("pipeline stages are all waiting for input")
	ErrNoOutput = errors.New("pipeline produced no output")
)

type stage struct {
	mc    *machine.Machine
	input *Queue
}

// Pipeline chains machines loaded from one program. Each stage is primed with
// its phase setting, and every output of stage i is queued as input for
// stage i+1. With feedback, the last stage's outputs are queued for the
// first stage and the pipeline runs until every stage halts.
type Pipeline struct {
	stages   []stage
	feedback bool
}

func NewPipeline(program []machine.Word, phases []machine.Word, feedback bool) (*Pipeline, error) {
	if len(phases) == 0 {
		return nil, errors.New("pipeline needs at least one stage")
	}

	pipeline := &Pipeline{
		stages:   make([]stage, len(phases)),
		feedback: feedback,
	}

	for i, phase := range phases {
		mc, err := machine.New(program)

		if err != nil {
			return nil, errors.Wrapf(err, "stage %d", i)
		}

		pipeline.stages[i] = stage{mc, NewQueue(phase)}
	}

	return pipeline, nil
}

// Run feeds signal to the first stage and returns the last value produced by
// the final stage.
func (p *Pipeline) Run(signal machine.Word) (machine.Word, error) {
	var last machine.Word
	var produced bool

	p.stages[0].input.Push(signal)

	for {
		progress := false
		halted := 0

		for i := range p.stages {
			current := &p.stages[i]
			final := i == len(p.stages)-1

			emit := func(value machine.Word) {
				if !final {
					p.stages[i+1].input.Push(value)
					return
				}

				last = value
				produced = true

				if p.feedback {
					p.stages[0].input.Push(value)
				}
			}

			ran, err := Pump(current.mc, current.input, emit)

			if err != nil {
				return 0, errors.Wrapf(err, "stage %d", i)
			}

			progress = progress || ran

			if current.mc.Status() == machine.STATUS_HALTED {
				halted++
			}
		}

		if halted == len(p.stages) {
			break
		}

		if !progress {
			return 0, errors.WithStack(ErrDeadlock)
		}
	}

	if !produced {
		return 0, errors.WithStack(ErrNoOutput)
	}

	return last, nil
}

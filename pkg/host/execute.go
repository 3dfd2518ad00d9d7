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

var ErrInputExhausted = errors.New("machine needs input but none is left")

// Execute runs a machine until it halts, answering input requests from inputs
// in order. Every output produced is returned, including those produced
// before an error.
func Execute(mc *machine.Machine, inputs []machine.Word) ([]machine.Word, error) {
	queue := NewQueue(inputs...)
	outputs := make([]machine.Word, 0)

	for {
		result, err := mc.Run()

		if err != nil {
			return outputs, err
		}

		switch result.Status {
		case machine.STATUS_HALTED:
			return outputs, nil

		case machine.STATUS_OUTPUT:
			outputs = append(outputs, result.Value)

		case machine.STATUS_NEEDS_INPUT:
			value, ok := queue.Pop()

			if !ok {
				return outputs, errors.WithStack(ErrInputExhausted)
			}

			if err := mc.SupplyInput(value); err != nil {
				return outputs, err
			}
		}
	}
}

// Pump runs a machine until it halts or asks for input the queue cannot
// supply. Outputs are handed to emit as they are produced. Reports whether
// the machine executed any instruction.
func Pump(mc *machine.Machine, queue *Queue, emit func(machine.Word)) (bool, error) {
	start := mc.Steps()

	for mc.Status() != machine.STATUS_HALTED {
		result, err := mc.Run()

		if err != nil {
			return mc.Steps() != start, err
		}

		switch result.Status {
		case machine.STATUS_OUTPUT:
			emit(result.Value)

		case machine.STATUS_NEEDS_INPUT:
			value, ok := queue.Pop()

			if !ok {
				return mc.Steps() != start, nil
			}

			if err := mc.SupplyInput(value); err != nil {
				return mc.Steps() != start, err
			}
		}
	}

	return mc.Steps() != start, nil
}

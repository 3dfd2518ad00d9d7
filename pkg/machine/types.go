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

package machine

type Word = int64
type Mode uint8
type Status uint8
type FaultKind uint8

type Param struct {
	Mode Mode
	Raw  Word
}

type Instruction struct {
	Addr   Word
	Value  Word
	Opcode Word
	Modes  Word
}

// Result is what a call to Run or Step yields back to the host. Value is only
// meaningful when Status is STATUS_OUTPUT.
type Result struct {
	Status Status
	Value  Word
}

type MachineState struct {
	Program Word
	RelBase Word
	Memory  Memory
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr Word, mc *Machine)
	Write(addr Word, mc *Machine)
}

type Machine struct {
	State    MachineState
	Debugger MachineDebugger

	image  []Word
	status Status
	fault  *Fault
	steps  uint64

	input    Word
	hasInput bool
	output   Word

	// IN instruction that suspended for lack of input.
	pending *pendingInput
}

type pendingInput struct {
	Addr Word
	Dest Param
}

func (s Status) String() string {
	switch s {
	case STATUS_RUNNING:
		return "running"
	case STATUS_NEEDS_INPUT:
		return "needs input"
	case STATUS_OUTPUT:
		return "output"
	case STATUS_HALTED:
		return "halted"
	case STATUS_FAULTED:
		return "faulted"
	default:
		return "unknown"
	}
}

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

// Default number of addressable words. Programs are loaded at address 0 and
// the remaining words are zeroed.
const DEFAULT_CAPACITY = 16 * 1024

const (
	OP_ADD Word = 1
	OP_MUL Word = 2
	OP_IN  Word = 3
	OP_OUT Word = 4
	OP_JT  Word = 5 // Jump if true
	OP_JF  Word = 6 // Jump if false
	OP_LT  Word = 7
	OP_EQ  Word = 8
	OP_ARB Word = 9 // Adjust relative base
	OP_HLT Word = 99
)

const (
	MODE_POSITION  Mode = 0
	MODE_IMMEDIATE Mode = 1
	MODE_RELATIVE  Mode = 2
)

const (
	STATUS_RUNNING Status = iota
	STATUS_NEEDS_INPUT
	STATUS_OUTPUT
	STATUS_HALTED
	STATUS_FAULTED
)

const (
	FAULT_NONE FaultKind = iota
	FAULT_ADDRESS_OUT_OF_RANGE
	FAULT_INVALID_OPCODE
	FAULT_INVALID_PARAMETER_MODE
	FAULT_INVALID_WRITE_MODE
	FAULT_ALREADY_HALTED
	FAULT_NUMERIC_OVERFLOW
)

var opcodeArity = map[Word]int{
	OP_ADD: 3,
	OP_MUL: 3,
	OP_IN:  1,
	OP_OUT: 1,
	OP_JT:  2,
	OP_JF:  2,
	OP_LT:  3,
	OP_EQ:  3,
	OP_ARB: 1,
	OP_HLT: 0,
}

var opcodeNames = map[Word]string{
	OP_ADD: "ADD",
	OP_MUL: "MUL",
	OP_IN:  "IN",
	OP_OUT: "OUT",
	OP_JT:  "JT",
	OP_JF:  "JF",
	OP_LT:  "LT",
	OP_EQ:  "EQ",
	OP_ARB: "ARB",
	OP_HLT: "HLT",
}

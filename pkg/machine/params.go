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

var pow10 = [...]Word{1, 10, 100}

// Decode splits a word into its opcode and parameter mode digits.
func Decode(addr Word, value Word) Instruction {
	return Instruction{
		Addr:   addr,
		Value:  value,
		Opcode: value % 100,
		Modes:  value / 100,
	}
}

// Mode returns the addressing mode of the nth (zero based) parameter.
func (ins Instruction) Mode(n int) Mode {
	return Mode((ins.Modes / pow10[n]) % 10)
}

// Arity returns the number of parameters the opcode consumes, or false if the
// opcode is not part of the instruction set.
func Arity(opcode Word) (int, bool) {
	arity, ok := opcodeArity[opcode]
	return arity, ok
}

// Mnemonic returns the assembly name of an opcode, or false if the opcode is
// not part of the instruction set.
func Mnemonic(opcode Word) (string, bool) {
	name, ok := opcodeNames[opcode]
	return name, ok
}

// Opcode is the inverse of Mnemonic. Names are upper case.
func Opcode(name string) (Word, bool) {
	for opcode, mnemonic := range opcodeNames {
		if mnemonic == name {
			return opcode, true
		}
	}

	return 0, false
}

func (m Mode) String() string {
	switch m {
	case MODE_POSITION:
		return "position"
	case MODE_IMMEDIATE:
		return "immediate"
	case MODE_RELATIVE:
		return "relative"
	default:
		return "invalid"
	}
}

// Resolves a parameter to its operand value.
func (mc *Machine) resolveRead(param Param) (Word, error) {
	switch param.Mode {
	case MODE_POSITION:
		return mc.read(param.Raw)
	case MODE_IMMEDIATE:
		return param.Raw, nil
	case MODE_RELATIVE:
		return mc.read(mc.State.RelBase + param.Raw)
	default:
		return 0, &Fault{
			Kind:  FAULT_INVALID_PARAMETER_MODE,
			Value: Word(param.Mode),
		}
	}
}

// Reports whether a parameter can be written through, without touching
// memory.
func checkWrite(param Param) error {
	switch param.Mode {
	case MODE_POSITION, MODE_RELATIVE:
		return nil
	case MODE_IMMEDIATE:
		return &Fault{Kind: FAULT_INVALID_WRITE_MODE, Value: Word(param.Mode)}
	default:
		return &Fault{
			Kind:  FAULT_INVALID_PARAMETER_MODE,
			Value: Word(param.Mode),
		}
	}
}

// Stores a value at the address a parameter refers to.
func (mc *Machine) resolveWrite(param Param, value Word) error {
	switch param.Mode {
	case MODE_POSITION:
		return mc.write(param.Raw, value)
	case MODE_IMMEDIATE:
		return &Fault{Kind: FAULT_INVALID_WRITE_MODE, Value: Word(param.Mode)}
	case MODE_RELATIVE:
		return mc.write(mc.State.RelBase+param.Raw, value)
	default:
		return &Fault{
			Kind:  FAULT_INVALID_PARAMETER_MODE,
			Value: Word(param.Mode),
		}
	}
}

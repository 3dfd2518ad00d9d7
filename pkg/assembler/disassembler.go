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

package assembler

import (
	"fmt"
	"strings"

	"github.com/lassandro/gointcode/pkg/machine"
)

type Line struct {
	Addr  machine.Word
	Words []machine.Word
	Text  string
}

// Decodes the instruction at addr. Words that do not form a valid
// instruction are rendered as a single .DATA word. Labels, when given, name
// jump targets and position operands.
func Disassemble(mem []machine.Word, addr machine.Word, labels map[machine.Word]string) Line {
	if addr < 0 || addr >= machine.Word(len(mem)) {
		return Line{Addr: addr}
	}

	value := mem[addr]
	data := Line{
		Addr:  addr,
		Words: mem[addr : addr+1],
		Text:  fmt.Sprintf(".DATA %d", value),
	}

	ins := machine.Decode(addr, value)
	arity, ok := machine.Arity(ins.Opcode)

	if !ok || value < 0 || addr+machine.Word(arity) >= machine.Word(len(mem)) {
		return data
	}

	// Mode digits past the last parameter would be ignored by the machine,
	// but they never come out of the assembler.
	if ins.Modes/pow10(arity) != 0 {
		return data
	}

	name, _ := machine.Mnemonic(ins.Opcode)
	operands := make([]string, arity)

	for i := 0; i < arity; i++ {
		raw := mem[addr+1+machine.Word(i)]

		switch ins.Mode(i) {
		case machine.MODE_POSITION:
			operands[i] = formatLabel(raw, "", labels)
		case machine.MODE_IMMEDIATE:
			if isJump(ins.Opcode) && i == 1 {
				operands[i] = formatLabel(raw, "#", labels)
			} else {
				operands[i] = fmt.Sprintf("#%d", raw)
			}
		case machine.MODE_RELATIVE:
			operands[i] = fmt.Sprintf("@%d", raw)
		default:
			return data
		}
	}

	text := name

	if arity > 0 {
		text += " " + strings.Join(operands, ", ")
	}

	return Line{
		Addr:  addr,
		Words: mem[addr : addr+1+machine.Word(arity)],
		Text:  text,
	}
}

// Disassembles a whole image in address order.
func DisassembleAll(mem []machine.Word, labels map[machine.Word]string) []Line {
	lines := make([]Line, 0, len(mem)/2)

	for addr := machine.Word(0); addr < machine.Word(len(mem)); {
		line := Disassemble(mem, addr, labels)
		lines = append(lines, line)
		addr += machine.Word(len(line.Words))
	}

	return lines
}

func isJump(opcode machine.Word) bool {
	return opcode == machine.OP_JT || opcode == machine.OP_JF
}

func formatLabel(value machine.Word, prefix string, labels map[machine.Word]string) string {
	if label, exists := labels[value]; exists {
		return prefix + label
	}

	return fmt.Sprintf("%s%d", prefix, value)
}

func pow10(n int) machine.Word {
	result := machine.Word(1)

	for i := 0; i < n; i++ {
		result *= 10
	}

	return result
}

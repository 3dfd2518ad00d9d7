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

package assembler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/gointcode/pkg/assembler"
	"github.com/lassandro/gointcode/pkg/machine"
)

type testCase struct {
	Name   string
	Input  string
	Output []machine.Word
}

type failCase struct {
	Name     string
	Input    string
	Error    interface{}
	Position assembler.Cursor
}

func testAssemblerSuccess(t *testing.T, tests []testCase) {
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			result, errs := assembler.AssembleSource(
				strings.NewReader(test.Input), nil,
			)

			require.Empty(t, errs)
			assert.Equal(t, test.Output, result)
		})
	}
}

func testAssemblerFailure(t *testing.T, tests []failCase) {
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, errs := assembler.AssembleSource(
				strings.NewReader(test.Input), nil,
			)

			require.NotEmpty(t, errs)
			assert.IsType(t, test.Error, errs[0])

			tokenErr, ok := errs[0].(assembler.TokenError)
			require.True(t, ok, "error does not carry a position")

			have := tokenErr.GetPosition()
			assert.Equal(t, test.Position.Line, have.Line)
			assert.Equal(t, test.Position.Column, have.Column)
		})
	}
}

func TestInstructions(t *testing.T) {
	testAssemblerSuccess(t, []testCase{
		{"Add", "ADD 9, 10, 3", []machine.Word{1, 9, 10, 3}},
		{"Multiply", "mul #3, 4, @5", []machine.Word{20102, 3, 4, 5}},
		{"Input", "IN @-3", []machine.Word{203, -3}},
		{"Output", "OUT #1125899906842624", []machine.Word{104, 1125899906842624}},
		{"Jump if true", "JT 1, #0x10", []machine.Word{1005, 1, 16}},
		{"Jump if false", "JF #0, @2", []machine.Word{2106, 0, 2}},
		{"Less than", "LT #1, #2, 0", []machine.Word{1107, 1, 2, 0}},
		{"Equals", "EQ @1, #-8, @4", []machine.Word{21208, 1, -8, 4}},
		{"Adjust base", "ARB #1", []machine.Word{109, 1}},
		{"Halt", "HLT", []machine.Word{99}},
	})
}

func TestDirectives(t *testing.T) {
	testAssemblerSuccess(t, []testCase{
		{"Data", ".DATA 30, -40, 0x32", []machine.Word{30, -40, 50}},
		{"Zero", ".ZERO 3", []machine.Word{0, 0, 0}},
		{"Zero none", ".ZERO 0\nHLT", []machine.Word{99}},
		{
			"Data labels",
			"HLT\nptr .DATA ptr, end\nend: .DATA #7",
			[]machine.Word{99, 1, 3, 7},
		},
	})
}

func TestLabels(t *testing.T) {
	testAssemblerSuccess(t, []testCase{
		{
			"Forward reference",
			`
			; count down from five
			loop:   ADD counter, #-1, counter
			        OUT counter
			        JT counter, #loop
			        HLT
			counter .DATA 5
			`,
			[]machine.Word{1001, 10, -1, 10, 4, 10, 1005, 10, 0, 99, 5},
		},
	})
}

func TestSymTable(t *testing.T) {
	source := "start:  IN value        ; read\n" +
		"        EQ value, #8, value\n" +
		"        OUT value\n" +
		"        HLT\n" +
		"value:  .DATA -1\n"

	symtable := assembler.NewSymTable()
	result, errs := assembler.AssembleSource(strings.NewReader(source), symtable)
	require.Empty(t, errs)
	assert.Equal(t, []machine.Word{3, 9, 1008, 9, 8, 9, 4, 9, 99, -1}, result)

	addr, ok := symtable.Lookup("value")
	assert.True(t, ok)
	assert.Equal(t, machine.Word(9), addr)

	addr, ok = symtable.Lookup("start")
	assert.True(t, ok)
	assert.Equal(t, machine.Word(0), addr)

	_, ok = symtable.Lookup("missing")
	assert.False(t, ok)

	// Byte offset of the line holding each statement
	assert.Equal(t, map[machine.Word]int64{0: 0, 2: 31, 6: 59, 8: 77, 9: 89}, symtable.Symbols)

	// The assembled program behaves like the hand written one
	mc, err := machine.New(result)
	require.NoError(t, err)

	run, err := mc.Run()
	require.NoError(t, err)
	require.Equal(t, machine.STATUS_NEEDS_INPUT, run.Status)
	require.NoError(t, mc.SupplyInput(8))

	run, err = mc.Run()
	require.NoError(t, err)
	assert.Equal(t, machine.Result{Status: machine.STATUS_OUTPUT, Value: 1}, run)
}

func TestSharedLabels(t *testing.T) {
	source := "main:\n" +
		"loop:  JT #1, #loop\n" +
		"       HLT\n"

	symtable := assembler.NewSymTable()
	result, errs := assembler.AssembleSource(strings.NewReader(source), symtable)
	require.Empty(t, errs)
	assert.Equal(t, []machine.Word{1105, 1, 0, 99}, result)

	for _, label := range []string{"main", "loop"} {
		addr, ok := symtable.Lookup(label)
		assert.True(t, ok, label)
		assert.Equal(t, machine.Word(0), addr, label)
	}

	assert.Equal(t, map[machine.Word]string{0: "main"}, symtable.Labels)
}

func TestFailures(t *testing.T) {
	testAssemblerFailure(t, []failCase{
		{
			"Unknown instruction",
			"NOP",
			&assembler.UnknownIdentifierError{},
			assembler.Cursor{Line: 1, Column: 1},
		},
		{
			"Unknown directive",
			"HLT\n.FILL 3",
			&assembler.UnknownIdentifierError{},
			assembler.Cursor{Line: 2, Column: 1},
		},
		{
			"Too few operands",
			"ADD 1, 2",
			&assembler.InvalidNumArgumentsError{},
			assembler.Cursor{Line: 1, Column: 1},
		},
		{
			"Too many operands",
			"  HLT 1",
			&assembler.InvalidNumArgumentsError{},
			assembler.Cursor{Line: 1, Column: 3},
		},
		{
			"Immediate destination",
			"ADD 1, 2, #3",
			&assembler.InvalidModeError{},
			assembler.Cursor{Line: 1, Column: 11},
		},
		{
			"Immediate input",
			"IN #3",
			&assembler.InvalidModeError{},
			assembler.Cursor{Line: 1, Column: 4},
		},
		{
			"Relative data",
			".DATA @1",
			&assembler.InvalidModeError{},
			assembler.Cursor{Line: 1, Column: 7},
		},
		{
			"Invalid literal",
			"OUT #12z",
			&assembler.InvalidLiteralError{},
			assembler.Cursor{Line: 1, Column: 5},
		},
		{
			"Lone prefix",
			"OUT #",
			&assembler.InvalidLiteralError{},
			assembler.Cursor{Line: 1, Column: 5},
		},
		{
			"Negative zero block",
			".ZERO -1",
			&assembler.InvalidLiteralError{},
			assembler.Cursor{Line: 1, Column: 7},
		},
		{
			"Huge zero block",
			".ZERO 4611686018427387904",
			&assembler.InvalidLiteralError{},
			assembler.Cursor{Line: 1, Column: 7},
		},
		{
			"Zero block past memory",
			"HLT\n.ZERO 16384",
			&assembler.InvalidLiteralError{},
			assembler.Cursor{Line: 2, Column: 7},
		},
		{
			"Unexpected character",
			"OUT $1",
			&assembler.UnexpectedCharacterError{},
			assembler.Cursor{Line: 1, Column: 5},
		},
		{
			"Trailing separator",
			"OUT 1,",
			&assembler.UnexpectedCharacterError{},
			assembler.Cursor{Line: 1, Column: 6},
		},
		{
			"Misplaced sign",
			"OUT a-1",
			&assembler.UnexpectedCharacterError{},
			assembler.Cursor{Line: 1, Column: 6},
		},
		{
			"Label as operand keyword",
			"OUT .DATA",
			&assembler.InvalidOperandError{},
			assembler.Cursor{Line: 1, Column: 5},
		},
		{
			"Redeclared label",
			"a: HLT\na: HLT",
			&assembler.RedeclaredLabelError{},
			assembler.Cursor{Line: 2, Column: 1},
		},
		{
			"Unknown label",
			"\n\nJT #1, #nowhere",
			&assembler.UnknownLabelError{},
			assembler.Cursor{Line: 3, Column: 8},
		},
	})
}

func TestErrorMessages(t *testing.T) {
	_, errs := assembler.AssembleSource(strings.NewReader("ADD 1, 2"), nil)
	require.Len(t, errs, 1)
	assert.Equal(
		t,
		"01:01: Invalid number of arguments\n\twant:3\n\thave:2",
		errs[0].Error(),
	)

	_, errs = assembler.AssembleSource(strings.NewReader("OUT .DATA"), nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "want:Literal or Identifier")
	assert.Contains(t, errs[0].Error(), "have:Directive")
}

func TestDisassemble(t *testing.T) {
	mem := []machine.Word{
		109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99,
	}

	lines := assembler.DisassembleAll(mem, nil)
	texts := make([]string, 0, len(lines))

	for _, line := range lines {
		texts = append(texts, line.Text)
	}

	assert.Equal(t, []string{
		"ARB #1",
		"OUT @-1",
		"ADD 100, #1, 100",
		"EQ 100, #16, 101",
		"JF 101, #0",
		"HLT",
	}, texts)

	assert.Equal(t, machine.Word(12), lines[4].Addr)
	assert.Equal(t, []machine.Word{1006, 101, 0}, lines[4].Words)
}

func TestDisassembleData(t *testing.T) {
	tests := []struct {
		Name string
		Mem  []machine.Word
		Text string
	}{
		{"Unknown opcode", []machine.Word{42}, ".DATA 42"},
		{"Negative", []machine.Word{-7}, ".DATA -7"},
		{"Truncated", []machine.Word{1, 2, 3}, ".DATA 1"},
		{"Bad mode", []machine.Word{304, 0}, ".DATA 304"},
		{"Extra mode digits", []machine.Word{10099}, ".DATA 10099"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			line := assembler.Disassemble(test.Mem, 0, nil)
			assert.Equal(t, test.Text, line.Text)
			assert.Len(t, line.Words, 1)
		})
	}

	line := assembler.Disassemble([]machine.Word{99}, 5, nil)
	assert.Empty(t, line.Words)
}

func TestRoundTrip(t *testing.T) {
	source := `
	loop:   ADD counter, #-1, counter
	        OUT counter
	        JT counter, #loop
	        HLT
	counter .DATA 5
	`

	symtable := assembler.NewSymTable()
	program, errs := assembler.AssembleSource(strings.NewReader(source), symtable)
	require.Empty(t, errs)

	var builder strings.Builder

	for _, line := range assembler.DisassembleAll(program, symtable.Labels) {
		if label, exists := symtable.Labels[line.Addr]; exists {
			builder.WriteString(label + ": ")
		}

		builder.WriteString(line.Text + "\n")
	}

	assert.Contains(t, builder.String(), "JT counter, #loop")

	again, errs := assembler.AssembleSource(strings.NewReader(builder.String()), nil)
	require.Empty(t, errs)
	assert.Equal(t, program, again)
}

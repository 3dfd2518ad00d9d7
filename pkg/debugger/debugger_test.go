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

package debugger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/gointcode/pkg/assembler"
	"github.com/lassandro/gointcode/pkg/debugger"
	"github.com/lassandro/gointcode/pkg/machine"
)

const source = `start:  IN value
        EQ value, #8, value
        OUT value
        HLT
value:  .DATA -1
`

func assemble(t *testing.T) ([]machine.Word, *assembler.SymTable) {
	t.Helper()

	symtable := assembler.NewSymTable()
	program, errs := assembler.AssembleSource(strings.NewReader(source), symtable)
	require.Empty(t, errs)

	return program, symtable
}

func TestBreakpoint(t *testing.T) {
	program, _ := assemble(t)

	mc, err := machine.New(program)
	require.NoError(t, err)

	var hits []machine.Word
	var dbg debugger.Debugger
	dbg.HandleBreak = func(dbg *debugger.Debugger, mc *machine.Machine) {
		hits = append(hits, mc.State.Program)
	}
	mc.Debugger = &dbg

	assert.True(t, dbg.AddBreakpoint(6))
	assert.False(t, dbg.AddBreakpoint(6))
	assert.True(t, dbg.AddBreakpoint(8))

	_, err = mc.Run()
	require.NoError(t, err)
	require.NoError(t, mc.SupplyInput(3))

	result, err := mc.Run()
	require.NoError(t, err)
	assert.Equal(t, machine.Word(0), result.Value)

	_, err = mc.Run()
	require.NoError(t, err)

	assert.Equal(t, []machine.Word{6, 8}, hits)

	assert.True(t, dbg.RemoveBreakpoint(0))
	assert.False(t, dbg.RemoveBreakpoint(3))
	assert.Equal(t, []debugger.Breakpoint{{8}}, dbg.Breakpoints)
}

func TestSingleStep(t *testing.T) {
	program, _ := assemble(t)

	mc, err := machine.New(program)
	require.NoError(t, err)

	breaks := 0
	dbg := debugger.Debugger{Break: true}
	dbg.HandleBreak = func(dbg *debugger.Debugger, mc *machine.Machine) {
		breaks++
	}
	mc.Debugger = &dbg

	_, err = mc.Run()
	require.NoError(t, err)
	require.NoError(t, mc.SupplyInput(8))

	_, err = mc.Run()
	require.NoError(t, err)

	// IN, EQ and OUT each begin with a break; resuming IN does not.
	assert.Equal(t, 3, breaks)
}

func TestWatchpoint(t *testing.T) {
	program, symtable := assemble(t)
	value, ok := symtable.Lookup("value")
	require.True(t, ok)

	mc, err := machine.New(program)
	require.NoError(t, err)

	var reads, writes int
	var dbg debugger.Debugger
	dbg.HandleRead = func(addr machine.Word, dbg *debugger.Debugger, mc *machine.Machine) {
		assert.Equal(t, value, addr)
		reads++
	}
	dbg.HandleWrite = func(addr machine.Word, dbg *debugger.Debugger, mc *machine.Machine) {
		assert.Equal(t, value, addr)
		writes++
	}
	mc.Debugger = &dbg

	assert.True(t, dbg.AddWatchpoint(value, debugger.ReadWriteWatch))
	assert.False(t, dbg.AddWatchpoint(value, debugger.ReadWriteWatch))

	_, err = mc.Run()
	require.NoError(t, err)
	require.NoError(t, mc.SupplyInput(8))

	result, err := mc.Run()
	require.NoError(t, err)
	assert.Equal(t, machine.Word(1), result.Value)

	// Writes by IN and EQ, reads by EQ and OUT.
	assert.Equal(t, 2, writes)
	assert.Equal(t, 2, reads)

	assert.True(t, dbg.RemoveWatchpoint(0))
	assert.Empty(t, dbg.Watchpoints)
}

func TestWriteOnlyWatchpoint(t *testing.T) {
	mc, err := machine.New([]machine.Word{1101, 1, 2, 7, 4, 7, 99, 0})
	require.NoError(t, err)

	var reads, writes int
	dbg := debugger.Debugger{
		HandleRead: func(machine.Word, *debugger.Debugger, *machine.Machine) {
			reads++
		},
		HandleWrite: func(machine.Word, *debugger.Debugger, *machine.Machine) {
			writes++
		},
	}
	dbg.AddWatchpoint(7, debugger.WriteWatch)
	mc.Debugger = &dbg

	_, err = mc.Run()
	require.NoError(t, err)

	assert.Equal(t, 0, reads)
	assert.Equal(t, 1, writes)
}

func TestPrintMem(t *testing.T) {
	mc, err := machine.Load([]machine.Word{1, 0, 2, 3, 99}, 6)
	require.NoError(t, err)

	var out bytes.Buffer
	dbg := debugger.Debugger{Output: &out}
	dbg.PrintMem(mc, 2, 6)

	text := out.String()
	assert.Contains(t, text, "[0x02]")
	assert.Contains(t, text, "[0x06]")
	assert.Contains(t, text, "99 ")
	assert.Contains(t, text, "????")
	assert.Equal(t, 2, strings.Count(text, "\n"))
}

func TestPrintListing(t *testing.T) {
	program, symtable := assemble(t)

	mc, err := machine.New(program)
	require.NoError(t, err)

	var out bytes.Buffer
	dbg := debugger.Debugger{Output: &out, SymTable: symtable}
	dbg.PrintListing(mc, 0, 4)

	text := out.String()
	assert.Contains(t, text, "start:\n")
	assert.Contains(t, text, "=> \033[1m[0x00]\033[0m IN value")
	assert.Contains(t, text, "EQ value, #8, value")
	assert.Contains(t, text, "OUT value")
	assert.Contains(t, text, "HLT")

	out.Reset()
	dbg.PrintRegisters(mc)
	assert.Contains(t, out.String(), "running")
}

func TestPrintSource(t *testing.T) {
	_, symtable := assemble(t)

	var out bytes.Buffer
	dbg := debugger.Debugger{Output: &out}

	dbg.PrintSource(0, 2)
	assert.Equal(t, "No source file loaded\n", out.String())

	out.Reset()
	dbg.Source = strings.NewReader(source)
	dbg.PrintSource(0, 2)
	assert.Equal(t, "No symbol table loaded\n", out.String())

	out.Reset()
	dbg.SymTable = symtable
	dbg.PrintSource(2, 2)
	assert.Equal(
		t,
		"\033[1m[0x02]\033[0m         EQ value, #8, value\n"+
			"\033[1m[0x06]\033[0m         OUT value\n",
		out.String(),
	)

	out.Reset()
	dbg.PrintSource(3, 1)
	assert.Equal(t, "No instruction found at 0x03\n", out.String())
}

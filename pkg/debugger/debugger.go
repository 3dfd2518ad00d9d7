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

package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lassandro/gointcode/pkg/assembler"
	"github.com/lassandro/gointcode/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) labels() map[machine.Word]string {
	if dbg.SymTable == nil {
		return nil
	}

	return dbg.SymTable.Labels
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		if dbg.HandleBreak != nil {
			dbg.HandleBreak(dbg, mc)
		}
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			if dbg.HandleBreak != nil {
				dbg.HandleBreak(dbg, mc)
			}
			break
		}
	}
}

func (dbg *Debugger) Read(addr machine.Word, mc *machine.Machine) {
	dbg.watch(addr, ReadWatch, dbg.HandleRead, mc)
}

func (dbg *Debugger) Write(addr machine.Word, mc *machine.Machine) {
	dbg.watch(addr, WriteWatch, dbg.HandleWrite, mc)
}

func (dbg *Debugger) watch(
	addr machine.Word,
	access WatchpointType,
	handler func(machine.Word, *Debugger, *machine.Machine),
	mc *machine.Machine,
) {
	if handler == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type&access == 0 {
			continue
		}

		if addr == watchpoint.Addr {
			handler(addr, dbg, mc)
			break
		}
	}
}

// Adds a breakpoint unless one already exists at addr. Reports whether the
// breakpoint was added.
func (dbg *Debugger) AddBreakpoint(addr machine.Word) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

func (dbg *Debugger) RemoveBreakpoint(i int) bool {
	if i < 0 || i >= len(dbg.Breakpoints) {
		return false
	}

	dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
	dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
	return true
}

func (dbg *Debugger) AddWatchpoint(addr machine.Word, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})
	return true
}

func (dbg *Debugger) RemoveWatchpoint(i int) bool {
	if i < 0 || i >= len(dbg.Watchpoints) {
		return false
	}

	dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
	dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
	return true
}

// Prints count lines of assembly source starting from the statement at addr.
// Requires the source file and a symbol table.
func (dbg *Debugger) PrintSource(addr machine.Word, count int) {
	w := dbg.out()

	if dbg.Source == nil {
		fmt.Fprintln(w, "No source file loaded")
		return
	}

	if dbg.SymTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	offset, exists := dbg.SymTable.Symbols[addr]

	if !exists {
		fmt.Fprintf(w, "No instruction found at %#04x\n", addr)
		return
	}

	if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
		fmt.Fprintln(w, err)
		return
	}

	lineaddrs := make(map[int64]machine.Word, len(dbg.SymTable.Symbols))
	for lineaddr, linebyte := range dbg.SymTable.Symbols {
		lineaddrs[linebyte] = lineaddr
	}

	scanner := bufio.NewScanner(dbg.Source)
	scanner.Split(bufio.ScanLines)

	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		if lineaddr, found := lineaddrs[offset]; found {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", lineaddr)
		} else {
			fmt.Fprint(w, "\033[1;30m~~~~~~\033[0m ")
		}

		fmt.Fprintln(w, line)

		offset += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(w, err)
	}
}

// Prints count disassembled instructions starting at addr, marking the one
// the program counter points at.
func (dbg *Debugger) PrintListing(mc *machine.Machine, addr machine.Word, count int) {
	w := dbg.out()
	labels := dbg.labels()

	for i := 0; i < count; i++ {
		line := assembler.Disassemble(mc.State.Memory, addr, labels)

		if len(line.Words) == 0 {
			break
		}

		marker := "  "
		if addr == mc.State.Program {
			marker = "=>"
		}

		if label, exists := labels[addr]; exists {
			fmt.Fprintf(w, "%s:\n", label)
		}

		fmt.Fprintf(w, "%s \033[1m[%#04x]\033[0m %s\n", marker, addr, line.Text)

		addr += machine.Word(len(line.Words))
	}
}

func (dbg *Debugger) PrintMem(mc *machine.Machine, addr machine.Word, count int) {
	w := dbg.out()

	for i := addr; i < addr+machine.Word(count); i++ {
		if i == addr {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", i)
		} else if (i-addr)%4 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", i)
		}

		result, err := mc.State.Memory.Read(i)

		if err != nil {
			fmt.Fprint(w, "\033[31m????\033[0m ")
		} else if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%d\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%d ", result)
		}
	}

	fmt.Fprintln(w)
}

// Prints the machine registers.
func (dbg *Debugger) PrintRegisters(mc *machine.Machine) {
	fmt.Fprintf(
		dbg.out(),
		"\033[1mIP:\033[0m %#04x\t\033[1mRB:\033[0m %d\t\033[1mST:\033[0m %s\t\033[1mOUT:\033[0m %d\n",
		mc.State.Program,
		mc.State.RelBase,
		mc.Status(),
		mc.Output(),
	)
}

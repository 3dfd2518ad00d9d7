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

package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lassandro/gointcode/pkg/debugger"
	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

type debugSession struct {
	mc     *machine.Machine
	dbg    *debugger.Debugger
	reader lineReader
	out    *bufio.Writer
	source *os.File

	lastcmd []string
	quit    bool
}

func newDebugSession(
	mc *machine.Machine,
	reader lineReader,
	out *bufio.Writer,
	path string,
) *debugSession {
	session := &debugSession{
		mc:     mc,
		dbg:    &debugger.Debugger{},
		reader: reader,
		out:    out,
	}

	session.dbg.HandleBreak = session.handleBreak
	session.dbg.HandleRead = session.handleRead
	session.dbg.HandleWrite = session.handleWrite
	mc.Debugger = session.dbg

	symtable, err := loadSymTable(replaceExt(path, symbolExt))

	if err != nil {
		slog.Warn("Error loading symbol file", "err", err)
		return session
	}

	session.dbg.SymTable = symtable

	if symtable.Source != "" {
		if file, err := os.Open(symtable.Source); err == nil {
			session.source = file
			session.dbg.Source = file
		} else {
			slog.Warn("Error loading source file", "err", err)
		}
	}

	return session
}

func (s *debugSession) Close() error {
	if s.source != nil {
		return s.source.Close()
	}

	return nil
}

// Resolves a debugger address argument, either a label or a numeric literal.
func (s *debugSession) address(arg string) (machine.Word, error) {
	if s.dbg.SymTable != nil {
		if addr, found := s.dbg.SymTable.Lookup(arg); found {
			return addr, nil
		}
	}

	return encoding.DecodeWord(arg)
}

func (s *debugSession) label(addr machine.Word) string {
	if s.dbg.SymTable == nil {
		return ""
	}

	return s.dbg.SymTable.Labels[addr]
}

func indexFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %s\n", int64(digits)+1, suffix)
}

func (s *debugSession) debugBreak(args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr|label]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		addr, err := s.address(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		if s.dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%#04x]\n", addr)
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(s.dbg.Breakpoints), "%#04x %s")

		for i, breakpoint := range s.dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr, s.label(breakpoint.Addr))
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		if !s.dbg.RemoveBreakpoint(i) {
			fmt.Println("Invalid breakpoint number")
			return
		}

		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		s.dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		fmt.Printf("break: '%s' is not a valid command\n", cmd)
		fmt.Println(usage)
	}
}

func watchTypeName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	case debugger.ReadWriteWatch:
		return "readwrite"
	}

	return "?"
}

func (s *debugSession) debugWatch(args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [addr|label] [read|write|readwrite]"

		if len(args) != 2 {
			fmt.Println(usage)
			return
		}

		addr, err := s.address(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			fmt.Println(usage)
			return
		}

		if s.dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%#04x] (%s)\n", addr, watchTypeName(wtype))
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(s.dbg.Watchpoints), "%#04x %s")

		for i, watchpoint := range s.dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchTypeName(watchpoint.Type))
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		if !s.dbg.RemoveWatchpoint(i) {
			fmt.Println("Invalid watchpoint number")
			return
		}

		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		s.dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		fmt.Printf("watch: '%s' is not a valid command\n", cmd)
		fmt.Println(usage)
	}
}

func (s *debugSession) debugReg(args []string) {
	const usage = "register [IP|RB] [value]"

	if len(args) == 0 {
		s.dbg.PrintRegisters(s.mc)
		return
	}

	if len(args) != 2 {
		fmt.Println(usage)
		return
	}

	value, err := s.address(args[1])

	if err != nil {
		fmt.Println(err)
		return
	}

	name := strings.ToUpper(args[0])

	switch name {
	case "IP", "PC":
		s.mc.State.Program = value
	case "RB":
		s.mc.State.RelBase = value
	default:
		fmt.Println("Invalid register")
		return
	}

	fmt.Printf("\033[1m%s:\033[0m %#04x\n", name, value)
}

// Parses the optional [addr] [count] arguments shared by the inspection
// commands. A lone decimal number is a count from the current IP.
func (s *debugSession) span(args []string, count int) (machine.Word, int, bool) {
	addr := s.mc.State.Program

	switch len(args) {
	case 0:
		return addr, count, true

	case 1:
		if value, err := strconv.Atoi(args[0]); err == nil {
			return addr, value, true
		}

		value, err := s.address(args[0])

		if err != nil {
			fmt.Println(err)
			return 0, 0, false
		}

		return value, count, true

	case 2:
		value, err := s.address(args[0])

		if err != nil {
			fmt.Println(err)
			return 0, 0, false
		}

		n, err := strconv.Atoi(args[1])

		if err != nil {
			fmt.Println(err)
			return 0, 0, false
		}

		return value, n, true
	}

	return 0, 0, false
}

func (s *debugSession) debugMemory(args []string) {
	addr, count, ok := s.span(args, 1)

	if !ok {
		fmt.Println("memory [addr|label] [#]")
		return
	}

	s.dbg.PrintMem(s.mc, addr, count)
}

func (s *debugSession) debugList(args []string) {
	addr, count, ok := s.span(args, 8)

	if !ok {
		fmt.Println("list [addr|label] [#]")
		return
	}

	s.dbg.PrintListing(s.mc, addr, count)
}

func (s *debugSession) debugSource(args []string) {
	addr, count, ok := s.span(args, 3)

	if !ok {
		fmt.Println("source [addr|label] [#]")
		return
	}

	s.dbg.PrintSource(addr, count)
}

func (s *debugSession) debugSet(args []string) {
	const usage = "set [addr|label] [value]"

	if len(args) != 2 {
		fmt.Println(usage)
		return
	}

	addr, err := s.address(args[0])

	if err != nil {
		fmt.Println(err)
		return
	}

	value, err := encoding.DecodeWord(args[1])

	if err != nil {
		fmt.Println(err)
		return
	}

	if err := s.mc.State.Memory.Write(addr, value); err != nil {
		fmt.Println(err)
		return
	}

	s.dbg.PrintMem(s.mc, addr, 1)
}

func (s *debugSession) debugLabels(args []string) {
	if len(args) > 0 {
		fmt.Println("labels")
		return
	}

	if s.dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	addrs := s.dbg.SymTable.Addrs

	if len(addrs) == 0 {
		addrs = make(map[string]machine.Word, len(s.dbg.SymTable.Labels))
		for addr, label := range s.dbg.SymTable.Labels {
			addrs[label] = addr
		}
	}

	names := make([]string, 0, len(addrs))
	for name := range addrs {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if addrs[names[i]] != addrs[names[j]] {
			return addrs[names[i]] < addrs[names[j]]
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		fmt.Printf("\033[1m[%#04x]\033[0m %s\n", addrs[name], name)
	}
}

func (s *debugSession) debugJump(args []string) {
	if len(args) != 1 {
		fmt.Println("jump [addr|label]")
		return
	}

	addr, err := s.address(args[0])

	if err != nil {
		fmt.Printf("Unable to find '%s'\n", args[0])
		return
	}

	s.mc.State.Program = addr

	if label := s.label(addr); label != "" {
		fmt.Printf("\033[1mIP:\033[0m %#04x \033[1;30m(%s)\033[0m\n", addr, label)
	} else {
		fmt.Printf("\033[1mIP:\033[0m %#04x\n", addr)
	}
}

func (s *debugSession) repl() {
	s.out.Flush()

	for {
		line, err := s.reader.ReadLine("\033[1;30m(dbg)\033[0m ")

		if err == io.EOF {
			fmt.Println()
			s.quit = true
			return
		} else if err != nil {
			fmt.Println(err)
			s.quit = true
			return
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(s.lastcmd) == 0 {
				continue
			}
			args = s.lastcmd
		} else {
			s.lastcmd = args
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			s.debugBreak(args)

		case "w", "wp", "watch", "watchpoint":
			s.debugWatch(args)

		case "r", "reg", "register", "registers":
			s.debugReg(args)

		case "s", "src", "source":
			s.debugSource(args)

		case "d", "dis", "disasm", "list":
			s.debugList(args)

		case "l", "label", "labels":
			s.debugLabels(args)

		case "j", "jmp", "jump":
			s.debugJump(args)

		case "m", "mem", "memory":
			s.debugMemory(args)

		case "set":
			s.debugSet(args)

		case "c", "continue":
			s.dbg.Break = false
			return

		case "n", "next":
			s.dbg.Break = true
			return

		case "q", "quit", "exit":
			s.quit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			s.mc.Reset()
			fmt.Println("Machine reset")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func (s *debugSession) handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	s.out.Flush()

	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintListing(mc, mc.State.Program, 8)
	} else {
		dbg.PrintListing(mc, mc.State.Program, 1)
	}

	s.repl()
}

func (s *debugSession) handleRead(addr machine.Word, dbg *debugger.Debugger, mc *machine.Machine) {
	s.out.Flush()
	fmt.Println()
	fmt.Printf("Program stopped reading [%#04x]\n", addr)
	dbg.PrintMem(mc, addr, 1)
	s.repl()
}

func (s *debugSession) handleWrite(addr machine.Word, dbg *debugger.Debugger, mc *machine.Machine) {
	s.out.Flush()
	fmt.Println()
	fmt.Printf("Program stopped writing [%#04x]\n", addr)
	dbg.PrintMem(mc, addr, 1)
	s.repl()
}

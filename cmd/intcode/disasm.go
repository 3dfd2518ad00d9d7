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
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lassandro/gointcode/pkg/assembler"
	"github.com/lassandro/gointcode/pkg/machine"
)

func newDisasmCmd() *cobra.Command {
	var words bool

	cmd := &cobra.Command{
		Use:   "disasm FILE",
		Short: "Print an assembly listing of a program image",
		Long: "Disassembles a program image. Labels are taken from the symbol " +
			"table next to FILE when one exists.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disassemble(args[0], words)
		},
	}

	cmd.Flags().BoolVar(
		&words, "words", false,
		"Show the raw words of every instruction",
	)

	return cmd
}

func disassemble(path string, words bool) error {
	program, err := loadProgram(path)

	if err != nil {
		return err
	}

	var labels map[machine.Word]string

	if symtable, err := loadSymTable(replaceExt(path, symbolExt)); err == nil {
		labels = symtable.Labels
	} else {
		slog.Debug("no symbol table", "err", err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for _, line := range assembler.DisassembleAll(program, labels) {
		if label, exists := labels[line.Addr]; exists {
			fmt.Fprintf(out, "%s:\n", label)
		}

		if !words {
			fmt.Fprintf(out, "%6d  %s\n", line.Addr, line.Text)
			continue
		}

		raw := make([]string, len(line.Words))
		for i, word := range line.Words {
			raw[i] = fmt.Sprint(word)
		}

		fmt.Fprintf(out, "%6d  %-24s %s\n", line.Addr, strings.Join(raw, ","), line.Text)
	}

	return nil
}

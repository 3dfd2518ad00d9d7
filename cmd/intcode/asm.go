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
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lassandro/gointcode/pkg/assembler"
	"github.com/lassandro/gointcode/pkg/encoding"
)

type asmOptions struct {
	out   string
	debug bool
}

func newAsmCmd() *cobra.Command {
	var opts asmOptions

	cmd := &cobra.Command{
		Use:   "asm [FILE]",
		Short: "Assemble Intcode source into a program image",
		Long: "Assembles FILE, or stdin when no file is given, into a comma " +
			"separated program image.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return assemble(args, opts)
		},
	}

	cmd.Flags().StringVarP(
		&opts.out, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	cmd.Flags().BoolVar(
		&opts.debug, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'"+symbolExt+"'",
	)

	return cmd
}

func assemble(args []string, opts asmOptions) error {
	var infile string
	var source []byte
	var err error

	if len(args) == 0 {
		infile = "<stdin>"
		source, err = io.ReadAll(os.Stdin)

		if opts.out == "" {
			opts.out = "out" + programExt
		}
	} else {
		infile = args[0]
		source, err = os.ReadFile(infile)

		if opts.out == "" {
			opts.out = replaceExt(filepath.Base(infile), programExt)
		}
	}

	if err != nil {
		return err
	}

	var symtable *assembler.SymTable

	if opts.debug {
		symtable = assembler.NewSymTable()

		if len(args) > 0 {
			if symtable.Source, err = filepath.Abs(infile); err != nil {
				slog.Warn("source path unavailable", "err", err)
				symtable.Source = ""
			}
		}
	}

	result, errs := assembler.AssembleSource(bytes.NewReader(source), symtable)

	if len(errs) > 0 {
		for _, err := range errs {
			printAsmError(os.Stderr, filepath.Base(infile), source, err)
		}

		return errors.Errorf("%s: %d errors", filepath.Base(infile), len(errs))
	}

	output := encoding.FormatProgram(result) + "\n"

	if err := os.WriteFile(opts.out, []byte(output), 0666); err != nil {
		return errors.Wrap(err, "writing output file")
	}

	slog.Info("assembled", "file", infile, "out", opts.out, "words", len(result))

	if symtable != nil {
		path := replaceExt(opts.out, symbolExt)

		if err := saveSymTable(path, symtable); err != nil {
			return err
		}

		slog.Debug("symbol table written", "file", path, "labels", len(symtable.Labels))
	}

	return nil
}

// Prints an assembler error, underlining the offending token in its source
// line when the error carries a position.
func printAsmError(w io.Writer, name string, source []byte, err error) {
	tokenErr, ok := err.(assembler.TokenError)

	if !ok {
		fmt.Fprintf(w, "\033[1m%s:\033[0m %s\n", name, err)
		return
	}

	cursor := tokenErr.GetPosition()

	if cursor.LineByte < 0 || cursor.LineByte > int64(len(source)) {
		fmt.Fprintf(w, "\033[1m%s:\033[0m %s\n", name, err)
		return
	}

	line := source[cursor.LineByte:]

	if end := bytes.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}

	underline := strings.Repeat(" ", int(cursor.Byte-cursor.LineByte)) + "^"

	if cursor.Size > 1 {
		underline += strings.Repeat("~", int(cursor.Size)-1)
	}

	fmt.Fprintf(
		w,
		"\033[1m%s:\033[0m %s\n%s\n\033[31m%s\033[0m\n",
		name,
		err,
		strings.TrimRight(string(line), "\r"),
		underline,
	)
}

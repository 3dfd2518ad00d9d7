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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/host"
	"github.com/lassandro/gointcode/pkg/machine"
)

type runOptions struct {
	inputs string
	ascii  bool
	memory int
	debug  bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program, reading input from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(args[0], opts)
		},
	}

	cmd.Flags().StringVar(
		&opts.inputs, "input", "",
		"Comma separated values supplied before reading from stdin",
	)
	cmd.Flags().BoolVar(
		&opts.ascii, "ascii", false,
		"Exchange text with the program, one word per character",
	)
	cmd.Flags().IntVar(
		&opts.memory, "memory", machine.DEFAULT_CAPACITY,
		"Number of addressable words",
	)
	cmd.Flags().BoolVar(
		&opts.debug, "debug", false,
		"Runs the machine in a debug CLI",
	)

	return cmd
}

type runner struct {
	mc      *machine.Machine
	queue   *host.Queue
	reader  lineReader
	out     *bufio.Writer
	ascii   bool
	session *debugSession

	interrupt chan os.Signal
}

func runProgram(path string, opts runOptions) error {
	program, err := loadProgram(path)

	if err != nil {
		return err
	}

	mc, err := machine.Load(program, opts.memory)

	if err != nil {
		return errors.Wrap(err, "loading program")
	}

	initial, err := parseWords(opts.inputs)

	if err != nil {
		return errors.Wrap(err, "--input")
	}

	reader, err := newLineReader()

	if err != nil {
		return err
	}

	defer reader.Close()

	r := &runner{
		mc:     mc,
		queue:  host.NewQueue(initial...),
		reader: reader,
		out:    bufio.NewWriter(os.Stdout),
		ascii:  opts.ascii,
	}

	defer r.out.Flush()

	slog.Debug("program loaded", "file", path, "words", len(program), "memory", opts.memory)

	if opts.debug {
		r.session = newDebugSession(mc, reader, r.out, path)
		defer r.session.Close()

		r.interrupt = make(chan os.Signal, 1)
		signal.Notify(r.interrupt, os.Interrupt)
		defer signal.Stop(r.interrupt)

		r.session.repl()
	}

	return r.loop()
}

func (r *runner) advance() (machine.Result, error) {
	if r.session != nil {
		return r.mc.Step()
	}

	return r.mc.Run()
}

func (r *runner) loop() error {
	for {
		if r.session != nil {
			if r.session.quit {
				return nil
			}

			select {
			case <-r.interrupt:
				fmt.Println()
				r.session.dbg.Break = true
			default:
			}
		}

		result, err := r.advance()

		// Quitting from a breakpoint or watchpoint still completes the
		// instruction it interrupted; its output is dropped.
		if r.session != nil && r.session.quit {
			return nil
		}

		if err != nil {
			slog.Error(
				"machine faulted",
				"err", err, "ip", r.mc.State.Program, "steps", r.mc.Steps(),
			)
			return err
		}

		switch result.Status {
		case machine.STATUS_HALTED:
			slog.Info("machine halted", "steps", r.mc.Steps())
			return nil

		case machine.STATUS_OUTPUT:
			slog.Log(context.Background(), levelTrace, "output", "value", result.Value)
			r.emit(result.Value)

		case machine.STATUS_NEEDS_INPUT:
			slog.Debug("machine awaiting input", "ip", r.mc.State.Program)

			value, err := r.next()

			if err != nil {
				return err
			}

			if err := r.mc.SupplyInput(value); err != nil {
				return err
			}
		}
	}
}

func (r *runner) emit(value machine.Word) {
	if r.ascii && encoding.IsASCII(value) {
		r.out.WriteByte(byte(value))

		if value == '\n' {
			r.out.Flush()
		}
	} else {
		fmt.Fprintln(r.out, value)
		r.out.Flush()
	}
}

// Pops the next queued input, reading more from the terminal when the queue
// is empty.
func (r *runner) next() (machine.Word, error) {
	for r.queue.Len() == 0 {
		r.out.Flush()

		prompt := "? "
		if r.ascii {
			prompt = ""
		}

		line, err := r.reader.ReadLine(prompt)

		if err == io.EOF {
			return 0, errors.New("input closed while the program was waiting for input")
		} else if err != nil {
			return 0, err
		}

		if r.ascii {
			r.queue.Push(encoding.EncodeASCII(line + "\n")...)
			continue
		}

		values, err := parseWords(line)

		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		r.queue.Push(values...)
	}

	value, _ := r.queue.Pop()
	return value, nil
}

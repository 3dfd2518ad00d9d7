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
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lassandro/gointcode/pkg/host"
	"github.com/lassandro/gointcode/pkg/machine"
)

type amplifyOptions struct {
	phases   string
	signal   int64
	feedback bool
	search   bool
}

func newAmplifyCmd() *cobra.Command {
	var opts amplifyOptions

	cmd := &cobra.Command{
		Use:   "amplify FILE",
		Short: "Run a program as a chain of amplifiers",
		Long: "Runs one machine per phase setting, passing each machine's " +
			"output to the next. With --feedback the last machine feeds the " +
			"first until every machine halts. With --search every ordering " +
			"of the phases is tried and the largest signal is reported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loadProgram(args[0])

			if err != nil {
				return err
			}

			phases, err := parseWords(opts.phases)

			if err != nil {
				return errors.Wrap(err, "--phases")
			}

			if len(phases) == 0 {
				return errors.New("--phases: at least one phase is required")
			}

			if opts.search {
				if opts.signal != 0 {
					slog.Warn("--signal is ignored by --search")
				}

				best, order, err := host.MaxSignal(cmd.Context(), program, phases, opts.feedback)

				if err != nil {
					return err
				}

				fmt.Printf("%d %v\n", best, order)
				return nil
			}

			pipeline, err := host.NewPipeline(program, phases, opts.feedback)

			if err != nil {
				return err
			}

			result, err := pipeline.Run(machine.Word(opts.signal))

			if err != nil {
				return err
			}

			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVar(
		&opts.phases, "phases", "0,1,2,3,4",
		"Comma separated phase setting of each amplifier",
	)
	cmd.Flags().Int64Var(
		&opts.signal, "signal", 0,
		"Input signal of the first amplifier",
	)
	cmd.Flags().BoolVar(
		&opts.feedback, "feedback", false,
		"Connect the last amplifier's output back to the first",
	)
	cmd.Flags().BoolVar(
		&opts.search, "search", false,
		"Try every ordering of the phases and report the strongest signal",
	)

	return cmd
}

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
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "intcode",
		Short: "Run, assemble and debug Intcode programs",
		Long: `intcode loads comma separated Intcode programs into a virtual machine
and drives them from the terminal. It also assembles mnemonic source into
program images and disassembles images back into source.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(logLevel)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "warn",
		"Log verbosity (trace, debug, info, warn, error)",
	)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAsmCmd())
	rootCmd.AddCommand(newDisasmCmd())
	rootCmd.AddCommand(newAmplifyCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type editorReader struct {
	rl *readline.Instance
}

func (r *editorReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()

	if err == readline.ErrInterrupt {
		return "", io.EOF
	}

	return line, err
}

func (r *editorReader) Close() error {
	return r.rl.Close()
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) ReadLine(prompt string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.scanner.Text(), nil
}

func (r *scanReader) Close() error {
	return nil
}

func historyFile() string {
	dir, err := os.UserCacheDir()

	if err != nil {
		return ""
	}

	return filepath.Join(dir, "intcode_history")
}

// Line editing with history when stdin is a terminal, plain line scanning
// otherwise.
func newLineReader() (lineReader, error) {
	if !isTerminal(os.Stdin) {
		return &scanReader{bufio.NewScanner(os.Stdin)}, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "? ",
		HistoryFile: historyFile(),
	})

	if err != nil {
		return nil, err
	}

	return &editorReader{rl}, nil
}

// Splits a line of integers separated by commas or whitespace.
func parseWords(line string) ([]machine.Word, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	result := make([]machine.Word, 0, len(fields))

	for _, field := range fields {
		value, err := encoding.DecodeWord(field)

		if err != nil {
			return nil, err
		}

		result = append(result, value)
	}

	return result, nil
}

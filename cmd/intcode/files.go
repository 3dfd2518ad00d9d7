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
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/lassandro/gointcode/pkg/assembler"
	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

const (
	programExt = ".ic"
	symbolExt  = ".icdb"
)

func loadProgram(path string) ([]machine.Word, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	program, err := encoding.ParseProgram(file)

	if err != nil {
		return nil, errors.Wrap(err, filepath.Base(path))
	}

	return program, nil
}

// Swaps the extension of path, appending ext when there is none.
func replaceExt(path string, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func loadSymTable(path string) (*assembler.SymTable, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	symtable := assembler.NewSymTable()

	if err := gob.NewDecoder(file).Decode(symtable); err != nil {
		return nil, errors.Wrap(err, "decoding symbol table")
	}

	return symtable, nil
}

func saveSymTable(path string, symtable *assembler.SymTable) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)

	if err != nil {
		return errors.Wrap(err, "creating symbol table")
	}

	if err := gob.NewEncoder(file).Encode(symtable); err != nil {
		file.Close()
		return errors.Wrap(err, "writing symbol table")
	}

	return file.Close()
}

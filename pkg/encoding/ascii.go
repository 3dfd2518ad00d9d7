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

package encoding

import (
	"strings"

	"github.com/lassandro/gointcode/pkg/machine"
)

// Encodes text as one word per byte for programs that speak ASCII.
func EncodeASCII(s string) []machine.Word {
	result := make([]machine.Word, len(s))

	for i := 0; i < len(s); i++ {
		result[i] = machine.Word(s[i])
	}

	return result
}

// Decodes ASCII output. Words outside the ASCII range are returned separately
// in the order they were produced.
func DecodeASCII(words []machine.Word) (string, []machine.Word) {
	var builder strings.Builder
	var rest []machine.Word

	for _, value := range words {
		if IsASCII(value) {
			builder.WriteByte(byte(value))
		} else {
			rest = append(rest, value)
		}
	}

	return builder.String(), rest
}

func IsASCII(value machine.Word) bool {
	return value >= 0 && value <= 127
}

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
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lassandro/gointcode/pkg/machine"
)

// Decodes a program image: base-10 words separated by commas. Whitespace and
// line breaks around words are ignored, as is a single trailing comma.
func ParseProgram(reader io.Reader) ([]machine.Word, error) {
	data, err := io.ReadAll(reader)

	if err != nil {
		return nil, errors.Wrap(err, "reading program")
	}

	text := strings.TrimSpace(string(data))
	text = strings.TrimSuffix(text, ",")

	if text == "" {
		return []machine.Word{}, nil
	}

	fields := strings.Split(text, ",")
	result := make([]machine.Word, len(fields))

	for i, field := range fields {
		field = strings.TrimSpace(field)

		if field == "" {
			return nil, errors.Errorf("word %d: empty value", i)
		}

		value, err := strconv.ParseInt(field, 10, 64)

		if err != nil {
			return nil, errors.Wrapf(err, "word %d", i)
		}

		result[i] = value
	}

	return result, nil
}

func ParseProgramString(s string) ([]machine.Word, error) {
	return ParseProgram(strings.NewReader(s))
}

// Encodes a program image in the format read by ParseProgram.
func FormatProgram(program []machine.Word) string {
	var builder strings.Builder

	for i, value := range program {
		if i > 0 {
			builder.WriteByte(',')
		}

		builder.WriteString(strconv.FormatInt(value, 10))
	}

	return builder.String()
}

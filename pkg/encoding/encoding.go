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
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lassandro/gointcode/pkg/machine"
)

// Decodes a hexidecimal string in the formats: 0x1F, x1F, -0x1F
func DecodeHex(s string) (machine.Word, error) {
	negative := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")

	if i := strings.IndexAny(digits, "xX"); i == 0 {
		digits = digits[1:]
	} else if i == 1 && digits[0] == '0' {
		digits = digits[2:]
	} else {
		return 0, errors.Errorf("invalid hex string %q", s)
	}

	result, err := strconv.ParseInt(digits, 16, 64)

	if err != nil {
		return 0, errors.Wrapf(err, "invalid hex string %q", s)
	}

	if negative {
		result = -result
	}

	return result, nil
}

// Decodes a base-10 string in the formats: #123, 123, -123
func DecodeInt(s string) (machine.Word, error) {
	s = strings.TrimPrefix(s, "#")

	result, err := strconv.ParseInt(s, 10, 64)

	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer %q", s)
	}

	return result, nil
}

// Decodes either a hex or a base-10 literal.
func DecodeWord(s string) (machine.Word, error) {
	if strings.ContainsAny(s, "xX") {
		return DecodeHex(s)
	}

	return DecodeInt(s)
}

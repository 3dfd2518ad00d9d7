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

package machine

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrAddressOutOfRange    = &Fault{Kind: FAULT_ADDRESS_OUT_OF_RANGE}
	ErrInvalidOpcode        = &Fault{Kind: FAULT_INVALID_OPCODE}
	ErrInvalidParameterMode = &Fault{Kind: FAULT_INVALID_PARAMETER_MODE}
	ErrInvalidWriteMode     = &Fault{Kind: FAULT_INVALID_WRITE_MODE}
	ErrAlreadyHalted        = &Fault{Kind: FAULT_ALREADY_HALTED}
	ErrNumericOverflow      = &Fault{Kind: FAULT_NUMERIC_OVERFLOW}
)

// ErrUnexpectedInput is returned by SupplyInput when the machine is not
// suspended on an IN instruction. It does not fault the machine.
var ErrUnexpectedInput = errors.New("machine is not awaiting input")

func (kind FaultKind) String() string {
	switch kind {
	case FAULT_NONE:
		return "None"
	case FAULT_ADDRESS_OUT_OF_RANGE:
		return "AddressOutOfRange"
	case FAULT_INVALID_OPCODE:
		return "InvalidOpcode"
	case FAULT_INVALID_PARAMETER_MODE:
		return "InvalidParameterMode"
	case FAULT_INVALID_WRITE_MODE:
		return "InvalidWriteMode"
	case FAULT_ALREADY_HALTED:
		return "AlreadyHalted"
	case FAULT_NUMERIC_OVERFLOW:
		return "NumericOverflow"
	default:
		return fmt.Sprintf("FaultKind(%d)", uint8(kind))
	}
}

// Fault is a condition that ends execution of a machine. Program is the
// address of the instruction being executed when it was raised and Value
// carries the offending address, opcode or mode.
type Fault struct {
	Kind    FaultKind
	Program Word
	Value   Word
}

func (err *Fault) Error() string {
	switch err.Kind {
	case FAULT_ADDRESS_OUT_OF_RANGE:
		return fmt.Sprintf(
			"%#04x: %s: address %d", err.Program, err.Kind, err.Value,
		)
	case FAULT_INVALID_OPCODE:
		return fmt.Sprintf(
			"%#04x: %s: opcode %d", err.Program, err.Kind, err.Value,
		)
	case FAULT_INVALID_PARAMETER_MODE, FAULT_INVALID_WRITE_MODE:
		return fmt.Sprintf(
			"%#04x: %s: mode %d", err.Program, err.Kind, err.Value,
		)
	default:
		return fmt.Sprintf("%#04x: %s", err.Program, err.Kind)
	}
}

// Is matches any fault of the same kind, so callers can test against the
// package level sentinels with errors.Is.
func (err *Fault) Is(target error) bool {
	other, ok := target.(*Fault)
	return ok && other.Kind == err.Kind
}

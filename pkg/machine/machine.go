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
	"math"
)

// Load creates a machine with the program image copied to address 0. A
// capacity of zero selects DEFAULT_CAPACITY.
func Load(program []Word, capacity int) (*Machine, error) {
	if capacity <= 0 {
		capacity = DEFAULT_CAPACITY
	}

	if len(program) > capacity {
		return nil, &Fault{
			Kind:  FAULT_ADDRESS_OUT_OF_RANGE,
			Value: Word(len(program) - 1),
		}
	}

	mc := &Machine{
		image: make([]Word, len(program)),
	}

	copy(mc.image, program)
	mc.State.Memory = NewMemory(capacity)
	mc.Reset()

	return mc, nil
}

func New(program []Word) (*Machine, error) {
	return Load(program, DEFAULT_CAPACITY)
}

// Reset restores the loaded program image and clears every register.
func (mc *Machine) Reset() {
	for i := range mc.State.Memory {
		mc.State.Memory[i] = 0
	}

	copy(mc.State.Memory, mc.image)

	mc.State.Program = 0
	mc.State.RelBase = 0
	mc.status = STATUS_RUNNING
	mc.fault = nil
	mc.steps = 0
	mc.input = 0
	mc.hasInput = false
	mc.output = 0
	mc.pending = nil
}

// Clone returns an independent copy of the machine, including any suspended
// instruction. The debugger is not carried over.
func (mc *Machine) Clone() *Machine {
	clone := *mc
	clone.Debugger = nil
	clone.State.Memory = make(Memory, len(mc.State.Memory))
	copy(clone.State.Memory, mc.State.Memory)

	if mc.pending != nil {
		pending := *mc.pending
		clone.pending = &pending
	}

	return &clone
}

func (mc *Machine) Status() Status {
	return mc.status
}

// Output returns the value produced by the most recent OUT instruction.
func (mc *Machine) Output() Word {
	return mc.output
}

// Fault returns the fault that stopped the machine, if any.
func (mc *Machine) Fault() *Fault {
	return mc.fault
}

// Steps returns the number of instructions completed since the last reset.
func (mc *Machine) Steps() uint64 {
	return mc.steps
}

func (mc *Machine) Memory() Memory {
	return mc.State.Memory
}

// SupplyInput hands a value to an IN instruction the machine is suspended
// on. The instruction completes on the next call to Run or Step.
func (mc *Machine) SupplyInput(value Word) error {
	if mc.status != STATUS_NEEDS_INPUT || mc.hasInput {
		return ErrUnexpectedInput
	}

	mc.input = value
	mc.hasInput = true
	return nil
}

// Run executes instructions until the machine needs input, has produced a
// value, halts or faults. At most one output is produced per call.
func (mc *Machine) Run() (Result, error) {
	if err := mc.enter(); err != nil {
		return Result{Status: STATUS_FAULTED}, err
	}

	for {
		result, err := mc.step()

		if err != nil || result.Status != STATUS_RUNNING {
			return result, err
		}
	}
}

// Step executes a single instruction. A result of STATUS_RUNNING means the
// instruction completed without suspending the machine.
func (mc *Machine) Step() (Result, error) {
	if err := mc.enter(); err != nil {
		return Result{Status: STATUS_FAULTED}, err
	}

	return mc.step()
}

func (mc *Machine) enter() error {
	switch mc.status {
	case STATUS_FAULTED:
		return mc.fault
	case STATUS_HALTED:
		return mc.raise(&Fault{Kind: FAULT_ALREADY_HALTED}, mc.State.Program)
	case STATUS_OUTPUT:
		mc.status = STATUS_RUNNING
	}

	return nil
}

func (mc *Machine) raise(err error, addr Word) error {
	fault, ok := err.(*Fault)

	if !ok {
		fault = &Fault{Kind: FAULT_NONE}
	}

	fault.Program = addr
	mc.fault = fault
	mc.status = STATUS_FAULTED

	return fault
}

func (mc *Machine) read(addr Word) (Word, error) {
	if mc.Debugger != nil && mc.State.Memory.contains(addr) {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory.Read(addr)
}

func (mc *Machine) write(addr Word, value Word) error {
	if err := mc.State.Memory.Write(addr, value); err != nil {
		return err
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}

	return nil
}

func (mc *Machine) resume() (Result, error) {
	if !mc.hasInput {
		return Result{Status: STATUS_NEEDS_INPUT}, nil
	}

	pending := *mc.pending
	mc.pending = nil
	mc.hasInput = false
	mc.status = STATUS_RUNNING

	// The program counter may have been moved by a debugger since the IN
	// suspended, so faults use the recorded address.
	if err := mc.resolveWrite(pending.Dest, mc.input); err != nil {
		return Result{Status: STATUS_FAULTED}, mc.raise(err, pending.Addr)
	}

	mc.steps++
	return Result{Status: STATUS_RUNNING}, nil
}

func (mc *Machine) step() (Result, error) {
	if mc.pending != nil {
		return mc.resume()
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	start := mc.State.Program

	fail := func(err error) (Result, error) {
		return Result{Status: STATUS_FAULTED}, mc.raise(err, start)
	}

	value, err := mc.read(start)
	if err != nil {
		return fail(err)
	}

	ins := Decode(start, value)
	arity, ok := Arity(ins.Opcode)

	if !ok {
		return fail(&Fault{Kind: FAULT_INVALID_OPCODE, Value: ins.Opcode})
	}

	var params [3]Param

	for i := 0; i < arity; i++ {
		raw, err := mc.read(start + 1 + Word(i))
		if err != nil {
			return fail(err)
		}

		params[i] = Param{Mode: ins.Mode(i), Raw: raw}
	}

	mc.State.Program = start + 1 + Word(arity)

	// Operands are resolved in declared order before the (single) store.
	var operands [2]Word
	var inputs int

	switch ins.Opcode {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ, OP_JT, OP_JF:
		inputs = 2
	case OP_OUT, OP_ARB:
		inputs = 1
	}

	for i := 0; i < inputs; i++ {
		operand, err := mc.resolveRead(params[i])
		if err != nil {
			return fail(err)
		}

		operands[i] = operand
	}

	a, b := operands[0], operands[1]

	switch ins.Opcode {
	case OP_ADD:
		sum, ok := addWords(a, b)
		if !ok {
			return fail(&Fault{Kind: FAULT_NUMERIC_OVERFLOW})
		}

		if err := mc.resolveWrite(params[2], sum); err != nil {
			return fail(err)
		}

	case OP_MUL:
		product, ok := mulWords(a, b)
		if !ok {
			return fail(&Fault{Kind: FAULT_NUMERIC_OVERFLOW})
		}

		if err := mc.resolveWrite(params[2], product); err != nil {
			return fail(err)
		}

	case OP_IN:
		if !mc.hasInput {
			if err := checkWrite(params[0]); err != nil {
				return fail(err)
			}

			// Remember where the value goes so resuming does not depend on
			// refetching the instruction.
			mc.pending = &pendingInput{Addr: start, Dest: params[0]}
			mc.status = STATUS_NEEDS_INPUT
			return Result{Status: STATUS_NEEDS_INPUT}, nil
		}

		mc.hasInput = false

		if err := mc.resolveWrite(params[0], mc.input); err != nil {
			return fail(err)
		}

	case OP_OUT:
		mc.output = a
		mc.status = STATUS_OUTPUT
		mc.steps++
		return Result{Status: STATUS_OUTPUT, Value: a}, nil

	case OP_JT:
		if a != 0 {
			mc.State.Program = b
		}

	case OP_JF:
		if a == 0 {
			mc.State.Program = b
		}

	case OP_LT:
		if err := mc.resolveWrite(params[2], boolWord(a < b)); err != nil {
			return fail(err)
		}

	case OP_EQ:
		if err := mc.resolveWrite(params[2], boolWord(a == b)); err != nil {
			return fail(err)
		}

	case OP_ARB:
		base, ok := addWords(mc.State.RelBase, a)
		if !ok {
			return fail(&Fault{Kind: FAULT_NUMERIC_OVERFLOW})
		}

		mc.State.RelBase = base

	case OP_HLT:
		mc.status = STATUS_HALTED
		mc.steps++
		return Result{Status: STATUS_HALTED}, nil
	}

	mc.steps++
	return Result{Status: STATUS_RUNNING}, nil
}

func boolWord(b bool) Word {
	if b {
		return 1
	}

	return 0
}

func addWords(a, b Word) (Word, bool) {
	sum := a + b

	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, false
	}

	return sum, true
}

func mulWords(a, b Word) (Word, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}

	product := a * b

	if product/b != a {
		return 0, false
	}

	return product, true
}

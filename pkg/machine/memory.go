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

// Memory is a fixed size, zero initialised array of words. Addresses outside
// [0, Cap()) fault rather than wrap or grow.
type Memory []Word

func NewMemory(capacity int) Memory {
	return make(Memory, capacity)
}

func (mem Memory) Cap() int {
	return len(mem)
}

func (mem Memory) contains(addr Word) bool {
	return addr >= 0 && addr < Word(len(mem))
}

func (mem Memory) Read(addr Word) (Word, error) {
	if !mem.contains(addr) {
		return 0, &Fault{Kind: FAULT_ADDRESS_OUT_OF_RANGE, Value: addr}
	}

	return mem[addr], nil
}

func (mem Memory) Write(addr Word, value Word) error {
	if !mem.contains(addr) {
		return &Fault{Kind: FAULT_ADDRESS_OUT_OF_RANGE, Value: addr}
	}

	mem[addr] = value
	return nil
}

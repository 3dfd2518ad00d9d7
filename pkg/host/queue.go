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

package host

import (
	"github.com/lassandro/gointcode/pkg/machine"
)

// Queue is a FIFO of words routed between a machine and its host.
type Queue struct {
	values []machine.Word
}

func NewQueue(values ...machine.Word) *Queue {
	q := &Queue{}
	q.Push(values...)
	return q
}

func (q *Queue) Push(values ...machine.Word) {
	q.values = append(q.values, values...)
}

// Pop removes the oldest value. The second result is false when the queue is
// empty.
func (q *Queue) Pop() (machine.Word, bool) {
	if len(q.values) == 0 {
		return 0, false
	}

	value := q.values[0]
	q.values = q.values[1:]
	return value, true
}

func (q *Queue) Len() int {
	return len(q.values)
}

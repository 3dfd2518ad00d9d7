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
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lassandro/gointcode/pkg/machine"
)

// Permutations returns every ordering of values.
func Permutations(values []machine.Word) [][]machine.Word {
	if len(values) == 0 {
		return [][]machine.Word{{}}
	}

	result := make([][]machine.Word, 0)

	for i := range values {
		rest := make([]machine.Word, 0, len(values)-1)
		rest = append(rest, values[:i]...)
		rest = append(rest, values[i+1:]...)

		for _, tail := range Permutations(rest) {
			ordering := append([]machine.Word{values[i]}, tail...)
			result = append(result, ordering)
		}
	}

	return result
}

// MaxSignal tries every ordering of phases through a pipeline and returns the
// largest signal along with the ordering that produced it. Orderings are
// evaluated concurrently; each pipeline owns its machines.
func MaxSignal(ctx context.Context, program []machine.Word, phases []machine.Word, feedback bool) (machine.Word, []machine.Word, error) {
	orderings := Permutations(phases)
	signals := make([]machine.Word, len(orderings))

	group, ctx := errgroup.WithContext(ctx)

	for i, ordering := range orderings {
		i, ordering := i, ordering

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			pipeline, err := NewPipeline(program, ordering, feedback)
			if err != nil {
				return err
			}

			signals[i], err = pipeline.Run(0)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return 0, nil, err
	}

	best := 0

	for i := range signals {
		if signals[i] > signals[best] {
			best = i
		}
	}

	return signals[best], orderings[best], nil
}

// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package interval provides an ordered map of disjoint half-open intervals.
package interval

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints"
)

// Map is a map from disjoint half-open intervals [start, end) to values.
//
// The zero value is empty and ready to use.
type Map[K constraints.Integer, V any] struct {
	// Keys in this tree are the (exclusive) ends of intervals.
	tree btree.Map[K, *entry[K, V]]
}

// Interval is an entry of a [Map].
type Interval[K constraints.Integer, V any] struct {
	// The range for this interval; End is exclusive.
	Start, End K

	// The value associated with it.
	Value *V
}

// Contains returns whether key lies within this interval.
func (i Interval[K, V]) Contains(key K) bool {
	return i.Value != nil && i.Start <= key && key < i.End
}

type entry[K constraints.Integer, V any] struct {
	start K
	value V
}

// Len returns the number of intervals in this map.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// Get looks up the interval which contains key.
//
// If no such interval exists, the Value of the returned [Interval] is nil.
func (m *Map[K, V]) Get(key K) Interval[K, V] {
	// The first interval ending after key is the only one that may
	// contain it.
	iter := m.tree.Iter()
	if !iter.Seek(key + 1) {
		return Interval[K, V]{}
	}
	got := m.at(iter.Key(), iter.Value())
	if key < got.Start {
		return Interval[K, V]{}
	}
	return got
}

// Insert inserts [start, end) into this map with the given value.
//
// If the new interval overlaps one already in the map, nothing is inserted
// and the overlapping interval with the least start is returned; this case
// is distinguished by overlap.Value != nil. Empty intervals are never
// inserted and never overlap anything.
func (m *Map[K, V]) Insert(start, end K, value V) (overlap Interval[K, V]) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}
	if start == end {
		return Interval[K, V]{}
	}

	iter := m.tree.Iter()
	if iter.Seek(start+1) && iter.Value().start < end {
		return m.at(iter.Key(), iter.Value())
	}

	m.tree.Set(end, &entry[K, V]{start: start, value: value})
	return Interval[K, V]{}
}

// Intervals returns an iterator over the intervals in this map, in order.
func (m *Map[K, V]) Intervals() iter.Seq[Interval[K, V]] {
	return func(yield func(Interval[K, V]) bool) {
		m.tree.Scan(func(end K, e *entry[K, V]) bool {
			return yield(m.at(end, e))
		})
	}
}

// Format implements [fmt.Formatter].
func (m *Map[K, V]) Format(s fmt.State, v rune) {
	fmt.Fprint(s, "{")
	first := true
	for in := range m.Intervals() {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false
		fmt.Fprintf(s, "[%#v, %#v): ", in.Start, in.End)
		fmt.Fprintf(s, fmt.FormatString(s, v), *in.Value)
	}
	fmt.Fprint(s, "}")
}

func (m *Map[K, V]) at(end K, e *entry[K, V]) Interval[K, V] {
	return Interval[K, V]{Start: e.start, End: end, Value: &e.value}
}

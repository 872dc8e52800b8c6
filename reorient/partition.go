package reorient

import (
	"sort"

	"github.com/grailbio/base/log"
)

// ReadIDSet is a set of read identifiers.
type ReadIDSet map[string]struct{}

// Contains reports whether id is in the set.
func (s ReadIDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members of the set in lexicographic order.
func (s ReadIDSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// A Partition divides the reads observed in a record stream into three
// disjoint sets by classification. The union of the three sets is
// exactly the set of reads that appeared in at least one record; reads
// with no records appear in none of them. A Partition is immutable once
// built.
type Partition struct {
	Forward   ReadIDSet
	Reverse   ReadIDSet
	Ambiguous ReadIDSet
}

// NewPartition partitions the given classifications. An empty mapping is
// a valid, if degenerate, input and yields three empty sets.
func NewPartition(classes map[string]Class) Partition {
	p := Partition{
		Forward:   make(ReadIDSet),
		Reverse:   make(ReadIDSet),
		Ambiguous: make(ReadIDSet),
	}
	for id, class := range classes {
		switch class {
		case ClassForward:
			p.Forward[id] = struct{}{}
		case ClassReverse:
			p.Reverse[id] = struct{}{}
		case ClassAmbiguous:
			p.Ambiguous[id] = struct{}{}
		default:
			log.Panicf("read %q has invalid class %d", id, uint8(class))
		}
	}
	return p
}

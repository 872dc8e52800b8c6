// Package reorient decides, for every read with at least one alignment
// record against a reference, whether the read is a forward-strand read,
// a reverse-strand read, or ambiguous, and reorients the read collection
// onto the forward strand accordingly. It consumes only read identifiers
// and strand symbols; sequence manipulation is delegated to collaborators
// (see Extractor and ReverseComplementer).
package reorient

import (
	"context"

	"github.com/cyhofe/bio-reorient/encoding/aln"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Class is the final orientation call for a read.
type Class uint8

const (
	// ClassForward means every record observed for the read aligned to
	// the forward strand.
	ClassForward Class = iota
	// ClassReverse means every record observed for the read aligned to
	// the reverse strand.
	ClassReverse
	// ClassAmbiguous means the read's records disagree on strand. One
	// discordant record is enough; ambiguity is not a majority vote.
	ClassAmbiguous
)

func (c Class) String() string {
	switch c {
	case ClassForward:
		return "forward"
	case ClassReverse:
		return "reverse"
	case ClassAmbiguous:
		return "ambiguous"
	}
	log.Panicf("invalid class %d", uint8(c))
	return ""
}

// strandSet records which distinct strand symbols have been seen for one
// read. Two bits suffice: once both are set the read is ambiguous and no
// later evidence can revert it.
type strandSet uint8

const (
	sawForward strandSet = 1 << iota
	sawReverse
)

// A Classifier accumulates per-read strand evidence from a stream of
// alignment records. Evidence accumulation is a set union per read, so
// it is order-independent, and Classifiers built from disjoint chunks of
// a stream can be combined with Merge to the same effect as a single
// pass. A Classifier must be created with NewClassifier and is not safe
// for concurrent use.
type Classifier struct {
	seen    map[string]strandSet
	records int
}

// NewClassifier returns an empty Classifier.
func NewClassifier() *Classifier {
	return &Classifier{seen: map[string]strandSet{}}
}

// Add folds one alignment record into the evidence.
func (c *Classifier) Add(rec aln.Record) {
	c.records++
	switch rec.Strand {
	case aln.Forward:
		c.seen[rec.ID] |= sawForward
	case aln.Reverse:
		c.seen[rec.ID] |= sawReverse
	default:
		log.Panicf("invalid strand %d in record for read %q", uint8(rec.Strand), rec.ID)
	}
}

// Merge folds the evidence accumulated by other into c. Strand-set union
// is associative and commutative, so merging per-chunk Classifiers in
// any order yields the same classifications as serial accumulation.
func (c *Classifier) Merge(other *Classifier) {
	for id, set := range other.seen {
		c.seen[id] |= set
	}
	c.records += other.records
}

// Records returns the number of records added so far.
func (c *Classifier) Records() int { return c.records }

// Classes returns the classification of every read observed in at least
// one record. A read whose records all agree on a strand is classified
// to that strand; a read with both symbols observed is ambiguous. There
// is no failure mode: every observed read gets a class.
func (c *Classifier) Classes() map[string]Class {
	classes := make(map[string]Class, len(c.seen))
	for id, set := range c.seen {
		switch set {
		case sawForward:
			classes[id] = ClassForward
		case sawReverse:
			classes[id] = ClassReverse
		case sawForward | sawReverse:
			classes[id] = ClassAmbiguous
		default:
			log.Panicf("read %q has empty strand set", id)
		}
	}
	return classes
}

// ClassifyRecords drains sc and classifies every read it reports.
func ClassifyRecords(sc *aln.Scanner) (map[string]Class, error) {
	c := NewClassifier()
	var rec aln.Record
	for sc.Scan(&rec) {
		c.Add(rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c.Classes(), nil
}

// ClassifyChunks classifies records presented as pre-split contiguous
// chunks of the stream, accumulating the chunks in parallel and merging
// the partial evidence. The result is identical to feeding the
// concatenated chunks through one Classifier. Classification is
// abandoned if ctx is cancelled; partial state is discarded.
func ClassifyChunks(ctx context.Context, chunks [][]aln.Record) (map[string]Class, error) {
	partial := make([]*Classifier, len(chunks))
	err := traverse.Each(len(chunks), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := NewClassifier()
		for _, rec := range chunks[i] {
			c.Add(rec)
		}
		partial[i] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	merged := NewClassifier()
	for _, c := range partial {
		merged.Merge(c)
	}
	return merged.Classes(), nil
}

package reorient

import (
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/bio/biosimd"
	"github.com/grailbio/bio/encoding/fastq"
)

// Transformer reverse-complements read sequences, reversing the quality
// string of each read in lock-step so base calls keep their scores.
type Transformer struct{}

// ReverseComplement implements ReverseComplementer. The input collection
// is not mutated.
func (Transformer) ReverseComplement(reads []fastq.Read) []fastq.Read {
	out := make([]fastq.Read, len(reads))
	for i, r := range reads {
		out[i] = fastq.Read{
			ID:   r.ID,
			Seq:  reverseComplement(r.Seq),
			Unk:  r.Unk,
			Qual: reverseString(r.Qual),
		}
	}
	return out
}

// reverseComplement computes a reverse complement of the given DNA string.
func reverseComplement(seq string) string {
	buf := make([]byte, len(seq))
	biosimd.ReverseComp8NoValidate(buf, gunsafe.StringToBytes(seq))
	return gunsafe.BytesToString(buf)
}

func reverseString(s string) string {
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		buf[i] = s[len(s)-1-i]
	}
	return gunsafe.BytesToString(buf)
}

package reorient

// Stats represents high-level counts from one run of the engine.
type Stats struct {
	// Records is the number of valid alignment records consumed.
	Records int
	// Malformed is the number of malformed records skipped in
	// permissive mode.
	Malformed int
	// Forward is the number of reads whose records all aligned forward.
	Forward int
	// Reverse is the number of reads whose records all aligned reverse.
	Reverse int
	// Ambiguous is the number of reads with conflicting strand
	// evidence, excluded from the output.
	Ambiguous int
}

// Merge adds the field values of the two Stats objects and creates new
// Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Records += o.Records
	s.Malformed += o.Malformed
	s.Forward += o.Forward
	s.Reverse += o.Reverse
	s.Ambiguous += o.Ambiguous
	return s
}

package merge

// Flag tracks one sensor's validity bit together with whether any
// ingestion step has decided it yet. Undecided flags default to invalid
// during finalisation.
type Flag struct {
	OK      bool
	Decided bool
}

// flagPolicy is how an ingestion pass is allowed to touch a Flag. The two
// feeds deliberately use different policies; keeping them as named types
// stops the asymmetry from being "simplified" away during a refactor.
type flagPolicy interface {
	Apply(f *Flag, valid bool)
}

// FirstTouchFlag decides a flag exactly once: the first reading to land on
// a merge key fixes the bit (valid or not), and later readings at the same
// key can overwrite values but never revise the flag. Used by the
// temperature feed.
type FirstTouchFlag struct{}

// Apply sets the flag from valid only if it has never been decided.
func (FirstTouchFlag) Apply(f *Flag, valid bool) {
	if f.Decided {
		return
	}
	f.OK = valid
	f.Decided = true
}

// OverridingFlag upgrades a flag whenever a valid reading arrives, no
// matter what was decided before; invalid readings leave it untouched.
// A flag can be upgraded to OK but never downgraded. Used by the humidity
// feed.
type OverridingFlag struct{}

// Apply forces the flag to OK when valid, and does nothing otherwise.
func (OverridingFlag) Apply(f *Flag, valid bool) {
	if !valid {
		return
	}
	f.OK = true
	f.Decided = true
}

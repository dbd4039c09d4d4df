// Package feed defines the raw ThingSpeak-style reading format shared by
// the snapshot blobs and the CSV exports, plus the lenient value and
// timestamp parsing both feed channels rely on.
package feed

// MaxFields is the number of field slots a reading carries on the wire.
const MaxFields = 5

// RawReading is one timestamped sample from a feed source. Field slots are
// nil when the source omitted them or stored an explicit null.
type RawReading struct {
	CreatedAt string  `json:"created_at"`
	EntryID   int     `json:"entry_id"`
	Field1    *string `json:"field1"`
	Field2    *string `json:"field2"`
	Field3    *string `json:"field3"`
	Field4    *string `json:"field4"`
	Field5    *string `json:"field5"`
}

// Field returns the n-th field slot (1-based). Slots outside 1..MaxFields
// are nil; legacy layouts address up to field8, which this format never
// carried, so those simply read as absent.
func (r RawReading) Field(n int) *string {
	switch n {
	case 1:
		return r.Field1
	case 2:
		return r.Field2
	case 3:
		return r.Field3
	case 4:
		return r.Field4
	case 5:
		return r.Field5
	}
	return nil
}

// SetField stores a value into the n-th field slot (1-based). Out-of-range
// slots are ignored.
func (r *RawReading) SetField(n int, v *string) {
	switch n {
	case 1:
		r.Field1 = v
	case 2:
		r.Field2 = v
	case 3:
		r.Field3 = v
	case 4:
		r.Field4 = v
	case 5:
		r.Field5 = v
	}
}

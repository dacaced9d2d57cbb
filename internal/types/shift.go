package types

// ShiftRange moves the half-open range [start, end) across edit.
// Ranges ending at or before the edit start are untouched and ranges
// starting at or after the replaced end move by the edit delta. A range
// that intersects a deleted region is dropped (ok == false). A pure
// insertion strictly inside the range either grows it (growInside) or
// drops it.
func ShiftRange(start, end int, edit EditInfo, growInside bool) (int, int, bool) {
	switch {
	case end <= edit.StartIndex:
		return start, end, true
	case start >= edit.OldEndIndex:
		d := edit.Delta()
		return start + d, end + d, true
	case edit.DeletedLen() == 0 && growInside:
		return start, end + edit.InsertedLen(), true
	default:
		return 0, 0, false
	}
}

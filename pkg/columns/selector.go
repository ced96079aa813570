package columns

// Selector manages column visibility through a working copy, separate from
// the active set used for rendering. Edits stay in the working copy until
// Apply publishes them; Reset discards unapplied edits.
type Selector struct {
	active  []Column
	working []Column
}

// NewSelector builds a selector over cols. Reserved columns are pinned
// visible in both copies from the start.
func NewSelector(cols []Column) *Selector {
	s := &Selector{active: pin(Clone(cols)), working: pin(Clone(cols))}
	return s
}

// Active returns the published column set.
func (s *Selector) Active() []Column {
	return Clone(s.active)
}

// Working returns the current draft column set.
func (s *Selector) Working() []Column {
	return Clone(s.working)
}

// Toggle flips the visibility of the named column in the working copy.
// Toggling a reserved column is a no-op.
func (s *Selector) Toggle(field string) {
	if Reserved(field) {
		return
	}
	for i := range s.working {
		if s.working[i].FieldName == field {
			s.working[i].Visible = !s.working[i].Visible
			return
		}
	}
}

// SelectAll marks every working column visible.
func (s *Selector) SelectAll() {
	for i := range s.working {
		s.working[i].Visible = true
	}
}

// DeselectAll hides every working column except the reserved ones.
func (s *Selector) DeselectAll() {
	for i := range s.working {
		if !Reserved(s.working[i].FieldName) {
			s.working[i].Visible = false
		}
	}
}

// Apply publishes the working copy as the active set and returns it.
func (s *Selector) Apply() []Column {
	s.working = pin(s.working)
	s.active = Clone(s.working)
	return s.Active()
}

// Reset discards unapplied edits, restoring the working copy from the
// active set.
func (s *Selector) Reset() {
	s.working = Clone(s.active)
}

func pin(cols []Column) []Column {
	for i := range cols {
		if Reserved(cols[i].FieldName) {
			cols[i].Visible = true
		}
	}
	return cols
}

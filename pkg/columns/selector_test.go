package columns

import "testing"

func selectorColumns() []Column {
	return []Column{
		{FieldName: "ID", Visible: false},
		{FieldName: "Title", Visible: true},
		{FieldName: "Status", Visible: true},
		{FieldName: "Notes", Visible: false},
	}
}

func visibility(cols []Column) map[string]bool {
	out := make(map[string]bool, len(cols))
	for _, c := range cols {
		out[c.FieldName] = c.Visible
	}
	return out
}

func TestNewSelectorPinsReserved(t *testing.T) {
	s := NewSelector(selectorColumns())
	if !visibility(s.Active())["ID"] {
		t.Fatal("ID must be pinned visible even when configured hidden")
	}
	if !visibility(s.Working())["ID"] {
		t.Fatal("working copy must pin ID too")
	}
}

func TestToggleReservedIsNoOp(t *testing.T) {
	s := NewSelector(selectorColumns())
	s.Toggle("ID")
	s.Toggle("Title")
	v := visibility(s.Working())
	if !v["ID"] || !v["Title"] {
		t.Fatalf("reserved columns toggled: %v", v)
	}
}

func TestToggleStaysInWorkingCopyUntilApply(t *testing.T) {
	s := NewSelector(selectorColumns())
	s.Toggle("Status")
	if visibility(s.Working())["Status"] {
		t.Fatal("working copy not updated")
	}
	if !visibility(s.Active())["Status"] {
		t.Fatal("active set changed before Apply")
	}
	s.Apply()
	if visibility(s.Active())["Status"] {
		t.Fatal("Apply did not publish the working copy")
	}
}

func TestResetDiscardsUnappliedEdits(t *testing.T) {
	s := NewSelector(selectorColumns())
	s.Toggle("Status")
	s.Toggle("Notes")
	s.Reset()
	v := visibility(s.Working())
	if !v["Status"] || v["Notes"] {
		t.Fatalf("Reset did not restore the active set: %v", v)
	}
}

func TestDeselectAllKeepsReserved(t *testing.T) {
	s := NewSelector(selectorColumns())
	s.DeselectAll()
	v := visibility(s.Working())
	if !v["ID"] || !v["Title"] {
		t.Fatal("reserved columns must survive DeselectAll")
	}
	if v["Status"] || v["Notes"] {
		t.Fatal("non-reserved columns must be hidden")
	}
	s.SelectAll()
	for f, vis := range visibility(s.Working()) {
		if !vis {
			t.Fatalf("%s still hidden after SelectAll", f)
		}
	}
}

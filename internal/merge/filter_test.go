package merge

import (
	"reflect"
	"testing"

	"mastermerge/internal/excel"
)

var testColumns = Columns{
	Qualified:       8,
	Notes:           9,
	QualifiedHeader: "Qualified?",
	NotesHeader:     "Notes",
}

// row builds a ten-column row with the given reviewer values.
func row(name, qualified, notes string) excel.Row {
	r := make(excel.Row, 10)
	r[0] = excel.Cell{Kind: excel.KindString, Value: name}
	if qualified != "" {
		r[8] = excel.Cell{Kind: excel.KindString, Value: qualified}
	}
	if notes != "" {
		r[9] = excel.Cell{Kind: excel.KindString, Value: notes}
	}
	return r
}

func TestQualifies(t *testing.T) {
	tests := []struct {
		name string
		row  excel.Row
		want bool
	}{
		{"both empty", row("a", "", ""), false},
		{"qualified only", row("a", "Yes", ""), true},
		{"notes only", row("a", "", "Looks good"), true},
		{"both set", row("a", "No", "duplicate"), true},
		{"repeated header", row("a", "Qualified?", "Notes"), false},
		{"qualified header label", row("a", "Qualified?", "real note"), false},
		{"notes header label", row("a", "Yes", "Notes"), false},
		{"short row", excel.Row{{Kind: excel.KindString, Value: "a"}}, false},
		{"formula in notes", func() excel.Row {
			r := row("a", "", "")
			r[9] = excel.Cell{Kind: excel.KindFormula, Formula: "B2*2"}
			return r
		}(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Qualifies(tt.row, testColumns); got != tt.want {
				t.Errorf("Qualifies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterRowsSkipsHeaderAndKeepsOrder(t *testing.T) {
	rows := []excel.Row{
		row("header", "", "note in header row"),
		row("first", "", "Looks good"),
		row("skip", "", ""),
		row("dup header", "Qualified?", "Notes"),
		row("second", "Yes", ""),
		row("third", "No", "why"),
	}

	got := FilterRows(rows, testColumns)

	var names []string
	for _, r := range got {
		names = append(names, r.At(0).Text())
	}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}
}

func TestFilterRowsHeaderOnly(t *testing.T) {
	if got := FilterRows([]excel.Row{row("header", "Yes", "")}, testColumns); len(got) != 0 {
		t.Errorf("header row must never be appended, got %d rows", len(got))
	}
	if got := FilterRows(nil, testColumns); got != nil {
		t.Errorf("expected nil for empty sheet, got %v", got)
	}
}

func TestMarker(t *testing.T) {
	if Marker(0) != MarkerNothing {
		t.Errorf("expected %s for zero rows", MarkerNothing)
	}
	if Marker(3) != MarkerAdded {
		t.Errorf("expected %s for appended rows", MarkerAdded)
	}
}

func TestMarkedPath(t *testing.T) {
	tests := []struct {
		path, marker, want string
	}{
		{"/in/batch.xlsx", MarkerAdded, "/in/batch_added.xlsx"},
		{"/in/batch.xlsx", MarkerNothing, "/in/batch_nothing.xlsx"},
		{"/in/my.xlsx.report.xlsx", MarkerAdded, "/in/my.xlsx.report_added.xlsx"},
	}
	for _, tt := range tests {
		if got := MarkedPath(tt.path, ".xlsx", tt.marker); got != tt.want {
			t.Errorf("MarkedPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

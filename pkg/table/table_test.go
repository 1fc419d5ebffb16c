package table

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestFloatCellUndefinedBecomesMissing(t *testing.T) {
	if !FloatCell(math.NaN()).IsMissing() {
		t.Error("NaN should store as missing")
	}
	if !FloatCell(math.Inf(1)).IsMissing() {
		t.Error("+Inf should store as missing")
	}
	if FloatCell(0).IsMissing() {
		t.Error("zero is a real value, not missing")
	}
}

func TestCellCoercions(t *testing.T) {
	if f, ok := TextCell("12.5").Float(); !ok || f != 12.5 {
		t.Errorf("TextCell(12.5).Float() = %v, %v; want 12.5, true", f, ok)
	}
	if _, ok := TextCell("E06000001").Float(); ok {
		t.Error("non-numeric text should not coerce to float")
	}
	if y, ok := FloatCell(2021).Int(); !ok || y != 2021 {
		t.Errorf("whole float Int() = %v, %v; want 2021, true", y, ok)
	}
	if _, ok := FloatCell(2021.5).Int(); ok {
		t.Error("fractional float should not coerce to int")
	}
	if _, ok := MissingCell().Float(); ok {
		t.Error("missing cell should not coerce to float")
	}
}

func TestRowKey(t *testing.T) {
	r := Row{
		ColLADCode: TextCell("E06000001"),
		ColYear:    IntCell(2021),
	}
	k, ok := r.Key()
	if !ok {
		t.Fatal("expected a usable key")
	}
	if k.LAD != "E06000001" || k.Year != 2021 {
		t.Errorf("key = %+v, want E06000001/2021", k)
	}

	if _, ok := (Row{ColYear: IntCell(2021)}).Key(); ok {
		t.Error("row without lad_code should have no key")
	}
	if _, ok := (Row{ColLADCode: TextCell("E1"), ColYear: TextCell("20x1")}).Key(); ok {
		t.Error("non-integer year should have no key")
	}
}

func TestKeyMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Key{LAD: "E06000001", Year: 2019})
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	if got := string(data); got != `["E06000001",2019]` {
		t.Errorf("key JSON = %s, want [\"E06000001\",2019]", got)
	}
}

func TestSortByKey(t *testing.T) {
	tab := New(ColLADCode, ColYear)
	for _, k := range []Key{
		{"W06000002", 2020}, {"E06000001", 2021}, {"E06000001", 2020},
	} {
		tab.Rows = append(tab.Rows, Row{
			ColLADCode: TextCell(k.LAD),
			ColYear:    IntCell(k.Year),
		})
	}

	tab.SortByKey()

	want := []Key{{"E06000001", 2020}, {"E06000001", 2021}, {"W06000002", 2020}}
	for i, w := range want {
		k, _ := tab.Rows[i].Key()
		if k != w {
			t.Errorf("row %d key = %+v, want %+v", i, k, w)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tab := New(ColLADCode, "v")
	tab.Rows = append(tab.Rows, Row{ColLADCode: TextCell("E1"), "v": FloatCell(1)})

	clone := tab.Clone()
	clone.Rows[0]["v"] = FloatCell(99)
	clone.AddColumn("extra")

	if got, _ := tab.Rows[0]["v"].Float(); got != 1 {
		t.Errorf("mutating clone changed original: v = %v", got)
	}
	if tab.HasColumn("extra") {
		t.Error("mutating clone's columns changed original")
	}
}

func TestWriteCSVRendering(t *testing.T) {
	tab := New(ColLADCode, ColYear, "population", "share")
	tab.Rows = append(tab.Rows, Row{
		ColLADCode:   TextCell("E06000001"),
		ColYear:      IntCell(2021),
		"population": FloatCell(92000),
		"share":      MissingCell(),
	})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tab); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "lad_code,year,population,share" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "E06000001,2021,92000," {
		t.Errorf("record = %q, want E06000001,2021,92000,", lines[1])
	}
}

func TestReadCSVTyping(t *testing.T) {
	in := "lad_code,lad_name,year,population,notes\nE06000001,Hartlepool,2021,92339.0,\n"
	tab, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tab.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(tab.Rows))
	}

	r := tab.Rows[0]
	if r[ColLADCode].Kind != KindText {
		t.Error("lad_code should stay text")
	}
	if y, ok := r[ColYear].Int(); !ok || y != 2021 {
		t.Errorf("year = %v, %v; want 2021", y, ok)
	}
	if p, ok := r["population"].Float(); !ok || p != 92339.0 {
		t.Errorf("population = %v, %v; want 92339", p, ok)
	}
	if !r["notes"].IsMissing() {
		t.Error("empty field should read as missing")
	}
}

func TestYearsAndDistinctLADs(t *testing.T) {
	tab := New(ColLADCode, ColYear)
	for _, k := range []Key{{"E1", 2019}, {"E1", 2021}, {"E2", 2020}} {
		tab.Rows = append(tab.Rows, Row{
			ColLADCode: TextCell(k.LAD),
			ColYear:    IntCell(k.Year),
		})
	}

	min, max, ok := tab.Years()
	if !ok || min != 2019 || max != 2021 {
		t.Errorf("Years() = %d, %d, %v; want 2019, 2021, true", min, max, ok)
	}
	if got := tab.DistinctLADs(); got != 2 {
		t.Errorf("DistinctLADs() = %d, want 2", got)
	}
}

package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `segid,street,from,length,width,lanes,type,class,year,pci
101,Main St,1st,300,30,2,AC,ART,1998,82.5
102,Oak Ave,2nd,120.0,24,2,PCC,LOC,2004,45
`

func TestRead(t *testing.T) {
	recs, err := Read(strings.NewReader(sample), DefaultColumns)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	r := recs[0]
	if r.ID != 101 || r.Length != 300 || r.Width != 30 || r.InitialCondition != 82.5 {
		t.Errorf("record 0 = %+v", r)
	}
	if r.SurfaceType != "AC" || r.StreetClass != "ART" {
		t.Errorf("record 0 categories = %q/%q", r.SurfaceType, r.StreetClass)
	}
	if recs[1].Length != 120 {
		t.Errorf("record 1 length = %d, want 120", recs[1].Length)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"short row":   "h\n1,2,3\n",
		"bad number":  "h\n1,a,b,x,30,2,AC,ART,1998,82\n",
		"bad pci":     "h\n1,a,b,300,30,2,AC,ART,1998,good\n",
		"nan pci":     "h\n1,a,b,300,30,2,AC,ART,1998,NaN\n",
		"inf pci":     "h\n1,a,b,300,30,2,AC,ART,1998,+Inf\n",
		"inf length":  "h\n1,a,b,Inf,30,2,AC,ART,1998,82\n",
	}
	for name, doc := range tests {
		if _, err := Read(strings.NewReader(doc), DefaultColumns); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestCustomColumns(t *testing.T) {
	doc := "id,pci,len,wid,surf,cls\n5,70,90,10,AC,COL\n"
	cols := Columns{ID: 0, InitialCondition: 1, Length: 2, Width: 3, SurfaceType: 4, StreetClass: 5}
	recs, err := Read(strings.NewReader(doc), cols)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if recs[0].ID != 5 || recs[0].InitialCondition != 70 || recs[0].StreetClass != "COL" {
		t.Errorf("record = %+v", recs[0])
	}
}

func TestLoadAndSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := Load(path, DefaultColumns)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	load := Loader(recs, nil)
	a, _ := load()
	b, _ := load()
	if a[0] == b[0] {
		t.Fatal("Loader should build a fresh collection each call")
	}
	a[0].ApplyOneYear()
	if b[0].YearsSimulated() != 0 {
		t.Error("collections must not share segment state")
	}
	if a[0].Area != 1000 {
		t.Errorf("area = %d, want 1000", a[0].Area)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("/nonexistent/data.csv", DefaultColumns); err == nil {
		t.Error("expected error for missing file")
	}
}

package memory_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lodging_query/internal/domain"
	"lodging_query/internal/storage/memory"
)

const header = "COMUNE;PROVINCIA;ATL;STELLE;QUALIFICA;TIPOLOGIA;DENOMINAZIONE;INDIRIZZO;CIVICO;CAP;TEL;FAX;EMAIL;ALT_COMUNE;ALT_STRUTTURA;ECOLABEL;Q;YES;DISABILI;ANIMALI;ASSEGNO;BANCOMAT;CARTA;GARAGE;ASCENSORE;PARCHEGGIO;ARIA_CAMERE;ARIA_APPARTAMENTI"

// row builds a 28-field line; overrides maps column index to value.
func row(overrides map[int]string) string {
	f := []string{
		"TORINO", "TO", "Turismo Torino", "3", "", "HOTEL", "Hotel Centrale",
		"Via Roma", "1", "10121", "011123456", "", "info@centrale.it", "239", "240",
		"NO", "SI", "NO", "SI", "NO", "SI", "SI", "SI", "NO", "SI", "NO", "NO", "NO",
	}
	for i, v := range overrides {
		f[i] = v
	}
	return strings.Join(f, ";")
}

func load(t *testing.T, lines ...string) *memory.Store {
	t.Helper()
	src := header + "\n" + strings.Join(lines, "\n") + "\n"
	s, _, err := memory.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoad_MapsFieldsAndFillsMissing(t *testing.T) {
	s := load(t, row(nil))
	if s.Count() != 1 {
		t.Fatalf("count: %d", s.Count())
	}
	r := s.All()[0]
	if r.Municipality != "TORINO" || r.Name != "Hotel Centrale" || r.AirConApartments != "NO" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Qualification != domain.Missing || r.Fax != domain.Missing {
		t.Fatalf("empty fields not sentinel-filled: %q %q", r.Qualification, r.Fax)
	}
	for i, f := range r.Fields() {
		if f == "" {
			t.Fatalf("field %d empty", i)
		}
	}
}

func TestLoad_SkipsShortRowsAndDropsBlankMunicipality(t *testing.T) {
	src := header + "\n" +
		row(nil) + "\n" +
		"TORINO;TO;short\n" +
		row(map[int]string{0: "  "}) + "\n" +
		row(map[int]string{0: "Alba"})
	s, rep, err := memory.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Count() != 2 || rep.Loaded != 2 {
		t.Fatalf("count: %d loaded: %d", s.Count(), rep.Loaded)
	}
	if len(rep.Skipped) != 1 || rep.Skipped[0].Line != 3 || rep.Skipped[0].Fields != 3 {
		t.Fatalf("skipped: %+v", rep.Skipped)
	}
	if rep.Dropped != 1 || rep.Lines != 4 {
		t.Fatalf("report: %+v", rep)
	}
}

func TestLoad_ExtraFieldsIgnoredAndQuotedSeparators(t *testing.T) {
	line := row(map[int]string{6: `"Hotel; Bar"`}) + ";extra;more"
	s := load(t, line)
	if s.Count() != 1 {
		t.Fatalf("count: %d", s.Count())
	}
	r := s.All()[0]
	if r.Name != "Hotel; Bar" {
		t.Fatalf("name: %q", r.Name)
	}
	if r.AirConApartments != "NO" {
		t.Fatalf("last field: %q", r.AirConApartments)
	}
}

func TestLoad_CRLF(t *testing.T) {
	src := header + "\r\n" + row(nil) + "\r\n"
	s, _, err := memory.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.All()[0].AirConApartments; got != "NO" {
		t.Fatalf("last field: %q", got)
	}
}

func TestLoad_KeepsNonUTF8Bytes(t *testing.T) {
	s := load(t, row(map[int]string{6: "Hotel Citt\xe0", 7: `"Via Po; 3\xe8"`}))
	r := s.All()[0]
	if r.Name != "Hotel Citt\xe0" {
		t.Fatalf("name bytes changed: %q", r.Name)
	}
	if r.Street != "Via Po; 3\xe8" {
		t.Fatalf("street bytes changed: %q", r.Street)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, _, err := memory.LoadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestByIndex(t *testing.T) {
	s := load(t, row(nil), row(map[int]string{6: "Second"}))
	r, err := s.ByIndex(1)
	if err != nil || r.Name != "Second" {
		t.Fatalf("ByIndex(1): %+v %v", r, err)
	}
	for _, n := range []int{-1, 2, 100} {
		if _, err := s.ByIndex(n); !errors.Is(err, domain.ErrInvalidRow) {
			t.Fatalf("ByIndex(%d): expected ErrInvalidRow, got %v", n, err)
		}
	}
}

func TestFilters(t *testing.T) {
	s := load(t,
		row(nil),
		row(map[int]string{0: "Milano", 1: "MI", 5: "B&B", 6: "Casa Verde", 17: "SI", 19: "SI", 26: "SI"}),
		row(map[int]string{0: "torino", 3: "4", 15: "si", 18: "NO", 22: "NO", 25: "SI", 27: "SI"}),
	)

	cases := []struct {
		name string
		got  []domain.Record
		want int
	}{
		{"municipality", s.FilterByMunicipality(" Torino "), 2},
		{"province", s.FilterByProvince("mi"), 1},
		{"stars", s.FilterByStarRating("4"), 1},
		{"atl", s.FilterByLocalTourismBoard("turismo torino"), 3},
		{"type", s.FilterByType("b&b"), 1},
		{"mark q", s.FilterByQualityMark("q"), 3},
		{"mark yes", s.FilterByQualityMark("YES"), 1},
		{"mark ecolabel", s.FilterByQualityMark("Ecolabel"), 1},
		{"mark unknown", s.FilterByQualityMark("bio"), 0},
		{"accessible", s.FilterAccessible(), 2},
		{"aircon", s.FilterAirConditioned(), 2},
		{"cards", s.FilterCardPayable(), 2},
		{"pets", s.FilterPetFriendly(), 1},
		{"parking", s.FilterWithParking(), 1},
		{"no match", s.FilterByMunicipality("Roma"), 0},
	}
	for _, c := range cases {
		if len(c.got) != c.want {
			t.Errorf("%s: got %d want %d", c.name, len(c.got), c.want)
		}
		if c.got == nil {
			t.Errorf("%s: nil slice", c.name)
		}
	}
}

func TestSearchByNameContains(t *testing.T) {
	s := load(t, row(nil), row(map[int]string{6: "Albergo Centrale"}), row(map[int]string{6: "Rifugio"}))
	got := s.SearchByNameContains("CENTRALE")
	if len(got) != 2 {
		t.Fatalf("got %d", len(got))
	}
	for _, r := range s.All() {
		in := false
		for _, g := range got {
			if g.Name == r.Name {
				in = true
			}
		}
		if in != strings.Contains(strings.ToLower(r.Name), "centrale") {
			t.Fatalf("membership mismatch for %q", r.Name)
		}
	}
}

func TestDistinctAndCounts(t *testing.T) {
	s := load(t,
		row(map[int]string{0: "Torino"}),
		row(map[int]string{0: "ALBA", 5: "B&B"}),
		row(map[int]string{0: "torino"}),
	)
	if got := strings.Join(s.DistinctMunicipalities(), ","); got != "ALBA,TORINO" {
		t.Fatalf("municipalities: %s", got)
	}
	if got := strings.Join(s.DistinctTypes(), ","); got != "B&B,HOTEL" {
		t.Fatalf("types: %s", got)
	}
	byM := s.CountByMunicipality()
	if byM["TORINO"] != len(s.FilterByMunicipality("torino")) || byM["TORINO"] != 2 {
		t.Fatalf("count by municipality: %v", byM)
	}
	if byT := s.CountByType(); byT["HOTEL"] != 2 || byT["B&B"] != 1 {
		t.Fatalf("count by type: %v", byT)
	}
}

func TestFilterIdempotentSubset(t *testing.T) {
	s := load(t, row(nil), row(map[int]string{0: "Asti"}))
	a := s.FilterByMunicipality("asti")
	b := s.FilterByMunicipality("asti")
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Fatalf("not idempotent: %v %v", a, b)
	}
}

func TestHolder_ReloadSwapsGeneration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(header+"\n"+row(nil)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	first, _, err := memory.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	h := memory.NewHolder(first)
	old := h.Current()
	if old.Count() != 1 || old.Generation() != 1 {
		t.Fatalf("initial: count=%d gen=%d", old.Count(), old.Generation())
	}

	if err := os.WriteFile(path, []byte(header+"\n"+row(nil)+"\n"+row(nil)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Reload(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if h.Current().Count() != 2 || h.Current().Generation() != 2 {
		t.Fatalf("after reload: count=%d gen=%d", h.Current().Count(), h.Current().Generation())
	}
	if old.Count() != 1 {
		t.Fatalf("old snapshot mutated")
	}

	if _, err := h.Reload(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatalf("expected reload error")
	}
	if h.Current().Generation() != 2 {
		t.Fatalf("failed reload must keep the served store")
	}
}

package app_test

import (
	"testing"

	"lodging_query/internal/app"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in  string
		op  app.Op
		arg string
		row int
	}{
		{"help", app.OpHelp, "", 0},
		{" Exit ", app.OpExit, "", 0},
		{"tutti", app.OpAll, "", 0},
		{"get_row 12", app.OpGetRow, "12", 12},
		{"get_row   0", app.OpGetRow, "0", 0},
		{"get_row abc", app.OpGetRow, "abc", 0},
		{"filtra comune: Torino ", app.OpFilterMunicipality, "torino", 0},
		{"FILTRA PROVINCIA:to", app.OpFilterProvince, "to", 0},
		{"filtra stelle:4", app.OpFilterStars, "4", 0},
		{"filtra atl:Langhe Roero", app.OpFilterATL, "langhe roero", 0},
		{"filtra tipologia:B&B", app.OpFilterType, "b&b", 0},
		{"filtra marchio:Ecolabel", app.OpFilterMark, "ecolabel", 0},
		{"aria condizionata", app.OpAirConditioned, "", 0},
		{"cerca nome:relais", app.OpSearchName, "relais", 0},
		{"conta comuni", app.OpCountByMunicipality, "", 0},
		{"tuttix", app.OpUnknown, "", 0},
		{"", app.OpUnknown, "", 0},
	}
	for _, c := range cases {
		got := app.Parse(c.in)
		if got.Op != c.op || got.Arg != c.arg || got.Row != c.row {
			t.Errorf("Parse(%q) = %+v", c.in, got)
		}
	}
}

func TestOpString(t *testing.T) {
	if app.OpFilterMunicipality.String() != "filter_municipality" {
		t.Fatalf("got %s", app.OpFilterMunicipality)
	}
	if app.Op(999).String() != "unknown" {
		t.Fatalf("got %s", app.Op(999))
	}
}

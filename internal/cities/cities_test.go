package cities

import (
	"strings"
	"testing"
)

const sampleCSV = `address,region_type,region,city_type,city,settlement
"Респ Татарстан, г Казань",респ,Татарстан,г,Казань,
г Москва,г,Москва,,,
,,,г,,Мытищи
"обл Московская, г. Подольск",,,,,
"г Москва",г,Москва,,,
"обл Свердловская, г Нижний Тагил",обл,Свердловская,г,Нижний Тагил,
`

func mustParse(t *testing.T, data string) *Directory {
	t.Helper()

	dir, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return dir
}

func TestParseFallbacks(t *testing.T) {
	dir := mustParse(t, sampleCSV)

	// Second Москва row is a duplicate and must collapse.
	if got := dir.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}

	for _, name := range []string{"Казань", "Москва", "Мытищи", "Подольск", "Нижний Тагил"} {
		if !dir.Exists(name) {
			t.Errorf("Exists(%q) = false, want true", name)
		}
	}

	if dir.Exists("Воронеж") {
		t.Error("Exists(Воронеж) = true for a city that was never loaded")
	}
}

func TestParseDropsNamelessRows(t *testing.T) {
	dir := mustParse(t, "address,region_type,region,city_type,city,settlement\n,,,,,\n")

	if got := dir.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestSuggest(t *testing.T) {
	dir := mustParse(t, sampleCSV)

	got := dir.Suggest("мы", 10)
	if len(got) != 1 || got[0] != "Мытищи" {
		t.Fatalf("Suggest(мы) = %v, want [Мытищи]", got)
	}

	// Prefix matching is case-insensitive and returns the stored casing.
	got = dir.Suggest("НИЖ", 10)
	if len(got) != 1 || got[0] != "Нижний Тагил" {
		t.Fatalf("Suggest(НИЖ) = %v, want [Нижний Тагил]", got)
	}

	if got := dir.Suggest("", 10); got != nil {
		t.Fatalf("Suggest(empty) = %v, want nil", got)
	}

	if got := dir.Suggest("м", 1); len(got) != 1 {
		t.Fatalf("Suggest(м, limit 1) returned %d names, want 1", len(got))
	}
}

func TestSuggestPreservesOrder(t *testing.T) {
	dir := mustParse(t, `address,region_type,region,city_type,city,settlement
,,,г,Мурманск,
,,,г,Москва,
,,,г,Мытищи,
`)

	got := dir.Suggest("м", 10)
	want := []string{"Мурманск", "Москва", "Мытищи"}
	if len(got) != len(want) {
		t.Fatalf("Suggest(м) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Suggest(м)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExistsTrimsAndFoldsCase(t *testing.T) {
	dir := mustParse(t, sampleCSV)

	if !dir.Exists("  казань ") {
		t.Error("Exists should trim whitespace and ignore case")
	}
	if dir.Exists("") {
		t.Error("Exists(empty) = true, want false")
	}
}

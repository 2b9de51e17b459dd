// Package cities holds the static city reference list the registration flow
// checks against. The directory is built once at startup from the same
// city.csv layout the catalog has always shipped with and never mutates.
package cities

import (
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strings"
)

type city struct {
	name  string
	lower string
}

type Directory struct {
	cities []city
}

var cityAbbrevRe = regexp.MustCompile(`(?i)^г\.?\s+`)

// Load reads the CSV file at path. A missing or malformed file yields an
// empty directory: suggestions return nothing and Exists rejects everything
// until an operator fixes the file, which is the intended failure mode.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Directory{}, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse builds a directory from CSV records. The first row is the header.
// City names come from the city column when present; otherwise three
// fallbacks are tried in order: the region when region_type is a city
// marker, the settlement when city_type is a city marker, and finally the
// last comma-separated token of the address with a leading "г"/"г."
// abbreviation stripped. Rows yielding no name are dropped and duplicate
// names collapse to their first occurrence.
func Parse(r io.Reader) (*Directory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return &Directory{}, err
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	dir := &Directory{}
	seen := make(map[string]bool)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &Directory{}, err
		}

		name := field(record, "city")

		if name == "" {
			regionType := strings.ToLower(field(record, "region_type"))
			region := field(record, "region")
			cityType := strings.ToLower(field(record, "city_type"))
			settlement := field(record, "settlement")
			address := field(record, "address")

			// Москва, Санкт-Петербург: region_type "г", region holds the name.
			if strings.HasPrefix(regionType, "г") && region != "" {
				name = region
			}

			if name == "" && strings.HasPrefix(cityType, "г") && settlement != "" {
				name = settlement
			}

			if name == "" && address != "" {
				lastPart := address
				if idx := strings.LastIndex(address, ","); idx >= 0 {
					lastPart = address[idx+1:]
				}
				lastPart = strings.TrimSpace(lastPart)
				lastPart = cityAbbrevRe.ReplaceAllString(lastPart, "")
				name = strings.TrimSpace(lastPart)
			}
		}

		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		dir.cities = append(dir.cities, city{name: name, lower: key})
	}

	return dir, nil
}

// Len reports how many unique cities were loaded.
func (d *Directory) Len() int {
	return len(d.cities)
}

// Suggest returns up to limit city names whose lowercase form starts with
// the query, preserving directory order.
func (d *Directory) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []string
	for _, c := range d.cities {
		if !strings.HasPrefix(c.lower, q) {
			continue
		}
		out = append(out, c.name)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Exists reports whether name matches a directory entry exactly,
// case-insensitively.
func (d *Directory) Exists(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	for _, c := range d.cities {
		if c.lower == n {
			return true
		}
	}
	return false
}

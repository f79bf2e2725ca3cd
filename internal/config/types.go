package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simtools/dbpfkit/internal/tgi"
)

// FilterTypes resolves filter entries to resource type ids. An entry is
// either a known abbreviation such as BHAV or a hex id such as 0x42434F4E;
// abbreviations matching several catalogued types resolve to all of them.
// An empty list resolves to nil, which leaves the scanner on its default
// filter.
func FilterTypes(entries []string) ([]tgi.TypeID, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	var ids []tgi.TypeID
	for _, entry := range entries {
		if entry == "" {
			return nil, fmt.Errorf("filter entry cannot be empty")
		}

		if strings.HasPrefix(strings.ToLower(entry), "0x") {
			raw, err := strconv.ParseUint(entry[2:], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid type id '%s': %w", entry, err)
			}
			ids = append(ids, tgi.TypeID(raw))
			continue
		}

		matched := tgi.TypesByAbbreviation(entry)
		if len(matched) == 0 {
			return nil, fmt.Errorf("unknown resource type '%s': use an abbreviation like BHAV or a hex id like 0x42434F4E", entry)
		}
		ids = append(ids, matched...)
	}

	return ids, nil
}

package domain

// ImportedContact is one parsed row of a contact import
type ImportedContact struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Affiliation *string  `json:"affiliation,omitempty"`
	RequiredCC  []string `json:"requiredCc,omitempty"`
}

// MergeImported reconciles imported records against existing contacts.
//
// A record whose lowercased email matches an existing contact overwrites that
// contact's name, affiliation and required CC list in place, keeping its id.
// Any other record becomes a new contact with id newIDs[i] (i being the
// record's position in imported); when no id was supplied for it, the
// lowercased email is used. Records sharing an email within one batch
// collapse onto a single contact, the last one winning.
//
// existing is never modified. The returned ids are every contact the import
// touched, in first-touch order, without duplicates.
func MergeImported(existing []Contact, imported []ImportedContact, newIDs []string) ([]Contact, []string) {
	merged := make([]Contact, len(existing), len(existing)+len(imported))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, c := range merged {
		key := EmailKey(c.Email)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	touched := make([]string, 0, len(imported))
	seen := make(map[string]bool, len(imported))

	for i, rec := range imported {
		key := EmailKey(rec.Email)
		if key == "" {
			continue
		}

		var id string
		if at, ok := index[key]; ok {
			c := merged[at]
			c.Name = rec.Name
			c.Affiliation = rec.Affiliation
			c.RequiredCC = rec.RequiredCC
			merged[at] = c
			id = c.ID
		} else {
			id = key
			if i < len(newIDs) && newIDs[i] != "" {
				id = newIDs[i]
			}
			merged = append(merged, Contact{
				ID:          id,
				Name:        rec.Name,
				Email:       rec.Email,
				Affiliation: rec.Affiliation,
				RequiredCC:  rec.RequiredCC,
			})
			index[key] = len(merged) - 1
		}

		if !seen[id] {
			seen[id] = true
			touched = append(touched, id)
		}
	}

	return merged, touched
}

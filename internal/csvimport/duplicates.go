package csvimport

// CheckDuplicates flags repeated emails. In one left-to-right pass a record
// whose email was already seen in this batch gets a duplicate_in_file issue;
// every other record's email joins the seen set, valid or not. Independently,
// an email present in existingEmails gets an already_registered issue.
//
// Emails are compared exactly. The returned slice holds copies; records and
// their Errors slices are never modified in place.
func CheckDuplicates(records []Record, existingEmails []string) []Record {
	existing := make(map[string]struct{}, len(existingEmails))
	for _, e := range existingEmails {
		existing[e] = struct{}{}
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))

	for _, rec := range records {
		rec = rec.clone()

		if _, dup := seen[rec.Email]; dup {
			rec.Errors = append(rec.Errors, Issue{
				Code:    CodeDuplicateInFile,
				Field:   ColEmail,
				Line:    rec.Line,
				Message: "duplicate email within file",
			})
		} else {
			seen[rec.Email] = struct{}{}
		}

		if _, taken := existing[rec.Email]; taken {
			rec.Errors = append(rec.Errors, Issue{
				Code:    CodeAlreadyRegistered,
				Field:   ColEmail,
				Line:    rec.Line,
				Message: "email is already registered",
			})
		}

		out = append(out, rec)
	}

	return out
}

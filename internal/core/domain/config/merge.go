package configdomain

// Report describes what a Merge did with each folded record.
type Report struct {
	// Applied lists keys inserted from the records, in record order.
	Applied []string
	// Retained lists keys left untouched because they were already set.
	Retained []string
	// Errors holds the per-key failures; those keys are neither applied
	// nor retained.
	Errors []*KeyError
}

// Fold collapses duplicate names: the last value wins, but each name keeps
// the position of its first occurrence.
func Fold(records []Record) []Record {
	index := make(map[string]int, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.Name]; ok {
			out[i].Value = r.Value
			continue
		}
		index[r.Name] = len(out)
		out = append(out, r)
	}
	return out
}

// Merge inserts records into existing with first-writer-wins precedence and
// returns the new environment. existing is not modified. Records are folded
// first, so duplicates inside one source resolve to their last value.
//
// Composite keys are serialized before the precedence check, other values
// only when they are about to be inserted. A render failure is reported per
// key and the merge carries on.
func Merge(existing Environment, records []Record) (Environment, Report) {
	next := NewEnvironment(existing.vars)
	var report Report

	fail := func(r Record, err error) {
		report.Errors = append(report.Errors, &KeyError{Key: r.Name, Value: string(r.Value), Err: err})
	}

	for _, r := range Fold(records) {
		var (
			value    string
			rendered bool
		)
		if IsCompositeKey(r.Name) {
			v, err := Serialize(r.Value)
			if err != nil {
				fail(r, err)
				continue
			}
			value, rendered = v, true
		}

		if next.Has(r.Name) {
			report.Retained = append(report.Retained, r.Name)
			continue
		}

		if !rendered {
			v, err := Render(r.Name, r.Value)
			if err != nil {
				fail(r, err)
				continue
			}
			value = v
		}
		next.vars[r.Name] = value
		report.Applied = append(report.Applied, r.Name)
	}

	return next, report
}

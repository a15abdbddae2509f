package linker

// Connected returns the terms, in vocabulary order, that already appear as
// the exact label of at least one link in fields.
func (l *Linker) Connected(terms []Term, fields []Field) ([]Term, error) {
	labels := linkLabels(fields)
	connected := make([]Term, 0, len(terms))

	for _, term := range terms {
		pattern, err := l.normalizer.Compile(term.Word)
		if err != nil {
			return nil, err
		}
		for _, label := range labels {
			if pattern.MatchLabel(label) {
				connected = append(connected, term)
				break
			}
		}
	}
	return connected, nil
}

// Connected resolves connected terms with the default normalizer.
func Connected(terms []Term, fields []Field) ([]Term, error) {
	return New().Connected(terms, fields)
}

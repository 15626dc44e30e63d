package highlight

// overlay accumulates spans across features and implements override
// layering: an overriding span clips every earlier span it overlaps,
// splitting stragglers into the uncovered left/right remainders.
type overlay struct {
	spans []Span
}

func (o *overlay) add(span Span, override bool) {
	if !override {
		o.spans = append(o.spans, span)

		return
	}

	kept := make([]Span, 0, len(o.spans)+1)

	for _, existing := range o.spans {
		if existing.End <= span.Start || existing.Start >= span.End {
			kept = append(kept, existing)

			continue
		}

		if existing.Start < span.Start {
			left := existing
			left.End = span.Start
			kept = append(kept, left)
		}

		if existing.End > span.End {
			right := existing
			right.Start = span.End
			kept = append(kept, right)
		}
	}

	o.spans = append(kept, span)
}

func (o *overlay) result() []Span {
	sortSpans(o.spans)

	return o.spans
}

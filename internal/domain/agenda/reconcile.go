package agenda

// ReconcileMinutes adjusts section minutes in place so they sum exactly to
// total. Sections keep their relative weight; rounding leftovers are handed
// out one minute at a time starting from the largest section. When the total
// is smaller than the section count, the heaviest sections get one minute
// each and the rest get zero.
func ReconcileMinutes(a *Agenda, total int) {
	a.Minutes = total
	if len(a.Sections) == 0 || total <= 0 {
		return
	}

	if total < len(a.Sections) {
		order := sortedByMinutesDesc(a.Sections)
		for i, idx := range order {
			if i < total {
				a.Sections[idx].Minutes = 1
			} else {
				a.Sections[idx].Minutes = 0
			}
		}
		return
	}

	current := 0
	for _, sec := range a.Sections {
		current += sec.Minutes
	}
	if current == total {
		return
	}

	if current <= 0 {
		// Degenerate draft: split evenly.
		per := total / len(a.Sections)
		if per < 1 {
			per = 1
		}
		for i := range a.Sections {
			a.Sections[i].Minutes = per
		}
		current = per * len(a.Sections)
	} else {
		// Scale proportionally, floor at 1 minute.
		scaled := 0
		for i := range a.Sections {
			m := a.Sections[i].Minutes * total / current
			if m < 1 {
				m = 1
			}
			a.Sections[i].Minutes = m
			scaled += m
		}
		current = scaled
	}

	// Distribute the rounding difference, heaviest sections first.
	diff := total - current
	order := sortedByMinutesDesc(a.Sections)
	for i := 0; diff != 0 && len(order) > 0; i++ {
		idx := order[i%len(order)]
		if diff > 0 {
			a.Sections[idx].Minutes++
			diff--
		} else if a.Sections[idx].Minutes > 1 {
			a.Sections[idx].Minutes--
			diff++
		}
		if i > 10*total {
			break
		}
	}
}

// FromTemplate builds an empty sectioned agenda from a template, with minutes
// allocated by each section's time share and reconciled to the total.
func FromTemplate(tpl Template, title string, totalMinutes int) Agenda {
	a := Agenda{Title: title, Minutes: totalMinutes}
	for _, ts := range tpl.Sections {
		a.Sections = append(a.Sections, Section{
			Title:   ts.Title,
			Minutes: int(float64(totalMinutes) * ts.TimePct),
		})
	}
	ReconcileMinutes(&a, totalMinutes)
	return a
}

func sortedByMinutesDesc(sections []Section) []int {
	order := make([]int, len(sections))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && sections[order[j]].Minutes > sections[order[j-1]].Minutes; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

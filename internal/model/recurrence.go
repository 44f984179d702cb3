package model

// FiresOn reports whether the rule applies to day d. It depends only on its
// inputs, so it is safe for any date range.
func (r Recurring) FiresOn(d Date) bool {
	if !r.Days.Has(d.Weekday()) {
		return false
	}
	if d.Before(r.Start) {
		return false
	}
	if r.Until != nil && d.After(*r.Until) {
		return false
	}
	if r.IntervalWeeks > 1 {
		weeks := r.Start.WeekStart().DaysUntil(d.WeekStart()) / 7
		return weeks%r.IntervalWeeks == 0
	}
	return true
}

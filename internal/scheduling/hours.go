package scheduling

import "time"

// Branch operating window: Monday through Friday, 08:00 to 15:00 local.
const (
	openHour  = 8
	closeHour = 15
)

// maxDayAdvances bounds the rollover search. Weekend skips alone need at
// most two advances, so any search that runs this long is a logic error
// or a pathologically full horizon.
const maxDayAdvances = 14

func isWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// openingOf returns 08:00:00 on t's local calendar day.
func openingOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, openHour, 0, 0, 0, t.Location())
}

// closingOf returns 15:00:00 on t's local calendar day. A slot exactly at
// closing is still accepted; anything after it exhausts the day.
func closingOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, closeHour, 0, 0, 0, t.Location())
}

// NextWorkingDayOpen returns 08:00 of the first Mon-Fri day after t.
func NextWorkingDayOpen(t time.Time) time.Time {
	d := openingOf(t).AddDate(0, 0, 1)
	for !isWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// LocalDayWindow returns the UTC instants bounding t's local calendar day
// [00:00, 24:00). The ticket store queries estimated times against this
// window.
func LocalDayWindow(t time.Time) (fromUTC, toUTC time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// localDayOf truncates t to its local calendar day (midnight).
func localDayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

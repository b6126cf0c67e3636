package scheduling

import (
	"fmt"
	"time"
)

var weekdaysDA = [...]string{"søndag", "mandag", "tirsdag", "onsdag", "torsdag", "fredag", "lørdag"}

var weekdaysShortDA = [...]string{"søn", "man", "tir", "ons", "tor", "fre", "lør"}

var monthsDA = [...]string{
	"januar", "februar", "marts", "april", "maj", "juni",
	"juli", "august", "september", "oktober", "november", "december",
}

// LongLabel: "tirsdag d. 21. oktober kl. 10:00"
func LongLabel(t time.Time) string {
	return fmt.Sprintf("%s d. %d. %s kl. %02d:%02d",
		weekdaysDA[t.Weekday()], t.Day(), monthsDA[t.Month()-1], t.Hour(), t.Minute())
}

// ShortLabel: "tir 21/10 10:00", sized for SMS.
func ShortLabel(t time.Time) string {
	return fmt.Sprintf("%s %d/%d %02d:%02d",
		weekdaysShortDA[t.Weekday()], t.Day(), int(t.Month()), t.Hour(), t.Minute())
}

// DateLabel: "21. oktober 2025"
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), monthsDA[t.Month()-1], t.Year())
}

// TimeLabel: "10:00"
func TimeLabel(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

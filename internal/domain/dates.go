package domain

import (
	"fmt"
	"time"
)

var spanishWeekdays = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

var spanishMonths = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// Weekday returns the lowercase Spanish weekday name of t.
func Weekday(t time.Time) string {
	return spanishWeekdays[t.Weekday()]
}

// PastWeekday renders "viernes pasado" style phrasing for t.
func PastWeekday(t time.Time) string {
	return Weekday(t) + " pasado"
}

// LongDate renders t as "viernes 3 de mayo de 2024".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s %d de %s de %d", Weekday(t), t.Day(), spanishMonths[t.Month()], t.Year())
}

// ISODate renders t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(time.DateOnly)
}

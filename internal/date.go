package internal

import "time"

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02T15:04"
)

type Date struct {
	time.Time
}

func NewDateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day(), t.Location())
}

func NewDate(year int, month time.Month, day int, loc *time.Location) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

func (d Date) AddDate(years, months, days int) Date {
	t := d.Time.AddDate(years, months, days)
	return NewDate(t.Year(), t.Month(), t.Day(), t.Location())
}

// InLocation keeps the calendar day and moves it to loc.
func (d Date) InLocation(loc *time.Location) Date {
	return NewDate(d.Year(), d.Month(), d.Day(), loc)
}

func Parse(layout, value string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, err
	}
	return NewDateFromTime(t), nil
}

func (d *Date) Set(v string) error {
	parsed, err := Parse(DateFormat, v)
	if err == nil {
		*d = parsed
	}
	return err
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

func (d Date) Type() string {
	return "date"
}

// ParseLocal reads a wall clock such as "2024-08-20T09:00" in loc.
// A value with a seconds component is accepted as well.
func ParseLocal(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeFormat, value, loc)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err2 == nil {
		return t, nil
	}
	return time.Time{}, err
}

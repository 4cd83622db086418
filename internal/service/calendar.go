package service

import (
	"time"

	"rentfleet-backend/internal/domain"
)

// Calendar decides what "today" is for bookings, offers and location gating.
type Calendar struct {
	Now      func() time.Time
	Location *time.Location
}

// NewCalendar returns a calendar for the named IANA zone. An empty name means
// UTC.
func NewCalendar(timezone string) (Calendar, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return Calendar{}, err
		}
		loc = l
	}
	return Calendar{Now: time.Now, Location: loc}, nil
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) Today() domain.Date {
	return domain.DateOf(c.now().In(c.loc()))
}

// ActiveToday applies the midday-normalised "active" predicate.
func (c Calendar) ActiveToday(r domain.DateRange) bool {
	return r.ActiveOn(c.now(), c.loc())
}

package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contactbook/internal/model"
)

// DefaultBirthdayWindow is the number of days after the reference date that are still
// considered upcoming.
const DefaultBirthdayWindow = 7

// UpcomingBirthdays returns the contacts whose birthday, regardless of the year, falls on one
// of the days from the reference date up to and including the reference date plus days. The
// result is sorted by the next anniversary, then by id.
//
// Contacts born on February 29 celebrate on March 1 in non-leap years.
func (s *Store) UpcomingBirthdays(ctx context.Context, reference model.Date, days int) ([]model.Contact, error) {
	if days < 0 {
		return nil, fmt.Errorf("negative birthday window %d", days)
	}
	keys := birthdayKeys(reference, days)

	query, args, err := sqlx.In(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE birthday IS NOT NULL
			AND EXTRACT(MONTH FROM birthday) * 100 + EXTRACT(DAY FROM birthday) IN (?)`, keys)
	if err != nil {
		return nil, fmt.Errorf("build birthday query: %w", err)
	}
	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("upcoming birthdays: %w", err)
	}

	slices.SortStableFunc(contacts, func(a, b model.Contact) int {
		da := daysUntilBirthday(reference, *a.Birthday)
		db := daysUntilBirthday(reference, *b.Birthday)
		if da != db {
			return da - db
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return contacts, nil
}

// birthdayKeys lists month*100+day for every day of the window. A window that contains
// March 1 of a non-leap year also contains February 29.
func birthdayKeys(reference model.Date, days int) []int {
	keys := make([]int, 0, days+2)
	for i := 0; i <= days; i++ {
		d := reference.AddDays(i)
		keys = append(keys, int(d.Month())*100+d.Day())
		if d.Month() == time.March && d.Day() == 1 && !isLeap(d.Year()) {
			keys = append(keys, 229)
		}
	}
	return keys
}

// daysUntilBirthday returns the number of days from the reference date to the next anniversary
// of the birthday, counting the reference date itself as zero.
func daysUntilBirthday(reference model.Date, birthday model.Date) int {
	for year := reference.Year(); ; year++ {
		// time.Date normalizes February 29 of a non-leap year to March 1.
		next := time.Date(year, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
		if !next.Before(reference.Time) {
			return int(next.Sub(reference.Time).Hours() / 24)
		}
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

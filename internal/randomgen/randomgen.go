// Package randomgen produces plausible random contacts for seeding, load tests and
// integration tests.
package randomgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contactbook/internal/model"
)

var firstNames = []string{
	"Adam", "Anna", "Berta", "Dirk", "David", "Erika", "Eva", "Hans", "Jan", "Julius",
	"Karel", "Lucie", "Marc", "Marie", "Michael", "Pavla", "Petr", "Rudi", "Tereza", "Zacharias",
}

var lastNames = []string{
	"Anton", "Becker", "Cäsar", "Dvořák", "Fischer", "Horák", "Krummacker", "Lee", "Müller",
	"Mustermann", "Novák", "Procházka", "Schmidt", "Schneider", "Svoboda", "Völler", "Wagner",
	"Weber", "Wurst", "Zeman",
}

var domains = []string{"example.com", "example.org", "mail.test", "contacts.test"}

var notes = []string{"met at conference", "neighbour", "colleague", "school friend", "family"}

// PickFirstName returns a random first name.
func PickFirstName() string {
	return firstNames[rand.IntN(len(firstNames))]
}

// PickLastName returns a random last name.
func PickLastName() string {
	return lastNames[rand.IntN(len(lastNames))]
}

// PickPhone returns a random Czech style phone number.
func PickPhone() string {
	return fmt.Sprintf("+420 %03d %03d %03d", rand.IntN(1000), rand.IntN(1000), rand.IntN(1000))
}

// PickBirthday returns a random date between 1930 and the end of 2010.
func PickBirthday() model.Date {
	start := time.Date(1930, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)
	return model.DateOf(start.AddDate(0, 0, rand.IntN(days)))
}

// Email derives an address from a name.
func Email(first, last string) string {
	local := strings.ToLower(first + "." + last)
	return fmt.Sprintf("%s%d@%s", local, rand.IntN(100), domains[rand.IntN(len(domains))])
}

// Contact returns a contact with all mandatory fields and a random subset of the optional ones.
// The id is zero.
func Contact() model.Contact {
	first, last := PickFirstName(), PickLastName()
	c := model.Contact{
		FirstName: first,
		LastName:  last,
		Email:     Email(first, last),
	}
	if rand.IntN(4) > 0 {
		phone := PickPhone()
		c.Phone = &phone
	}
	if rand.IntN(4) > 0 {
		birthday := PickBirthday()
		c.Birthday = &birthday
	}
	if rand.IntN(3) == 0 {
		note := notes[rand.IntN(len(notes))]
		c.Note = &note
	}
	return c
}

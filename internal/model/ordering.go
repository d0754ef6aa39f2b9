package model

import (
	"fmt"
	"slices"
)

// orderColumns are the contact properties by which results can be sorted.
var orderColumns = []string{"id", "first_name", "last_name", "email", "phone", "birthday"}

// Ordering describes the sort order of a contact list. The zero value sorts by id, lowest
// first.
type Ordering struct {
	Column     string
	Descending bool
}

// NewOrdering validates the column name. An empty column selects the id.
func NewOrdering(column string, ascending bool) (Ordering, error) {
	if column == "" {
		column = "id"
	}
	if !slices.Contains(orderColumns, column) {
		return Ordering{}, fmt.Errorf("invalid order column %q", column)
	}
	return Ordering{Column: column, Descending: !ascending}, nil
}

// SQL renders the ordering as an ORDER BY expression. Unknown columns fall back to the id so
// that the result can always be interpolated into a query.
func (o Ordering) SQL() string {
	column := o.Column
	if !slices.Contains(orderColumns, column) {
		column = "id"
	}
	direction := "ASC"
	if o.Descending {
		direction = "DESC"
	}
	if column == "id" {
		return "id " + direction
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

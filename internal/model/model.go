package model

// Contact is the data structure for a person that we know.
// First name, last name and email are mandatory, all other fields are optional.
type Contact struct {
	Id        int64   `json:"id"         db:"id"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name"  db:"last_name"`
	Email     string  `json:"email"      db:"email"`
	Phone     *string `json:"phone"      db:"phone"`
	Birthday  *Date   `json:"birthday"   db:"birthday"`
	Note      *string `json:"note"       db:"note"`
}

// ContactUpdate carries the fields of a partial update. Keys missing from the JSON document
// leave the stored value untouched, an explicit null clears it. A new contact is read into a
// ContactUpdate as well, so that a missing mandatory key can be told apart from an empty string.
type ContactUpdate struct {
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
	Email     Optional[string] `json:"email"`
	Phone     Optional[string] `json:"phone"`
	Birthday  Optional[Date]   `json:"birthday"`
	Note      Optional[string] `json:"note"`
}

// Empty reports whether the update does not touch any field.
func (u ContactUpdate) Empty() bool {
	return !u.FirstName.Set && !u.LastName.Set && !u.Email.Set &&
		!u.Phone.Set && !u.Birthday.Set && !u.Note.Set
}

// Apply returns a copy of the contact with the supplied fields overwritten.
func (u ContactUpdate) Apply(c Contact) Contact {
	if u.FirstName.Set {
		c.FirstName = u.FirstName.Value
	}
	if u.LastName.Set {
		c.LastName = u.LastName.Value
	}
	if u.Email.Set {
		c.Email = u.Email.Value
	}
	if u.Phone.Set {
		c.Phone = u.Phone.Ptr()
	}
	if u.Birthday.Set {
		c.Birthday = u.Birthday.Ptr()
	}
	if u.Note.Set {
		c.Note = u.Note.Ptr()
	}
	return c
}

// RequiredFieldCleared returns the JSON name of the first mandatory field that the update
// tries to set to null, or an empty string.
func (u ContactUpdate) RequiredFieldCleared() string {
	switch {
	case u.FirstName.IsNull():
		return "first_name"
	case u.LastName.IsNull():
		return "last_name"
	case u.Email.IsNull():
		return "email"
	}
	return ""
}

// MissingRequiredField returns the JSON name of the first mandatory field that has no value,
// either because the key is absent or because it is null. It returns an empty string if all
// mandatory fields are present. Empty strings count as present.
func (u ContactUpdate) MissingRequiredField() string {
	switch {
	case !u.FirstName.Valid:
		return "first_name"
	case !u.LastName.Valid:
		return "last_name"
	case !u.Email.Valid:
		return "email"
	}
	return ""
}

// SearchCriteria restricts a contact query. Empty strings are not filtered on.
type SearchCriteria struct {
	FirstName string
	LastName  string
	Email     string
	Order     Ordering
}

// Empty reports whether no filter is set.
func (s SearchCriteria) Empty() bool {
	return s.FirstName == "" && s.LastName == "" && s.Email == ""
}

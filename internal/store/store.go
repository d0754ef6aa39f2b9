// Package store owns the contacts table. It answers all queries of the contact book and is the
// only code that talks SQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contactbook/internal/model"
)

// ErrNotFound is returned by the id-addressed operations if no contact has the given id.
var ErrNotFound = errors.New("contact not found")

// contactColumns is the column list of every query that returns contacts.
const contactColumns = "id, first_name, last_name, email, phone, birthday, note"

// Store is the contact store. It is safe for concurrent use, isolation is left to the
// database.
type Store struct {
	db *sqlx.DB

	// returning is set for databases that hand out generated keys via RETURNING instead of
	// LastInsertId.
	returning bool

	// insert is a prepared statement for creating a contact on the database.
	insert *sqlx.NamedStmt

	// selectWhereId is a prepared statement for selecting the contact with a given id.
	selectWhereId *sqlx.Stmt

	// deleteWhereId is a prepared statement for deleting the contact with a given id.
	deleteWhereId *sqlx.Stmt
}

// New prepares all statements on the given database. The database can be a real database for
// production use or a mock database within unit tests.
func New(db *sqlx.DB) (*Store, error) {
	s := &Store{db: db, returning: sqlx.BindType(db.DriverName()) == sqlx.DOLLAR}

	insertSQL := `
		INSERT INTO contacts (first_name, last_name, email, phone, birthday, note)
		VALUES (:first_name, :last_name, :email, :phone, :birthday, :note)`
	if s.returning {
		insertSQL += " RETURNING id"
	}

	var err error
	// Prepared statements offer a significant speed increase if executed many times.
	s.insert, err = db.PrepareNamed(insertSQL)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	s.selectWhereId, err = db.Preparex(db.Rebind(`
		SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`))
	if err != nil {
		return nil, fmt.Errorf("prepare select: %w", err)
	}
	s.deleteWhereId, err = db.Preparex(db.Rebind(`
		DELETE FROM contacts WHERE id = ?`))
	if err != nil {
		return nil, fmt.Errorf("prepare delete: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements. The database handle stays open.
func (s *Store) Close() error {
	return errors.Join(s.insert.Close(), s.selectWhereId.Close(), s.deleteWhereId.Close())
}

// Insert persists a new contact and returns it with the assigned id. An id set by the caller
// is ignored.
func (s *Store) Insert(ctx context.Context, c model.Contact) (model.Contact, error) {
	if s.returning {
		if err := s.insert.QueryRowxContext(ctx, &c).Scan(&c.Id); err != nil {
			return model.Contact{}, fmt.Errorf("insert contact: %w", err)
		}
		return c, nil
	}
	result, err := s.insert.ExecContext(ctx, &c)
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	c.Id, err = result.LastInsertId()
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

// ListAll returns all contacts in the given order.
func (s *Store) ListAll(ctx context.Context, order model.Ordering) ([]model.Contact, error) {
	contacts := []model.Contact{}
	query := fmt.Sprintf(`SELECT %s FROM contacts ORDER BY %s`, contactColumns, order.SQL())
	if err := s.db.SelectContext(ctx, &contacts, query); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// GetById returns the contact with the given id or ErrNotFound.
func (s *Store) GetById(ctx context.Context, id int64) (model.Contact, error) {
	var c model.Contact
	err := s.selectWhereId.GetContext(ctx, &c, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("get contact %d: %w", id, err)
	}
	return c, nil
}

// Update overwrites the fields supplied in the update, and only those, and returns the new
// version of the contact. An update without fields returns the stored contact unchanged.
func (s *Store) Update(ctx context.Context, id int64, update model.ContactUpdate) (model.Contact, error) {
	if update.Empty() {
		return s.GetById(ctx, id)
	}

	var args []any
	var assignments []string
	set := func(column string, value any) {
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}
	if update.FirstName.Set {
		set("first_name", update.FirstName.Ptr())
	}
	if update.LastName.Set {
		set("last_name", update.LastName.Ptr())
	}
	if update.Email.Set {
		set("email", update.Email.Ptr())
	}
	if update.Phone.Set {
		set("phone", update.Phone.Ptr())
	}
	if update.Birthday.Set {
		set("birthday", update.Birthday.Ptr())
	}
	if update.Note.Set {
		set("note", update.Note.Ptr())
	}
	args = append(args, id)
	query := s.db.Rebind("UPDATE contacts SET " + strings.Join(assignments, ", ") + " WHERE id = ?")

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Contact{}, fmt.Errorf("update contact %d: %w", id, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Contact{}, fmt.Errorf("update contact %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Contact{}, fmt.Errorf("update contact %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return model.Contact{}, ErrNotFound
	}

	// Return the full contact after the update.
	var c model.Contact
	err = tx.GetContext(ctx, &c, s.db.Rebind(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("reload contact %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Contact{}, fmt.Errorf("update contact %d: %w", id, err)
	}
	return c, nil
}

// Delete removes the contact with the given id or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.deleteWhereId.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search returns the contacts that match all given criteria. Each criterion is a
// case-insensitive substring of the respective field. Without criteria all contacts are
// returned.
func (s *Store) Search(ctx context.Context, criteria model.SearchCriteria) ([]model.Contact, error) {
	if criteria.Empty() {
		return s.ListAll(ctx, criteria.Order)
	}

	var conditions []string
	var args []any
	like := func(column, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, "LOWER("+column+") LIKE ?")
		args = append(args, containsPattern(value))
	}
	like("first_name", criteria.FirstName)
	like("last_name", criteria.LastName)
	like("email", criteria.Email)

	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s ORDER BY %s`,
		contactColumns, strings.Join(conditions, " AND "), criteria.Order.SQL())
	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return contacts, nil
}

// likeEscaper escapes the LIKE wildcards so that user input is matched literally. Backslash
// is the default escape character of MySQL and PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a lower case LIKE pattern matching any value that
// contains the term.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

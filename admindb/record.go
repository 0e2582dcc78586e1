// Package admindb reads the administrative account table that the dashboard
// displays. It owns the record model, the single-query executor and the
// driver-specific connection setup.
package admindb

import "strconv"

// Default column names of the administrative table.
const (
	DefaultTable          = "Admin"
	DefaultIDColumn       = "Admin_ID"
	DefaultNameColumn     = "Name"
	DefaultUsernameColumn = "Username"
	DefaultPasswordColumn = "Password"
)

// Record is one row of the administrative table. Text fields are copied
// verbatim from the store.
type Record struct {
	ID       int64
	Name     string
	Username string
	Password string
}

// Cells returns the record as display text in column order.
func (r Record) Cells() []string {
	return []string{strconv.FormatInt(r.ID, 10), r.Name, r.Username, r.Password}
}

// Columns names the result-set columns each Record field is read from.
type Columns struct {
	ID       string
	Name     string
	Username string
	Password string
}

// DefaultColumns returns the column names of the stock Admin table.
func DefaultColumns() Columns {
	return Columns{
		ID:       DefaultIDColumn,
		Name:     DefaultNameColumn,
		Username: DefaultUsernameColumn,
		Password: DefaultPasswordColumn,
	}
}

// Header returns the column names in display order.
func (c Columns) Header() []string {
	return []string{c.ID, c.Name, c.Username, c.Password}
}

func (c Columns) withDefaults() Columns {
	def := DefaultColumns()
	if c.ID == "" {
		c.ID = def.ID
	}
	if c.Name == "" {
		c.Name = def.Name
	}
	if c.Username == "" {
		c.Username = def.Username
	}
	if c.Password == "" {
		c.Password = def.Password
	}
	return c
}

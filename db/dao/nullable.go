package dao

import "database/sql"

type NullString struct {
	sql.NullString
}

// AsPtr returns nil for NULL columns.
func (ns *NullString) AsPtr() *string {
	if !ns.NullString.Valid {
		return nil
	}
	val := ns.NullString.String
	return &val
}

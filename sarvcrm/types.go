package sarvcrm

import (
	"encoding/json"
	"fmt"
)

// Operation names understood by the SarvCRM endpoint. Every call carries one
// of these in the "method" query parameter.
const (
	opLogin             = "Login"
	opLogout            = "Logout"
	opSave              = "Save"
	opRetrieve          = "Retrieve"
	opGetModuleFields   = "GetModuleFields"
	opGetRelationship   = "GetRelationship"
	opSaveRelationships = "SaveRelationships"
)

// Record is one CRM row: a primary key plus whatever fields the module's
// remote schema defines. There is no client-side schema.
type Record map[string]any

// ID returns the record's primary key, or "" if absent.
func (r Record) ID() string {
	return r.String("id")
}

// String returns the named field rendered as a string, or "" if the field
// is absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FieldDef is the remote metadata for one module field, as reported by the
// module-fields endpoint. Its keys (type, label, required, options, ...) are
// owned by the remote service.
type FieldDef map[string]any

// ListOptions bounds one page of a list or relationship query. Query is a
// filter expression in the remote service's dialect and is not parsed
// locally. Zero values are omitted from the request so the remote defaults
// apply.
type ListOptions struct {
	Query        string
	OrderBy      string
	SelectFields []string
	Limit        int
	Offset       int
}

// ListAllOptions configures an exhaustive, paginated list. PageSize falls
// back to the client's default when zero.
type ListAllOptions struct {
	Query        string
	OrderBy      string
	SelectFields []string
	PageSize     int
}

// envelope is the JSON wrapper every SarvCRM response uses: a data member on
// success, a message on error.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

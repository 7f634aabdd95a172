package sarvcrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Descriptor identifies one remote module. Immutable; shared read-only by
// the module's proxy.
type Descriptor struct {
	// Name is the canonical remote identifier (e.g. "Accounts").
	Name string
	// Label is the display name.
	Label string
	// PhoneField names the module's phone-number field, if it has one.
	// Modules with an empty PhoneField are skipped by phone-number search.
	PhoneField string
}

// Module is a generic CRUD proxy for one named remote module. It holds no
// state beyond its immutable descriptor; every operation delegates to the
// owning client's Do.
type Module struct {
	desc   Descriptor
	client *Client
}

func newModule(c *Client, desc Descriptor) *Module {
	return &Module{desc: desc, client: c}
}

// Name returns the canonical remote module identifier.
func (m *Module) Name() string {
	return m.desc.Name
}

// Label returns the module's display name.
func (m *Module) Label() string {
	return m.desc.Label
}

// PhoneField returns the module's phone-number field name, or "".
func (m *Module) PhoneField() string {
	return m.desc.PhoneField
}

func (m *Module) String() string {
	return fmt.Sprintf("<SarvModule %s>", m.desc.Label)
}

// Create inserts a new record with the given field values and returns the
// identifier the remote assigned.
func (m *Module) Create(ctx context.Context, fields Record) (string, error) {
	data, err := m.client.Do(ctx, http.MethodPost, opSave, m.desc.Name, nil, fields)
	if err != nil {
		return "", err
	}
	return decodeID(data)
}

// Read fetches exactly one record by identifier. A zero-row result is
// reported as *NotFoundError, distinct from a general *APIError.
func (m *Module) Read(ctx context.Context, pk string) (Record, error) {
	extra := url.Values{"id": {pk}}
	data, err := m.client.Do(ctx, http.MethodGet, opRetrieve, m.desc.Name, extra, nil)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &TransportError{Op: opRetrieve, Err: fmt.Errorf("decoding record list: %w", err)}
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Module: m.desc.Name, ID: pk}
	}
	return records[0], nil
}

// List fetches one bounded page of records. Results come back in whatever
// order the remote provides, honoring OrderBy when given.
func (m *Module) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	data, err := m.client.Do(ctx, http.MethodPost, opRetrieve, m.desc.Name, nil, listBody(opts))
	if err != nil {
		return nil, err
	}
	return decodeRecords(data, opRetrieve)
}

// ListAll fetches every record matching the query by walking pages of a
// fixed size with increasing offsets. Relative order across pages is
// preserved. Pagination stops at the first short page; when the final page
// is exactly full this costs one extra, empty page request to confirm
// termination. A mid-pagination error is returned immediately with no
// partial results.
func (m *Module) ListAll(ctx context.Context, opts ListAllOptions) ([]Record, error) {
	size := opts.PageSize
	if size <= 0 {
		size = m.client.pageSize
	}

	var all []Record
	for offset := 0; ; offset += size {
		page, err := m.List(ctx, ListOptions{
			Query:        opts.Query,
			OrderBy:      opts.OrderBy,
			SelectFields: opts.SelectFields,
			Limit:        size,
			Offset:       offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			return all, nil
		}
	}
}

// Update applies the given field values to an existing record. The returned
// identifier is the remote's echo and should be treated as canonical; it
// may differ in format from the input.
func (m *Module) Update(ctx context.Context, pk string, fields Record) (string, error) {
	extra := url.Values{"id": {pk}}
	data, err := m.client.Do(ctx, http.MethodPut, opSave, m.desc.Name, extra, fields)
	if err != nil {
		return "", err
	}
	return decodeID(data)
}

// Delete removes a record and returns its identifier. A record the remote
// reports as already absent yields "" with no error.
func (m *Module) Delete(ctx context.Context, pk string) (string, error) {
	extra := url.Values{"id": {pk}}
	data, err := m.client.Do(ctx, http.MethodDelete, opSave, m.desc.Name, extra, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return "", nil
		}
		return "", err
	}

	id, err := decodeID(data)
	if err != nil || id == "" {
		return "", nil
	}
	return id, nil
}

// Fields fetches the remote schema description for the module. Nothing is
// cached; every call round-trips.
func (m *Module) Fields(ctx context.Context) (map[string]FieldDef, error) {
	data, err := m.client.Do(ctx, http.MethodGet, opGetModuleFields, m.desc.Name, nil, nil)
	if err != nil {
		return nil, err
	}

	var fields map[string]FieldDef
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &TransportError{Op: opGetModuleFields, Err: fmt.Errorf("decoding field metadata: %w", err)}
	}
	return fields, nil
}

// Relationships fetches records related through the named relationship
// field, with the same pagination contract as List.
func (m *Module) Relationships(ctx context.Context, relatedField string, opts ListOptions) ([]Record, error) {
	extra := url.Values{"related_field": {relatedField}}
	data, err := m.client.Do(ctx, http.MethodPost, opGetRelationship, m.desc.Name, extra, listBody(opts))
	if err != nil {
		return nil, err
	}
	return decodeRecords(data, opGetRelationship)
}

// SaveRelationships pushes relationship linkage changes for one record and
// returns the remote acknowledgment list. Related entries are record
// identifiers or field payloads, as the remote relationship accepts.
func (m *Module) SaveRelationships(ctx context.Context, pk, fieldName string, related []any) ([]json.RawMessage, error) {
	extra := url.Values{"id": {pk}}
	body := map[string]any{
		"field_name":      fieldName,
		"related_records": related,
	}
	data, err := m.client.Do(ctx, http.MethodPost, opSaveRelationships, m.desc.Name, extra, body)
	if err != nil {
		return nil, err
	}

	var acks []json.RawMessage
	if err := json.Unmarshal(data, &acks); err != nil {
		return nil, &TransportError{Op: opSaveRelationships, Err: fmt.Errorf("decoding acknowledgment list: %w", err)}
	}
	return acks, nil
}

// ListURL returns the frontend URL of the module's list view.
func (m *Module) ListURL() (string, error) {
	return m.frontendURL(m.desc.Name)
}

// DetailURL returns the frontend URL of one record's detail view.
func (m *Module) DetailURL(pk string) (string, error) {
	return m.frontendURL(m.desc.Name, "detail", pk)
}

// EditURL returns the frontend URL of one record's edit view.
func (m *Module) EditURL(pk string) (string, error) {
	return m.frontendURL(m.desc.Name, "edit", pk)
}

func (m *Module) frontendURL(elems ...string) (string, error) {
	joined, err := url.JoinPath(m.client.frontendURL, elems...)
	if err != nil {
		return "", fmt.Errorf("building frontend URL: %w", err)
	}
	return joined, nil
}

// listBody builds the request body for list-shaped operations, omitting
// zero values so the remote defaults apply.
func listBody(opts ListOptions) map[string]any {
	body := make(map[string]any, 5)
	if opts.Query != "" {
		body["query"] = opts.Query
	}
	if opts.OrderBy != "" {
		body["order_by"] = opts.OrderBy
	}
	if len(opts.SelectFields) > 0 {
		body["select_fields"] = opts.SelectFields
	}
	if opts.Limit > 0 {
		body["limit"] = opts.Limit
	}
	if opts.Offset > 0 {
		body["offset"] = opts.Offset
	}
	return body
}

func decodeRecords(data json.RawMessage, op string) ([]Record, error) {
	if len(data) == 0 || strings.TrimSpace(string(data)) == "null" {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decoding record list: %w", err)}
	}
	return records, nil
}

func decodeID(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", &TransportError{Op: opSave, Err: fmt.Errorf("decoding save response: %w", err)}
	}
	return payload.ID, nil
}

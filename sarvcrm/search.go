package sarvcrm

import (
	"context"
	"fmt"
)

// SearchByNumber finds records whose phone-number field matches number.
//
// With mod given, it issues one list query against that module and fails if
// the module declares no phone-number field. With mod nil, it walks every
// registered module that declares one, in registry order; a module whose
// search fails is logged and skipped, so the aggregate reflects only the
// modules that succeeded. Callers needing strict failure semantics should
// search one module at a time.
func (c *Client) SearchByNumber(ctx context.Context, number string, mod *Module) ([]Record, error) {
	if mod != nil {
		if mod.PhoneField() == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoPhoneField, mod.Name())
		}
		return mod.List(ctx, ListOptions{Query: phoneQuery(mod.PhoneField(), number)})
	}

	var matches []Record
	for _, m := range c.Modules() {
		if m.PhoneField() == "" {
			continue
		}
		records, err := m.List(ctx, ListOptions{Query: phoneQuery(m.PhoneField(), number)})
		if err != nil {
			c.logger.Warn().Err(err).Str("module", m.Name()).
				Msg("Phone search failed for module, skipping")
			continue
		}
		matches = append(matches, records...)
	}
	return matches, nil
}

// phoneQuery renders the match in the remote filter dialect.
func phoneQuery(field, number string) string {
	return fmt.Sprintf("%s = '%s'", field, number)
}

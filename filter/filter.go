// Package filter compiles expression-language filters for client-side
// selection of CRM records after they have been fetched. Expressions are
// never sent to the remote service; the remote query dialect remains the
// place for server-side filtering.
//
// Record fields are available as top-level variables, and the full record is
// bound to "record" for fields whose names are not valid identifiers:
//
//	industry == "telecom" and contains(name, "acme")
//	record["annual_revenue_c"] != ""
package filter

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/radin-system/sarvcrm-go/sarvcrm"
)

// Filter is a compiled record predicate. Compiled filters are immutable and
// safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile validates and compiles an expression into a Filter.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // record fields are schema-free
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Match evaluates the filter against one record. Records that cause an
// evaluation error are treated as non-matching.
func (f *Filter) Match(record sarvcrm.Record) bool {
	env := helperFunctions()
	for key, value := range record {
		env[key] = value
	}
	env["record"] = record

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	// AsBool at compile time guarantees the assertion.
	return result.(bool)
}

// Apply returns the records matching the filter, preserving input order.
func (f *Filter) Apply(records []sarvcrm.Record) []sarvcrm.Record {
	var matched []sarvcrm.Record
	for _, record := range records {
		if f.Match(record) {
			matched = append(matched, record)
		}
	}
	return matched
}

// Expression returns the original expression.
func (f *Filter) Expression() string {
	return f.expression
}

// helperFunctions builds the helpers available inside expressions.
func helperFunctions() map[string]any {
	env := make(map[string]any, 16)

	// String helpers (case-insensitive, since CRM data casing is messy)
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper

	// Date helpers for the remote's date field formats
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["now"] = time.Now

	return env
}

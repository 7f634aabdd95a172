package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radin-system/sarvcrm-go/sarvcrm"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{name: "field comparison", expression: `industry == "telecom"`},
		{name: "helper call", expression: `contains(name, "acme")`},
		{name: "record index", expression: `record["annual_revenue_c"] != ""`},
		{name: "empty expression", expression: "   ", wantErr: true},
		{name: "syntax error", expression: `name ==`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				var compErr *CompilationError
				require.ErrorAs(t, err, &compErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, f.Expression())
		})
	}
}

func TestMatch(t *testing.T) {
	record := sarvcrm.Record{
		"id":           "acc-1",
		"name":         "Acme Telecom",
		"industry":     "telecom",
		"date_entered": "2020-01-15",
		"billing_city": "Tehran",
		"erp_code_c":   "A-77",
	}

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{name: "equality", expression: `industry == "telecom"`, want: true},
		{name: "inequality", expression: `billing_city == "Shiraz"`, want: false},
		{name: "case-insensitive contains", expression: `contains(name, "ACME")`, want: true},
		{name: "startsWith", expression: `startsWith(name, "acme")`, want: true},
		{name: "record index for awkward names", expression: `record["erp_code_c"] == "A-77"`, want: true},
		{name: "date helper", expression: `parseDate(date_entered) < daysAgo(30)`, want: true},
		{name: "undefined field is nil", expression: `assigned_user == nil`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(record))
		})
	}
}

func TestMatchEvaluationError(t *testing.T) {
	// Type mismatch at runtime: treated as non-matching, not a panic.
	f, err := Compile(`contains(record["count"], "x")`)
	require.NoError(t, err)
	assert.False(t, f.Match(sarvcrm.Record{"count": 3}))
}

func TestApply(t *testing.T) {
	records := []sarvcrm.Record{
		{"id": "1", "industry": "telecom"},
		{"id": "2", "industry": "retail"},
		{"id": "3", "industry": "telecom"},
	}

	f, err := Compile(`industry == "telecom"`)
	require.NoError(t, err)

	matched := f.Apply(records)
	require.Len(t, matched, 2)
	assert.Equal(t, "1", matched[0].ID())
	assert.Equal(t, "3", matched[1].ID())
}

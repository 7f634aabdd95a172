package sarvcrm

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchByNumberScoped(t *testing.T) {
	t.Run("queries the module's phone field", func(t *testing.T) {
		client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Retrieve", r.URL.Query().Get("method"))
			assert.Equal(t, "Contacts", r.URL.Query().Get("module"))

			body := decodeBody(t, r)
			assert.Equal(t, "phone_mobile = '+982112345678'", body["query"])

			writeData(t, w, []Record{{"id": "con-1"}})
		}))

		records, err := client.SearchByNumber(context.Background(), "+982112345678", client.Contacts)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "con-1", records[0].ID())
	})

	t.Run("module without phone field", func(t *testing.T) {
		client := newAuthedClient(t, http.NewServeMux())

		_, err := client.SearchByNumber(context.Background(), "+98210000", client.AosInvoices)
		assert.ErrorIs(t, err, ErrNoPhoneField)
	})
}

func TestSearchByNumberAllModules(t *testing.T) {
	var searched []string
	client := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		module := r.URL.Query().Get("module")
		searched = append(searched, module)

		switch module {
		case "Contacts":
			// A failing module must not abort the remaining searches.
			writeAPIError(t, w, http.StatusBadRequest, "query timed out")
		case "Accounts":
			writeData(t, w, []Record{{"id": "acc-1"}})
		case "Leads":
			writeData(t, w, []Record{{"id": "lead-1"}, {"id": "lead-2"}})
		default:
			writeData(t, w, []Record{})
		}
	}))

	records, err := client.SearchByNumber(context.Background(), "+982112345678", nil)
	require.NoError(t, err)

	// Only phone-bearing modules are walked, in registry order.
	var wantModules []string
	for _, d := range moduleDescriptors {
		if d.PhoneField != "" {
			wantModules = append(wantModules, d.Name)
		}
	}
	assert.Equal(t, wantModules, searched)

	require.Len(t, records, 3)
	assert.Equal(t, "acc-1", records[0].ID())
	assert.Equal(t, "lead-1", records[1].ID())
	assert.Equal(t, "lead-2", records[2].ID())
}

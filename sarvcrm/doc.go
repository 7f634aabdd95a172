// Package sarvcrm provides a client for the SarvCRM web service API.
//
// The client manages the session lifecycle (login, token reuse, logout) and
// exposes one generic CRUD proxy per remote module (Accounts, Contacts,
// AosInvoices, ...). Every operation funnels through a single request
// chokepoint that speaks the remote wire contract: one endpoint URL, an
// operation name and module in the query string, a JSON body, and a bearer
// session token.
//
// # Usage
//
// Create a client with the tenant and credentials, then run work inside a
// managed session:
//
//	client, err := sarvcrm.New(sarvcrm.Config{
//		UType:    "mycompany",
//		Username: "apiuser",
//		Password: "secret",
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = client.WithSession(ctx, func(ctx context.Context) error {
//		accounts, err := client.Accounts.ListAll(ctx, sarvcrm.ListAllOptions{})
//		if err != nil {
//			return err
//		}
//		for _, account := range accounts {
//			fmt.Println(account.ID(), account.String("name"))
//		}
//		return nil
//	})
//
// WithSession logs in if needed and guarantees logout on every exit path,
// including when the enclosed function returns an error. Login and Logout
// can also be called explicitly for long-lived sessions.
//
// # Error Handling
//
// Failures surface immediately; the client performs no retries.
//
//   - *AuthError: login rejected or could not complete
//   - *APIError: application-level error reported by the remote, with the
//     status code and message passed through
//   - *TransportError: network failure, 5xx, or unparseable response
//   - *NotFoundError: a single-record Read matched zero rows; also matches
//     errors.Is(err, ErrNotFound)
//
// The two softened paths: Delete on an already-absent record returns ""
// without error, and the all-module phone-number search skips modules whose
// query fails.
//
// A Client issues one request at a time and is not safe for concurrent use
// without external locking.
package sarvcrm

package sarvcrm

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout    time.Duration
	pageSize   int
	userAgent  string
	httpClient *http.Client
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		timeout:   defaultTimeout,
		pageSize:  DefaultPageSize,
		userAgent: "sarvcrm-go",
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithPageSize sets the default page size used by ListAll.
func WithPageSize(size int) Option {
	return func(o *clientOptions) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient sets a custom HTTP client, overriding WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

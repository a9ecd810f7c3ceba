// Package httpclient is the HTTP transport for remote inference backends.
//
// An Adapter resolves paths against a base URL, applies default headers and
// authentication, waits on an optional rate limiter and classifies failures
// into AppErrors so the provider resilience chain can tell a retryable 503
// from a fatal 401.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:    "gemini",
//	    BaseURL: "https://generativelanguage.googleapis.com/v1beta",
//	    Timeout: 5 * time.Minute,
//	    Auth:    httpclient.APIKeyAuthHeader(key, "x-goog-api-key"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/models/gemini-2.5-flash:generateContent",
//	    Body:   payload,
//	})
package httpclient

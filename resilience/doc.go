// Package resilience retries transient failures when talking to remote
// transcription backends.
//
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(3), func() (*Response, error) {
//		return client.post(ctx, path)
//	})
package resilience

// Package tonplace provides a client for the TonPlace social network API.
//
// A Client holds one authenticated HTTP session. Every call goes through a
// single request primitive, Client.Do, which sends the request, decodes the
// JSON body and classifies failures:
//
//   - a 5xx status fails with apierror.ErrServiceUnavailable
//   - a body that is not JSON fails with apierror.ErrInvalidResponse, the raw
//     text in the error's Body
//   - an object with "code": "fatal" fails with apierror.ErrRequestFailed, or
//     is returned as raw text when the client is built WithReturnErrors(true)
//   - anything else is returned as decoded
//
// Failed requests are retried according to a retry.Policy: a fixed delay
// between attempts, bounded by an attempt count and an elapsed-time budget.
// Retries are not deduplicated server-side, so CreatePost, WriteComment and
// SendTON may take effect more than once.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tonplace.NewClient(token, logger,
//		tonplace.WithProxy("socks5://127.0.0.1:1080"),
//		tonplace.WithRetryPolicy(retry.Policy{MaxAttempts: 3, Delay: time.Second}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	me, err := client.GetMe(ctx)
//
// Tokens come from the auth package.
package tonplace

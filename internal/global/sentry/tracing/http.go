package tracing

import (
	"net/url"

	"homeforge/config"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
)

// SetupRestyTracing makes client open an http.client span per request and propagate the trace.
func SetupRestyTracing(client *resty.Client) {
	if !config.Get().Sentry.Tracing.TraceHTTPCalls {
		return
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		parent := sentry.SpanFromContext(req.Context())
		if parent == nil {
			return nil
		}
		span := parent.StartChild("http.client")
		span.Description = req.Method + " " + sanitizeURL(req.URL)
		span.SetData("http.request.method", req.Method)

		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentry.SpanFromContext(resp.Request.Context())
		if span == nil {
			return nil
		}
		span.SetData("http.response.status_code", resp.StatusCode())
		if resp.StatusCode() >= 400 {
			span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode())
		} else {
			span.Status = sentry.SpanStatusOK
		}
		span.Finish()
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		if span := sentry.SpanFromContext(req.Context()); span != nil {
			span.Status = sentry.SpanStatusInternalError
			span.SetData("http.error", err.Error())
			span.Finish()
		}
	})
}

// sanitizeURL keeps scheme, host and path; query strings may carry tokens.
func sanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return "unknown"
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.User = nil
	if s := parsed.String(); s != "" {
		return s
	}
	return "unknown"
}

package main

import (
	"time"

	"github.com/utkarsh5026/asynchttp/httpclient"
)

// scenario is one request replayed by the sync or async command.
type scenario struct {
	name    string
	request *httpclient.Request

	// waitFor, when set, makes the async command poll the future with
	// WaitFor before blocking on Get.
	waitFor time.Duration
}

func get(url string) *httpclient.Request {
	return httpclient.NewRequest(httpclient.MethodGet, url)
}

func post(url, body string) *httpclient.Request {
	return httpclient.NewRequest(httpclient.MethodPost, url).SetBody(body)
}

// The timeout scenarios are sized against the fixture's processing time so
// the "shorter" request always times out and the "longer" one never does.
func timeoutBounds(processing time.Duration) (shorter, longer time.Duration) {
	return processing / 2, processing * 2
}

func syncScenarios(processing time.Duration) []scenario {
	shorter, longer := timeoutBounds(processing)
	return []scenario{
		{name: "get ok", request: get("http://example.com/ok")},
		{name: "get ok over https", request: get("https://example.com/ok")},
		{name: "get unhandled path", request: get("http://example.com/error")},
		{name: "get created", request: get("http://example.com/created")},
		{name: "get unknown host", request: get("http://unknown.com/resource")},
		{name: "post submit", request: post("http://example.com/submit", `{"name":"asynchttp","version":"0.1"}`)},
		{name: "post create resource", request: post("http://example.com/create_resource", `{"item":"new_gadget","type":"electronics"}`)},
		{name: "post submit empty body", request: post("http://example.com/submit", "")},
		{
			name: "echo headers",
			request: get("http://example.com/echo_headers").
				SetHeader("X-Custom-Header", "my_value_get").
				SetHeader("Authorization", "Bearer test_token_get").
				SetHeader("X-Mirror-Me", "HelloGET"),
		},
		{
			name: "echo headers post over https",
			request: post("https://example.com/echo_headers", `{"custom_data":"example_payload"}`).
				SetHeader("X-Custom-Header", "my_value_post").
				SetHeader("Content-Type", "application/json-custom").
				SetHeader("X-Mirror-Me", "HelloPOST"),
		},
		{name: "timeout shorter than processing", request: get("http://example.com/timeout_sync").SetTimeout(shorter)},
		{name: "timeout longer than processing", request: get("http://example.com/timeout_sync").SetTimeout(longer)},
		{name: "zero timeout", request: get("http://example.com/timeout_sync").SetTimeout(0)},
	}
}

func asyncScenarios(processing time.Duration) []scenario {
	shorter, longer := timeoutBounds(processing)
	return []scenario{
		{name: "get ok", request: get("http://example.com/ok")},
		{name: "get unhandled path", request: get("http://example.com/error")},
		{name: "get created over https", request: get("https://example.com/created")},
		{name: "get unknown host", request: get("http://nonexistent.com/data")},
		{name: "get ok again (pool reuse)", request: get("http://example.com/ok")},
		{name: "post submit", request: post("http://example.com/submit_async", `{"data":"async_payload_1"}`)},
		{name: "post submit other body", request: post("http://example.com/submit_async", `{"item_id":789,"status":"pending_async"}`)},
		{name: "post create resource over https", request: post("https://example.com/create_resource", `{"product":"async_widget","quantity":50}`)},
		{
			name: "echo headers",
			request: get("http://example.com/echo_headers_async").
				SetHeader("X-Async-Header", "Value-Async-GET").
				SetHeader("X-Mirror-Me", "AsyncGETEcho"),
		},
		{
			name: "echo headers post over https",
			request: post("https://example.com/echo_headers_async", `{"item_id":101,"type":"async_custom_post"}`).
				SetHeader("X-Async-Header", "Value-Async-POST").
				SetHeader("X-Custom-Auth", "Bearer async_token_post").
				SetHeader("X-Mirror-Me", "AsyncPOSTEcho"),
		},
		{name: "timeout shorter than processing", request: get("http://example.com/timeout_async").SetTimeout(shorter)},
		{name: "timeout longer than processing", request: get("http://example.com/timeout_async").SetTimeout(longer)},
		{
			name:    "client side wait_for",
			request: get("http://example.com/timeout_async_waitfor").SetTimeout(longer),
			waitFor: shorter,
		},
	}
}

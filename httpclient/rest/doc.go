// Package rest adds typed JSON helpers on top of httpclient.
//
//	resp, err := rest.Post[chatResponse](ctx, client, "/chat/completions", req)
package rest

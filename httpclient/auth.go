package httpclient

import "net/http"

// Auth decorates an outgoing request with credentials. A nil Auth sends
// the request as is.
type Auth func(req *http.Request)

// BearerAuth sends "Authorization: Bearer <token>". An empty token sends
// nothing, so optional keys can be passed through unconditionally.
func BearerAuth(token string) Auth {
	if token == "" {
		return nil
	}
	return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
}

package httpclient

import "net/http"

// AuthConfig carries an API key sent on every request.
type AuthConfig struct {
	// Key is the secret. An empty key sends nothing.
	Key string
	// Header is the header carrying Key.
	Header string
}

// APIKeyAuthHeader sends key in headerName.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Key: key, Header: headerName}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Key == "" || a.Header == "" {
		return
	}
	req.Header.Set(a.Header, a.Key)
}

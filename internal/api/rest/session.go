package rest

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
)

// sessionCookie is the persisted subset of a session cookie. Expiry and
// flags stay server-side; a stale cookie just earns a 401 and a fresh
// login.
type sessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// loadSession seeds the cookie jar from the session file. A missing or
// unreadable file means an unauthenticated client.
func (c *Client) loadSession() {
	if c.sessionFile == "" {
		return
	}
	data, err := os.ReadFile(c.sessionFile)
	if err != nil {
		return
	}
	var stored []sessionCookie
	if json.Unmarshal(data, &stored) != nil {
		return
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"})
	}
	c.jar.SetCookies(c.base, cookies)
}

// saveSession writes the jar's current cookies for the API host. Failures
// are swallowed: losing the file costs a re-login, never the operation.
func (c *Client) saveSession() {
	if c.sessionFile == "" {
		return
	}
	cookies := c.jar.Cookies(c.base)
	stored := make([]sessionCookie, 0, len(cookies))
	for _, ck := range cookies {
		stored = append(stored, sessionCookie{Name: ck.Name, Value: ck.Value})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return
	}
	if dir := filepath.Dir(c.sessionFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return
		}
	}
	_ = os.WriteFile(c.sessionFile, data, 0600)
}

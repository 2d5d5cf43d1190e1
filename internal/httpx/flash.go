package httpx

import (
	"net/http"
	"net/url"
	"time"
)

const flashCookieName = "flash"

// SetFlash stores a one-shot message in a short-lived cookie. Values are
// URL-escaped so messages may contain spaces and punctuation.
func SetFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookieName,
		Value: url.QueryEscape(msg),
		Path:  "/",
		// one minute is plenty for a redirect round trip
		Expires: time.Now().Add(time.Minute),
	})
}

// PopFlash reads and clears the flash cookie, returning the message if any.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	if dec, derr := url.QueryUnescape(c.Value); derr == nil {
		return dec
	}
	return c.Value
}

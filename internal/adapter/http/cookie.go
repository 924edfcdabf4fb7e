package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	cartCookieName   = "cart_id"
	cartCookieMaxAge = 30 * 24 * 60 * 60 // 30 days
)

// setCartCookie binds the session to a cart. The cookie is the sole carrier
// of cart identity; there is no server-side session table.
func setCartCookie(c *gin.Context, cartID string, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cartCookieName, cartID, cartCookieMaxAge, "/", "", secure, true)
}

// readCartCookie returns the cart id and whether one was present. Never
// errors: an absent or empty cookie is simply "no cart".
func readCartCookie(c *gin.Context) (string, bool) {
	v, err := c.Cookie(cartCookieName)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// clearCartCookie overwrites the cookie with Max-Age=0 and the same
// security attributes used on creation.
func clearCartCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cartCookieName, "", -1, "/", "", secure, true)
}

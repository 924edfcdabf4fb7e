package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
)

// TokenHandler issues short-lived JWTs to configured service clients
// (e.g. the fulfillment worker) for the internal admin surface.
type TokenHandler struct {
	cfg configs.Config
}

func NewTokenHandler(cfg configs.Config) *TokenHandler {
	return &TokenHandler{cfg: cfg}
}

// POST /api/token (form)
// Accepts: client_id, client_secret
func (h *TokenHandler) IssueToken(c *gin.Context) {
	clientID := c.PostForm("client_id")
	clientSecret := c.PostForm("client_secret")
	if clientID == "" || clientSecret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false,
			"error": gin.H{"code": "invalid_client", "message": "invalid client"}})
		return
	}

	cl, ok := h.lookupClient(clientID)
	if !ok || !cl.Enabled || clientSecret != cl.Secret {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false,
			"error": gin.H{"code": "invalid_client", "message": "invalid client"}})
		return
	}

	now := time.Now()
	ttl := h.cfg.Security.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	claims := jwt.MapClaims{
		"iss":      h.cfg.Security.Issuer,
		"aud":      h.cfg.Security.Audience,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
		"clientID": clientID,
		"perms":    cl.Perms,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false,
			"error": gin.H{"code": "internal_error", "message": "could not sign token"}})
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(ttl.Seconds()),
	})
}

func (h *TokenHandler) lookupClient(id string) (configs.ServiceClient, bool) {
	for _, cl := range h.cfg.Security.Clients {
		if cl.ID == id {
			return cl, true
		}
	}
	return configs.ServiceClient{}, false
}

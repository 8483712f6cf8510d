package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxRealIPKey = "real_ip"

// ConfigureClientIP restricts which peers may set forwarding headers.
// An empty proxies list trusts none, so c.ClientIP() is the socket peer.
// platform "cloudflare" reads CF-Connecting-IP; any other non-empty value
// is taken as the header name set by the fronting platform.
func ConfigureClientIP(e *gin.Engine, proxies []string, platform string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := e.SetTrustedProxies(proxies); err != nil {
		return err
	}
	switch p := strings.TrimSpace(platform); strings.ToLower(p) {
	case "":
	case "cloudflare":
		e.TrustedPlatform = gin.PlatformCloudflare
	case "google", "appengine":
		e.TrustedPlatform = gin.PlatformGoogleAppEngine
	default:
		e.TrustedPlatform = p
	}
	return nil
}

// RealIP stores c.ClientIP() under CtxRealIPKey for later handlers.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, c.ClientIP())
		c.Next()
	}
}

// ClientIP returns the IP stored by RealIP, falling back to "unknown"
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// AllowPrivateIP bypasses rate limiting for loopback and RFC 1918 clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ClientIP(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

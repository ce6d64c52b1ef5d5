package middleware

import (
	"github.com/gin-gonic/gin"
)

// RemoteIPHeaders are the forwarding headers honoured from trusted proxies, in order.
var RemoteIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// TrustProxies makes c.ClientIP read RemoteIPHeaders only when the direct peer is
// one of trusted (IPs or CIDRs). With an empty list no peer is trusted and the
// client IP is always the socket address.
func TrustProxies(engine *gin.Engine, trusted []string) error {
	engine.RemoteIPHeaders = append([]string(nil), RemoteIPHeaders...)
	if len(trusted) == 0 {
		return engine.SetTrustedProxies(nil)
	}
	return engine.SetTrustedProxies(trusted)
}

// RealIP stores the client IP under "real_ip". Configure the engine with
// TrustProxies first, otherwise gin trusts forwarding headers from anyone.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

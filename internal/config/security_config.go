package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD route-template" to the required
// security level. Routes that are not listed need an access token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /health":      SecurityPublic,
	"GET /metrics":     SecurityPublic,
	"POST /auth/login": SecurityPublic,

	// Agent-facing report and workspace routes are open; the agent UI has no
	// login of its own.
	"POST /api/reports/upload": SecurityPublic,
	"GET /api/tenants":         SecurityPublic,

	// Account manager administration
	"GET /manager":           SecurityAccess,
	"POST /manager/register": SecurityAccess,
	"PUT /manager/{id}":      SecurityAccess,
	"DELETE /manager/{id}":   SecurityAccess,

	// Tenant directory and stored reports
	"POST /api/tenants":                             SecurityAccess,
	"POST /api/tenants/{tenantId}/posids":           SecurityAccess,
	"DELETE /api/tenants/{tenantId}":                SecurityAccess,
	"DELETE /api/tenants/{tenantId}/posids/{posId}": SecurityAccess,
	"GET /api/reports":                              SecurityAccess,
	"GET /api/reports/{id}":                         SecurityAccess,
	"GET /api/reports/{id}/export":                  SecurityAccess,
	"DELETE /api/reports/{id}":                      SecurityAccess,
}

// publicPrefixes are route-template prefixes open without a token.
var publicPrefixes = []string{
	"/api/pos/",
}

// GetSecurityLevel returns the level for a request method and mux route
// template.
func GetSecurityLevel(method, template string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+template]; ok {
		return level
	}
	for _, p := range publicPrefixes {
		if len(template) >= len(p) && template[:len(p)] == p {
			return SecurityPublic
		}
	}
	return SecurityAccess
}

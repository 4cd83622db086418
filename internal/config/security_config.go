package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD /path/template" routes to their
// required security level. Routes missing from the map require an access
// token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /healthz": SecurityPublic,

	// Vehicles - Public browsing
	"GET /api/v1/vehicles":              SecurityPublic,
	"GET /api/v1/vehicles/{id}":         SecurityPublic,
	"GET /api/v1/vehicles/{id}/reviews": SecurityPublic,

	// Vehicles - Access Protected
	"POST /api/v1/vehicles":                        SecurityAccess,
	"GET /api/v1/vehicles/mine":                    SecurityAccess,
	"PUT /api/v1/vehicles/{id}":                    SecurityAccess,
	"DELETE /api/v1/vehicles/{id}":                 SecurityAccess,
	"GET /api/v1/vehicles/{id}/availability":       SecurityAccess,
	"POST /api/v1/vehicles/{id}/quote":             SecurityAccess,
	"POST /api/v1/vehicles/{id}/reviews":           SecurityAccess,
	"POST /api/v1/vehicles/{id}/location":          SecurityAccess,
	"GET /api/v1/vehicles/{id}/location":           SecurityAccess,
	"GET /api/v1/vehicles/{id}/location/active":    SecurityAccess,
	"GET /api/v1/vehicles/{id}/location/stream":    SecurityAccess,

	// Reservations - Access Protected
	"POST /api/v1/reservations":              SecurityAccess,
	"GET /api/v1/reservations":               SecurityAccess,
	"GET /api/v1/reservations/{id}":          SecurityAccess,
	"POST /api/v1/reservations/{id}/rebook":  SecurityAccess,
	"GET /api/v1/reservations/{id}/invoice":  SecurityAccess,

	// Offers - Access Protected
	"GET /api/v1/offers":         SecurityAccess,
	"POST /api/v1/offers":        SecurityAccess,
	"GET /api/v1/offers/{id}":    SecurityAccess,
	"PUT /api/v1/offers/{id}":    SecurityAccess,
	"DELETE /api/v1/offers/{id}": SecurityAccess,
}

// GetSecurityLevel returns the security level for a route
func GetSecurityLevel(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}

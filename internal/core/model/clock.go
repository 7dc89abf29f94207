package model

import "time"

// RequestContext carries the request-scoped values consumed by default-value
// providers: a precomputed "now" and the client address. It is passed
// explicitly to every provider — there is no ambient current-request global.
// A nil RequestContext is valid and means "no active request".
type RequestContext struct {
	Now        time.Time
	ClientAddr string
}

// Now returns the request-scoped time when one is available, falling back to
// wall-clock UTC. It is evaluated fresh at each call so repeated reads within
// one request stay consistent while reads across requests diverge.
func Now(req *RequestContext) time.Time {
	if req != nil && !req.Now.IsZero() {
		return req.Now
	}
	return time.Now().UTC()
}

// ClientAddr returns the client address of the active request, or
// "unavailable" when no request is in flight.
func ClientAddr(req *RequestContext) string {
	if req != nil && req.ClientAddr != "" {
		return req.ClientAddr
	}
	return "unavailable"
}

// Provider produces a field value from the current request context.
type Provider func(req *RequestContext) any

// Static returns a provider that always yields v.
func Static(v any) Provider {
	return func(*RequestContext) any { return v }
}

// TimeNow is a Provider yielding the context-aware current time.
func TimeNow(req *RequestContext) any {
	return Now(req)
}

// Names of the system-managed timestamp fields.
const (
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// TimestampFields returns the created_at/updated_at field pair shared by all
// timestamped entity types. created_at is set once at insert; updated_at is
// set at insert and refreshed on every update. Neither is externally
// readable or writable.
func TimestampFields() []*Field {
	return []*Field{
		F(FieldCreatedAt, 0, NoRW(), Default(TimeNow)),
		F(FieldUpdatedAt, 0, NoRW(), Default(TimeNow), OnUpdate(TimeNow)),
	}
}

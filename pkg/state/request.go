package state

import (
	"context"
)

const (
	CurrentRequestId = "CurrentRequestId"
	CurrentUserIP    = "CurrentIP"
)

// CurrentRequestID returns the request id claimed by the middleware, or an
// empty string outside a request scope.
func CurrentRequestID(ctx context.Context) string {
	value := ctx.Value(CurrentRequestId)
	if value == nil {
		return ""
	}

	requestID, ok := value.(string)
	if !ok {
		return ""
	}

	return requestID
}

func CurrentIP(ctx context.Context) string {
	value := ctx.Value(CurrentUserIP)
	if value == nil {
		return ""
	}

	ip, ok := value.(string)
	if !ok {
		return ""
	}

	return ip
}

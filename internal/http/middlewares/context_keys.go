package middlewares

// Keys under which request-scoped values live on the gin context.
const (
	CtxRequestID = "request_id"
)

package middlewares

type ctxKey string

const (
	CtxUserID    ctxKey = "auth.userID"
	CtxRole      ctxKey = "auth.role"
	CtxRequestID ctxKey = "request.id"
)

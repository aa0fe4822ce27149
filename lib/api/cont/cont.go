package cont

import "context"

type ctxKey string

const callerKey ctxKey = "apiCaller"

// PutCaller stores the authenticated API caller label in the request context.
func PutCaller(c context.Context, caller string) context.Context {
	return context.WithValue(c, callerKey, caller)
}

func GetCaller(c context.Context) string {
	caller, ok := c.Value(callerKey).(string)
	if !ok {
		return ""
	}
	return caller
}

package middleware

import "context"

type ctxKey int

const userKey ctxKey = iota

// UserInfo is the caller identity resolved by the Authorizer.
type UserInfo struct {
	Subject string
	Roles   []string
}

// IsAnonymous reports whether nobody is logged in.
func (u *UserInfo) IsAnonymous() bool {
	return u.Subject == "" || u.Subject == anonymous
}

// GetUserInfo returns the caller stored by SetUserInfo, or an anonymous
// caller.
func GetUserInfo(ctx context.Context) *UserInfo {
	if u, ok := ctx.Value(userKey).(*UserInfo); ok {
		return u
	}
	return &UserInfo{Subject: anonymous}
}

// SetUserInfo stores the caller on ctx.
func SetUserInfo(ctx context.Context, u *UserInfo) context.Context {
	return context.WithValue(ctx, userKey, u)
}

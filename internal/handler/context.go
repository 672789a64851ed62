package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	InseminationCtx ContextKey = "insemination"
	LactationCtx    ContextKey = "lactation"
	SemenceCtx      ContextKey = "semence"
)

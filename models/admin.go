package models

type Admin struct {
	ID           int64
	TelegramID   int64
	Role         string
	Broadcasting string
}

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleSAdmin = "sadmin"
)

// Broadcasting is a transient per-admin flag: set by a broadcast command,
// cleared on the first content message or explicit cancel.
const (
	BroadcastNone    = "none"
	BroadcastCopy    = "copy"
	BroadcastForward = "forward"
)

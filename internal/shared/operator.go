package shared

import "strconv"

// Session value keys for the authenticated operator.
const (
	SessionKeyUserName = "user_name"
	SessionKeyElevated = "user_elevated"
	SessionKeyRole     = "user_role"
)

// Operator identifies the user triggering a ledger action together with the
// privilege flag the bulk workflows gate on. It is passed explicitly so the
// ledger never reads ambient session state.
type Operator struct {
	UserID   int64
	Name     string
	Elevated bool
}

// OperatorFromSession rebuilds the operator from session values.
// The zero Operator is returned for anonymous sessions.
func OperatorFromSession(sess *Session) Operator {
	if sess == nil {
		return Operator{}
	}
	id, _ := strconv.ParseInt(sess.User(), 10, 64)
	return Operator{
		UserID:   id,
		Name:     sess.Get(SessionKeyUserName),
		Elevated: sess.Get(SessionKeyElevated) == "1",
	}
}

// Known indicates the operator maps to a stored user account.
func (o Operator) Known() bool {
	return o.UserID != 0
}

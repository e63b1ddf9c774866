package mutate

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MsgUnauthorized   = "Unauthorized."
	MsgInternalServer = "Internal server error."
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s (id: %s) not found.", e.Kind, e.ID)
}

// UnauthorizedError means the acting user does not own the entity (directly or via its workspace).
type UnauthorizedError struct {
	UserID string
	Kind   string
	ID     string
}

func (e UnauthorizedError) Error() string {
	return MsgUnauthorized
}

type ValidationError struct {
	Messages []string
}

func (e ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

type UniqueError struct {
	Messages []string
}

func (e UniqueError) Error() string {
	return strings.Join(e.Messages, " ")
}

// Messages flattens err into user-facing messages. Unknown errors collapse into the generic
// internal error text so storage details never reach the UI.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, Messages(e)...)
		}
		return out
	}
	var nf NotFoundError
	var ua UnauthorizedError
	var ve ValidationError
	var ue UniqueError
	switch {
	case errors.As(err, &nf):
		return []string{nf.Error()}
	case errors.As(err, &ua):
		return []string{MsgUnauthorized}
	case errors.As(err, &ve):
		return append([]string(nil), ve.Messages...)
	case errors.As(err, &ue):
		return append([]string(nil), ue.Messages...)
	default:
		return []string{MsgInternalServer}
	}
}

func uniqueMsg(entity, field, scope string, caseInsensitive bool) string {
	ci := ""
	if caseInsensitive {
		ci = "(case-insensitive) "
	}
	return fmt.Sprintf("%s %s should be unique %swithin %s.", entity, field, ci, scope)
}

func validationErr(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return ValidationError{Messages: msgs}
}

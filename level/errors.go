package level

import "errors"

var (
	ErrEmptyName      = errors.New("empty entity name")
	ErrNameMismatch   = errors.New("instance name does not match registration name")
	ErrKindMismatch   = errors.New("entity has the wrong kind")
	ErrInvalidProgram = errors.New("invalid program declaration")
	ErrDefaultUnset   = errors.New("default not set")
	ErrSlotExhausted  = errors.New("no free texture slot")
)

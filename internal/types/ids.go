// internal/types/ids.go
package types

import "github.com/google/uuid"

type TurnID string

func NewTurnID() TurnID {
	return TurnID(uuid.New().String())
}

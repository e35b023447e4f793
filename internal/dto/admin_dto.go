package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpdateUserRoleRequest is partial; nil means unchanged.
type UpdateUserRoleRequest struct {
	IsAdmin       *bool `json:"isAdmin"`
	EmailVerified *bool `json:"emailVerified"`
}

type ActivityLogResponse struct {
	Id         uuid.UUID              `json:"id"`
	EventType  string                 `json:"eventType"`
	UserId     *uuid.UUID             `json:"userId"`
	Details    map[string]interface{} `json:"details"`
	OccurredAt time.Time              `json:"occurredAt"`
}

type LogQuery struct {
	Level  string `query:"level"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

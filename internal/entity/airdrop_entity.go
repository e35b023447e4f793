package entity

import (
	"time"

	"github.com/google/uuid"
)

type AirdropStatus string

const (
	AirdropStatusTodo       AirdropStatus = "TODO"
	AirdropStatusInProgress AirdropStatus = "IN_PROGRESS"
	AirdropStatusCompleted  AirdropStatus = "COMPLETED"
	AirdropStatusClaimed    AirdropStatus = "CLAIMED"
	AirdropStatusMissed     AirdropStatus = "MISSED"
	AirdropStatusResearch   AirdropStatus = "RESEARCH"
)

// AirdropStatuses is in display order.
var AirdropStatuses = []AirdropStatus{
	AirdropStatusTodo,
	AirdropStatusInProgress,
	AirdropStatusCompleted,
	AirdropStatusClaimed,
	AirdropStatusMissed,
	AirdropStatusResearch,
}

func (s AirdropStatus) IsValid() bool {
	for _, known := range AirdropStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Airdrop struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Name            string
	Description     string
	Link            string
	Blockchain      string
	ExpectedValue   *float64
	Status          AirdropStatus
	StartDate       *time.Time
	EndDate         *time.Time
	Notes           string
	TokenSymbol     string
	ContractAddress string
	ClaimDate       *time.Time
	ClaimedAmount   *float64
	Screenshot      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Owner is only populated on admin listings.
	Owner *User
}

type AirdropStatusCount struct {
	Status AirdropStatus
	Count  int64
}

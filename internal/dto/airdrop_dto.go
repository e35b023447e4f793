package dto

import (
	"time"

	"github.com/google/uuid"
)

// AirdropRequest serves both create and update. Nil fields are left
// unchanged on update. Dates accept RFC 3339 or YYYY-MM-DD; an empty date
// string clears the date.
type AirdropRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Link            *string  `json:"link"`
	Blockchain      *string  `json:"blockchain"`
	ExpectedValue   *float64 `json:"expectedValue"`
	Status          *string  `json:"status"`
	StartDate       *string  `json:"startDate"`
	EndDate         *string  `json:"endDate"`
	Notes           *string  `json:"notes"`
	TokenSymbol     *string  `json:"tokenSymbol"`
	ContractAddress *string  `json:"contractAddress"`
	ClaimDate       *string  `json:"claimDate"`
	ClaimedAmount   *float64 `json:"claimedAmount"`
	ClearScreenshot bool     `json:"clearScreenshot"`
}

type AirdropOwnerResponse struct {
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type AirdropResponse struct {
	Id              uuid.UUID             `json:"id"`
	UserId          uuid.UUID             `json:"userId"`
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	Link            string                `json:"link"`
	Blockchain      string                `json:"blockchain"`
	ExpectedValue   *float64              `json:"expectedValue"`
	Status          string                `json:"status"`
	StartDate       *time.Time            `json:"startDate"`
	EndDate         *time.Time            `json:"endDate"`
	Notes           string                `json:"notes"`
	TokenSymbol     string                `json:"tokenSymbol"`
	ContractAddress string                `json:"contractAddress"`
	ClaimDate       *time.Time            `json:"claimDate"`
	ClaimedAmount   *float64              `json:"claimedAmount"`
	Screenshot      *string               `json:"screenshot"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	User            *AirdropOwnerResponse `json:"user,omitempty"`
}

// AirdropSummaryResponse has every known status as a key, zero when absent.
type AirdropSummaryResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// ScreenshotCleanupMessage is queued when a screenshot stops being
// referenced.
type ScreenshotCleanupMessage struct {
	Path      string    `json:"path"`
	AirdropId uuid.UUID `json:"airdrop_id"`
}

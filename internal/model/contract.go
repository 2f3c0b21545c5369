package model

import "time"

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

type Contract struct {
	ID           int64          `json:"id"`
	ClientID     int64          `json:"clientId"`
	ContractorID int64          `json:"contractorId"`
	Status       ContractStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
}

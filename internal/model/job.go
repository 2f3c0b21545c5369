package model

import "time"

type Job struct {
	ID          int64      `json:"id"`
	ContractID  int64      `json:"contractId"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"paymentDate"`
}

// PayableJob is the settlement lookup row: the job joined with its in_progress
// contract and the client's balance at read time.
type PayableJob struct {
	JobID         int64
	Price         float64
	Paid          bool
	ClientID      int64
	ContractorID  int64
	ClientBalance float64
}

// PaymentReceipt carries everything the pdf receipt needs for a settled job.
type PaymentReceipt struct {
	JobID          int64
	Description    string
	Price          float64
	PaymentDate    time.Time
	ContractID     int64
	ClientName     string
	ContractorName string
	Profession     string
}

package model

import "time"

type ProfessionEarnings struct {
	Profession    string  `json:"profession"`
	TotalEarnings float64 `json:"totalEarnings"`
}

type ClientTotal struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"-"`
	LastName  string  `json:"-"`
	FullName  string  `json:"fullName" gorm:"-"`
	TotalPaid float64 `json:"totalPaid"`
}

type BestClientsReport struct {
	Start   time.Time
	End     time.Time
	Clients []ClientTotal
}

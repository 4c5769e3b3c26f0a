package domain

import "time"

// Account holds the prepaid credit balance of a requester. The balance is
// mutated only through the ledger service; credit never goes below zero.
type Account struct {
	Email     string    `json:"email"`
	Credit    int       `json:"credit"`
	UpdatedAt time.Time `json:"-"`
}

package domain

import "time"

const HoldStatusWaiting = "waiting"

// Hold mirrors the holds table. No operation reads or writes holds yet.
type Hold struct {
	ID       int64     `db:"id"`
	UserID   int64     `db:"user_id"`
	BookID   int64     `db:"book_id"`
	HoldDate time.Time `db:"hold_date"`
	Status   string    `db:"status"`
}

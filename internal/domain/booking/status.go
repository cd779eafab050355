package booking

import "github.com/trichbarbershop/barber-queue/internal/httperr"

// ===============================
// Entry Status / Type
// ===============================

type Status string

const (
	StatusAtQueue  Status = "at queue"
	StatusAtServed Status = "at served"
)

type EntryType string

const (
	TypeWalkIn EntryType = "walk in"
	TypeBook   EntryType = "book"
)

// InitialStatus is fixed at creation and never chosen by the caller.
func InitialStatus() Status {
	return StatusAtQueue
}

// DeriveType derives the entry type from the submitter's role: barbers
// register walk-ins at the chair, everyone else books ahead.
func DeriveType(role string) EntryType {
	if role == "barber" {
		return TypeWalkIn
	}
	return TypeBook
}

// ===============================
// Validations
// ===============================

func IsValidStatus(s Status) bool {
	return s == StatusAtQueue || s == StatusAtServed
}

// CanSetStatus gates status mutation to the barber role. The value set
// itself is the only other constraint; moving back from "at served" to
// "at queue" is not rejected here.
func CanSetStatus(role string, next Status) error {
	if role != "barber" {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}
	if !IsValidStatus(next) {
		return httperr.ErrBusiness("invalid_status")
	}
	return nil
}

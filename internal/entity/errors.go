package entity

import "errors"

var (
	ErrLeadNotFound        = errors.New("lead not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrVersionConflict     = errors.New("record was modified concurrently")
	ErrOfferNotOpen        = errors.New("offer is no longer open")
	ErrActiveBookingExists = errors.New("lead already has an active booking")
	ErrInvalidPriceInput   = errors.New("hours must be positive and rate non-negative")
	ErrInvalidSource       = errors.New("invalid lead source")
	ErrLeadFrozen          = errors.New("invoiced lead can not be modified")
	ErrInvalidSlotIndex    = errors.New("slot index out of range")
)

package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrQuotationInactive = errors.New("quotation is not active")
)

package domain

import "errors"

var (
	// ErrPassInProgress is returned when a reconciliation pass of the same kind is already running
	ErrPassInProgress = errors.New("reconciliation pass already in progress")

	// ErrInvalidTokenID is returned when a token id is not a non-negative decimal integer
	ErrInvalidTokenID = errors.New("invalid token id")

	// ErrInvalidTransferLog is returned when a log cannot be decoded as an ERC721 Transfer
	ErrInvalidTransferLog = errors.New("invalid transfer log")

	// ErrContractCall is returned when a contract read fails or returns an unexpected result
	ErrContractCall = errors.New("contract call failed")

	// ErrCatalogSetNotFound is returned when the configured card set does not exist in the catalog API
	ErrCatalogSetNotFound = errors.New("card set not found")
)

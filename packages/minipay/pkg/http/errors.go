package http

import "github.com/cyberhorsey/errors"

var (
	ErrNoHTTPFramework = errors.Validation.NewWithKeyAndDetail(
		"ERR_NO_HTTP_ENGINE",
		"HTTP framework required",
	)
	ErrNoController = errors.Validation.NewWithKeyAndDetail(
		"ERR_NO_CONTROLLER",
		"wallet controller required",
	)
	ErrInvalidTxHash = errors.Validation.NewWithKeyAndDetail(
		"ERR_INVALID_TX_HASH",
		"invalid transaction hash",
	)
	ErrTransferNotFound = errors.NotFound.NewWithKeyAndDetail(
		"ERR_TRANSFER_NOT_FOUND",
		"transfer not found",
	)
)

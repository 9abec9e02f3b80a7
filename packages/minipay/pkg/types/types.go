package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type NavigateRequestBody struct {
	Screen string `json:"screen"`
}

type SendRequestBody struct {
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
}

// TransferConfirmed is published once a transfer has been mined successfully.
type TransferConfirmed struct {
	Hash        common.Hash    `json:"hash"`
	From        common.Address `json:"from"`
	To          common.Address `json:"to"`
	Token       common.Address `json:"token"`
	Amount      string         `json:"amount"`
	ConfirmedAt time.Time      `json:"confirmedAt"`
}

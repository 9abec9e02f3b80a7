package wallet

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/units"
)

// ErrInvalidIntent is shown to the user as is.
var ErrInvalidIntent = errors.New("Please enter a valid address and amount.") //nolint:stylecheck

// Intent is a transfer as entered by the user.
type Intent struct {
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
}

// Validate checks the destination is a hex address and the amount a positive number.
func (i Intent) Validate() error {
	dest := strings.TrimSpace(i.Destination)
	if dest == "" || !common.IsHexAddress(dest) {
		return ErrInvalidIntent
	}

	amount, err := units.ParseAmount(strings.TrimSpace(i.Amount))
	if err != nil || !amount.IsPositive() {
		return ErrInvalidIntent
	}

	return nil
}

// To returns the parsed destination, only meaningful after Validate.
func (i Intent) To() common.Address {
	return common.HexToAddress(strings.TrimSpace(i.Destination))
}

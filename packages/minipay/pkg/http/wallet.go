package http

import (
	"errors"
	"net/http"

	"github.com/cyberhorsey/webutils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/labstack/echo/v4"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/controller"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/balance"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/types"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/wallet"
)

// GetView returns the current wallet view.
func (srv *Server) GetView(c echo.Context) error {
	return c.JSON(http.StatusOK, srv.controller.View())
}

// Navigate switches the current screen.
func (srv *Server) Navigate(c echo.Context) error {
	reqBody := new(types.NavigateRequestBody)
	if err := c.Bind(reqBody); err != nil {
		return webutils.LogAndRenderErrors(c, http.StatusUnprocessableEntity, err)
	}

	if err := srv.controller.Navigate(controller.Screen(reqBody.Screen)); err != nil {
		return srv.renderControllerError(c, err)
	}

	return c.JSON(http.StatusOK, srv.controller.View())
}

// RefreshBalance re-reads the balance, an unavailable balance still renders the view.
func (srv *Server) RefreshBalance(c echo.Context) error {
	if err := srv.controller.RefreshBalance(c.Request().Context()); err != nil {
		if !errors.Is(err, balance.ErrBalanceUnavailable) {
			return srv.renderControllerError(c, err)
		}
	}

	return c.JSON(http.StatusOK, srv.controller.View())
}

// Buy runs the on-ramp flow and returns the view once the user is back home.
func (srv *Server) Buy(c echo.Context) error {
	if err := srv.controller.Buy(c.Request().Context()); err != nil {
		return srv.renderControllerError(c, err)
	}

	return c.JSON(http.StatusOK, srv.controller.View())
}

// Send submits a transfer and waits for it to be mined.
func (srv *Server) Send(c echo.Context) error {
	reqBody := new(types.SendRequestBody)
	if err := c.Bind(reqBody); err != nil {
		return webutils.LogAndRenderErrors(c, http.StatusUnprocessableEntity, err)
	}

	transfer, err := srv.controller.Send(c.Request().Context(), wallet.Intent{
		Destination: reqBody.Destination,
		Amount:      reqBody.Amount,
	})
	if err != nil {
		return srv.renderControllerError(c, err)
	}

	srv.recordTransfer(transfer)

	return c.JSON(http.StatusOK, transfer)
}

// GetTransfer returns a transfer confirmed through this server.
func (srv *Server) GetTransfer(c echo.Context) error {
	raw, err := hexutil.Decode(c.Param("hash"))
	if err != nil || len(raw) != common.HashLength {
		return webutils.LogAndRenderErrors(c, http.StatusBadRequest, ErrInvalidTxHash)
	}

	transfer, ok := srv.lookupTransfer(common.BytesToHash(raw))
	if !ok {
		return webutils.LogAndRenderErrors(c, http.StatusNotFound, ErrTransferNotFound)
	}

	return c.JSON(http.StatusOK, transfer)
}

func (srv *Server) renderControllerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, controller.ErrUnknownScreen), errors.Is(err, wallet.ErrInvalidIntent):
		return srv.returnError(c, http.StatusBadRequest, err)
	case errors.Is(err, controller.ErrTerminal):
		return srv.returnError(c, http.StatusConflict, err)
	case errors.Is(err, wallet.ErrTransferFailed):
		log.Warn("Transfer request failed", "requestID", c.Response().Header().Get(echo.HeaderXRequestID), "error", err)
		return srv.returnError(c, http.StatusBadGateway, errors.New(controller.TransferFailed))
	default:
		return srv.returnError(c, http.StatusInternalServerError, err)
	}
}

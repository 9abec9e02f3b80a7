package http

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/controller"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/types"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/wallet"

	echo "github.com/labstack/echo/v4"
)

const (
	transfersCacheExpiration = 30 * time.Minute
	transfersCacheCleanup    = time.Hour
)

// Controller is the wallet state machine driven by the API.
type Controller interface {
	View() controller.View
	Navigate(screen controller.Screen) error
	RefreshBalance(ctx context.Context) error
	Buy(ctx context.Context) error
	Send(ctx context.Context, intent wallet.Intent) (*types.TransferConfirmed, error)
}

type Server struct {
	controller Controller
	echo       *echo.Echo
	// Transfers confirmed through this server, by hash.
	transfers *cache.Cache
}

type NewServerOpts struct {
	Controller  Controller
	Echo        *echo.Echo
	CorsOrigins []string
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

func (opts NewServerOpts) Validate() error {
	if opts.Echo == nil {
		return ErrNoHTTPFramework
	}

	if opts.Controller == nil {
		return ErrNoController
	}

	return nil
}

func NewServer(opts NewServerOpts) (*Server, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	srv := &Server{
		controller: opts.Controller,
		echo:       opts.Echo,
		transfers:  cache.New(transfersCacheExpiration, transfersCacheCleanup),
	}

	corsOrigins := opts.CorsOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"*"}
	}

	srv.echo.HideBanner = true
	srv.echo.Logger.SetLevel(gommonlog.INFO)

	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	srv.configureMiddleware(corsOrigins, registerer)
	srv.configureRoutes()

	return srv, nil
}

// Start starts the HTTP server
func (srv *Server) Start(address string) error {
	return srv.echo.Start(address)
}

// Shutdown shuts down the HTTP server
func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.echo.Shutdown(ctx)
}

// ServeHTTP implements the `http.Handler` interface which serves HTTP requests
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.echo.ServeHTTP(w, r)
}

// Health endpoints for probes
func (srv *Server) Health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (srv *Server) returnError(c echo.Context, statusCode int, err error) error {
	return c.JSON(statusCode, map[string]string{"error": err.Error()})
}

func (srv *Server) recordTransfer(transfer *types.TransferConfirmed) {
	srv.transfers.Set(transfer.Hash.Hex(), *transfer, cache.DefaultExpiration)
}

func (srv *Server) lookupTransfer(hash common.Hash) (types.TransferConfirmed, bool) {
	v, ok := srv.transfers.Get(hash.Hex())
	if !ok {
		return types.TransferConfirmed{}, false
	}

	transfer, ok := v.(types.TransferConfirmed)

	return transfer, ok
}

func LogSkipper(c echo.Context) bool {
	switch c.Request().URL.Path {
	case "/healthz":
		return true
	case "/metrics":
		return true
	default:
		return false
	}
}

func (srv *Server) configureMiddleware(corsOrigins []string, registerer prometheus.Registerer) {
	srv.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	srv.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: LogSkipper,
		Format: `{"time":"${time_rfc3339_nano}","level":"INFO","message":{"id":"${id}","remote_ip":"${remote_ip}",` + //nolint:lll
			`"host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}",` + //nolint:lll
			`"response_status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}",` +
			`"bytes_in":${bytes_in},"bytes_out":${bytes_out}}}` + "\n",
		Output: os.Stdout,
	}))

	srv.echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "minipay",
		Skipper:    LogSkipper,
		Registerer: registerer,
	}))

	srv.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
	}))
}

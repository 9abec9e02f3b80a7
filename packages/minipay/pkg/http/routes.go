package http

import "github.com/labstack/echo-contrib/echoprometheus"

func (srv *Server) configureRoutes() {
	srv.echo.GET("/healthz", srv.Health)
	srv.echo.GET("/", srv.Health)
	srv.echo.GET("/metrics", echoprometheus.NewHandler())

	srv.echo.GET("/view", srv.GetView)
	srv.echo.POST("/navigate", srv.Navigate)
	srv.echo.POST("/balance/refresh", srv.RefreshBalance)
	srv.echo.POST("/buy", srv.Buy)
	srv.echo.POST("/send", srv.Send)
	srv.echo.GET("/transfers/:hash", srv.GetTransfer)
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/crewdesk/crewdesk/pkg/apiclient"
	"github.com/crewdesk/crewdesk/pkg/binder"
	"github.com/crewdesk/crewdesk/pkg/config"
	"github.com/crewdesk/crewdesk/pkg/console"
	"github.com/crewdesk/crewdesk/pkg/errcodes"
	"github.com/crewdesk/crewdesk/pkg/querycache"
	"github.com/crewdesk/crewdesk/pkg/roles"
	"github.com/crewdesk/crewdesk/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
)

func New(cfg *config.Config) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)

	api := apiclient.New(cfg.APIBaseURL, cfg.RequestTimeout)
	store := querycache.New(cfg.CacheTTL)
	sessions := console.NewSessionStore(cfg.SessionTTL)

	userQueries := users.NewQueries(store, users.NewClient(api))
	roleQueries := roles.NewQueries(store, roles.NewClient(api))

	console.RegisterRoutes(e, userQueries, roleQueries, sessions)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}

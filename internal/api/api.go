package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ougirez/mapwizard/internal/api/controller"
	"github.com/ougirez/mapwizard/internal/pkg/logger"
	"github.com/ougirez/mapwizard/internal/pkg/store"
	"github.com/ougirez/mapwizard/internal/service/auth"
	"github.com/ougirez/mapwizard/internal/service/topicpage"
	"github.com/ougirez/mapwizard/internal/service/wizard"
)

type Config struct {
	AllowOrigins  []string
	Token         auth.Config
	Csv           wizard.CsvOpts
	PreviewRows   int
	TopicPage     topicpage.Options
	TopicUpstream string
	Debug         bool
}

type APIService struct {
	router           *echo.Echo
	authService      *auth.Service
	wizardService    *wizard.Service
	topicPageService *topicpage.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.start(addr); err != nil {
		logger.Fatal(context.Background(), err)
	}
}

// start blocks until the server stops. A stop caused by Shutdown is not an error.
func (svc *APIService) start(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router for httptest.
func (svc *APIService) Handler() *echo.Echo {
	return svc.router
}

func NewAPIService(store store.Store, locales *topicpage.LocaleLoader, cfg Config) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.INFO)
	if cfg.Debug {
		svc.router.Debug = true
		svc.router.Logger.SetLevel(log.DEBUG)
	}

	svc.router.Validator = NewValidator()
	svc.router.JSONSerializer = NewSerializer()
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.HTTPErrorHandler = httpErrorHandler
	if len(cfg.AllowOrigins) > 0 {
		svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	svc.authService = auth.NewAuthService(cfg.Token)
	svc.wizardService = wizard.NewWizardService(store, cfg.Csv, cfg.PreviewRows)
	svc.topicPageService = topicpage.NewTopicPageService(cfg.TopicPage)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.wizardService, svc.topicPageService, locales, svc.authService, cfg.TopicUpstream)

	api.GET("/templates", cntrl.ListTemplates)
	api.POST("/sessions", cntrl.CreateSession)

	session := api.Group("/sessions/:id", svc.SessionMiddleware)
	session.GET("", cntrl.GetSession)
	session.GET("/view", cntrl.GetSessionView)
	session.PUT("/mapping", cntrl.UpdateMapping)
	session.PUT("/template", cntrl.ChangeTemplate)
	session.GET("/check", cntrl.CheckMapping)
	session.GET("/preview", cntrl.Preview)
	session.DELETE("", cntrl.DeleteSession)

	topicPage := api.Group("/topic-page")
	topicPage.POST("/parse", cntrl.ParseTopicPage)
	topicPage.GET("/:topic/:place", cntrl.FetchTopicPage)

	return svc, nil
}

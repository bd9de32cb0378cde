package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/auth"
	"github.com/beesaferoot/myleasing/internal/controllers"
	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/middleware"
	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/internal/storage"
	"github.com/beesaferoot/myleasing/internal/web"
)

// Dependencies are the adapters the router is built from.
type Dependencies struct {
	DB            *gorm.DB
	Accounts      *auth.AccountService
	Images        storage.ImageStore
	Logger        logger.Logger
	// CSRFKey must be 32 bytes, see middleware.CSRFKey.
	CSRFKey       []byte
	SecureCookies bool
}

// NewRouter wires services and controllers into a gin engine.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if len(deps.CSRFKey) != 32 {
		return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(deps.CSRFKey))
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	owners := services.NewOwnerService(deps.DB)
	lessees := services.NewLesseeService(deps.DB)
	managers := services.NewManagerService(deps.DB)
	propertyTypes := services.NewPropertyTypeService(deps.DB)
	properties := services.NewPropertyService(deps.DB, deps.Images)
	contracts := services.NewContractService(deps.DB)
	dashboard := services.NewDashboardService(deps.DB)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = 8 << 20
	r.Use(middleware.RequestLogger(deps.Logger), middleware.Recovery())
	r.Use(middleware.Authenticate(deps.Accounts), middleware.CSRF(deps.CSRFKey, deps.SecureCookies))
	r.StaticFS("/static", web.Static())
	r.NoRoute(controllers.NotFound)

	account := controllers.NewAccountController(deps.Accounts)
	r.GET("/Account/Login", account.LoginForm)
	r.POST("/Account/Login", account.Login)
	r.POST("/Account/Logout", account.Logout)
	r.GET("/Account/NotAuthorized", account.NotAuthorized)

	r.GET("/", controllers.NewHomeController(dashboard).Index)

	images := r.Group("/Images", middleware.RequireRole(models.RoleManager, models.RoleOwner, models.RoleLessee))
	images.GET("/:fileId", controllers.NewImagesController(properties).Show)

	managerOnly := middleware.RequireRole(models.RoleManager)
	controllers.NewOwnersController(owners, properties, propertyTypes).Register(r.Group("/Owners", managerOnly))
	controllers.NewLesseesController(lessees).Register(r.Group("/Lessees", managerOnly))
	controllers.NewManagersController(managers).Register(r.Group("/Managers", managerOnly))
	controllers.NewPropertyTypesController(propertyTypes).Register(r.Group("/PropertyTypes", managerOnly))
	controllers.NewContractsController(contracts, owners, lessees, properties).Register(r.Group("/Contracts", managerOnly))

	return r, nil
}

// Server is the HTTP front of the back-office.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func NewServer(port string, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log.WithFields(logger.Fields{"component": "http_server"}),
	}
}

// Start blocks serving requests until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", logger.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server...", nil)
	return s.httpServer.Shutdown(ctx)
}

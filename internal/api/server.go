package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/aisclub/clubevents/docs"
	v1 "github.com/aisclub/clubevents/internal/api/handler/v1"
	"github.com/aisclub/clubevents/internal/api/middleware"
	"github.com/aisclub/clubevents/internal/config"
	"github.com/aisclub/clubevents/internal/live"
	"github.com/aisclub/clubevents/internal/metrics"
	"github.com/aisclub/clubevents/internal/repository"
	"github.com/aisclub/clubevents/internal/repository/dao"
	"github.com/aisclub/clubevents/internal/service"
	"github.com/aisclub/clubevents/internal/storage"
)

const basePath = "/api/v1"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	authSvc *service.AuthService
}

type handlers struct {
	auth     *v1.AuthHandler
	user     *v1.UserHandler
	event    *v1.EventHandler
	checkIn  *v1.CheckInHandler
	template *v1.TemplateHandler
	calendar *v1.CalendarHandler
	live     *v1.LiveHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, store *storage.FileStore, hub *live.Hub) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db, store, hub))
	s.MountFiles(store)

	return s
}

func (s *Server) initHandlers(db *gorm.DB, store *storage.FileStore, hub *live.Hub) handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	templateRepo := repository.NewTemplateRepository(dao.NewTemplateDAO(db))

	s.authSvc = service.NewAuthService(userRepo, s.Config.API.OfficerEmails)
	uSvc := service.NewUserService(userRepo)
	templateSvc := service.NewTemplateService(templateRepo)
	photoSvc := service.NewPhotoService(store, s.Config.Storage.UploadTimeout)
	eventSvc := service.NewEventService(eventRepo, templateSvc, photoSvc, hub)

	return handlers{
		auth:     v1.NewAuthHandler(s.Config.API, s.authSvc),
		user:     v1.NewUserHandler(uSvc),
		event:    v1.NewEventHandler(s.Config.API, eventSvc, uSvc),
		checkIn:  v1.NewCheckInHandler(eventSvc, uSvc),
		template: v1.NewTemplateHandler(templateSvc, uSvc),
		calendar: v1.NewCalendarHandler(s.Config.API, eventSvc),
		live:     v1.NewLiveHandler(hub, eventSvc, uSvc, s.Config.API.AllowedCORSDomains),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(middleware.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(metrics.Middleware())
}

func (s *Server) MountHandlers(h handlers) {
	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)
		public.GET("/checkin/:eventID", h.checkIn.HandleGetCheckIn)
		public.GET("/calendar.ics", h.calendar.HandleCalendar)
	}

	auth := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	optional := s.Router.Group(basePath, auth.OptionalJWT())
	{
		optional.GET("/events", h.event.HandleListEvents)
	}

	s.Router.GET(basePath+"/events/:eventID/live", auth.VerifyJWTOrQuery(), h.live.HandleLive)

	authed := s.Router.Group(basePath, auth.VerifyJWT())
	{
		authed.GET("/users/me", h.user.HandleGetMe)

		authed.POST("/events", h.event.HandleCreateEvent)
		authed.GET("/events/:eventID", h.event.HandleGetEvent)
		authed.PATCH("/events/:eventID", h.event.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", h.event.HandleDeleteEvent)
		authed.POST("/events/:eventID/photos", h.event.HandleUploadPhotos)
		authed.DELETE("/events/:eventID/photos", h.event.HandleDeletePhoto)

		authed.POST("/checkin/:eventID", h.checkIn.HandleCheckIn)

		authed.GET("/templates", h.template.HandleListTemplates)
		authed.POST("/templates", h.template.HandleCreateTemplate)
		authed.GET("/templates/:templateID", h.template.HandleGetTemplate)
		authed.PUT("/templates/:templateID", h.template.HandleUpdateTemplate)
		authed.DELETE("/templates/:templateID", h.template.HandleDeleteTemplate)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Club events API"
	docs.SwaggerInfo.Description = "Events, check-ins and photo galleries for the club."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// MountFiles serves uploaded photos when storage.public_url_prefix points
// back at this server.
func (s *Server) MountFiles(store *storage.FileStore) {
	s.Router.StaticFS("/files", store.HTTPFileSystem())
}

// Reload applies the settings that can change without a restart.
func (s *Server) Reload(conf *config.AppConfig) {
	s.authSvc.SetOfficerEmails(conf.API.OfficerEmails)
}

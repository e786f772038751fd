package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoyibao/medassist/internal/config"
	"github.com/xiaoyibao/medassist/internal/service"
)

// Server is the HTTP JSON front-end. Handlers only translate HTTP to and
// from the dispatch layer; no service-layer failure crashes a request.
type Server struct {
	engine   *gin.Engine
	cfg      *config.AppConfig
	chat     *service.ChatService
	resolver *service.PromptResolver
	ingestor *service.Ingestor
	files    *service.FileManager
	auth     *service.Authenticator
}

type Deps struct {
	Cfg      *config.AppConfig
	Chat     *service.ChatService
	Resolver *service.PromptResolver
	Ingestor *service.Ingestor
	Files    *service.FileManager
	Auth     *service.Authenticator
}

func NewServer(deps Deps) *Server {
	s := &Server{
		engine:   gin.New(),
		cfg:      deps.Cfg,
		chat:     deps.Chat,
		resolver: deps.Resolver,
		ingestor: deps.Ingestor,
		files:    deps.Files,
		auth:     deps.Auth,
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.engine.MaxMultipartMemory = config.MaxUploadBytes
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	s.engine.POST("/api/login", s.handleLogin)

	api := s.engine.Group("/api", s.requireAuth())
	api.GET("/ui", s.handleUIConfig)

	api.GET("/chat", s.handleHistory)
	api.POST("/chat", s.handleChat)
	api.POST("/chat/clear", s.handleClear)

	api.POST("/image", s.handleImage)
	api.POST("/report", s.handleReport)

	api.GET("/files", s.handleListFiles)
	api.DELETE("/files/:name", s.handleDeleteFile)
	api.POST("/caches/clear", s.handleClearCaches)
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

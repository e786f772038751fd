package web

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoyibao/medassist/internal/config"
	"github.com/xiaoyibao/medassist/internal/domain"
	"github.com/xiaoyibao/medassist/internal/service"
)

func (s *Server) handleUIConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ui":         s.cfg.UIConfig,
		"categories": s.cfg.Categories(),
	})
}

// channelFrom reads the channel query parameter, defaulting to general.
func channelFrom(c *gin.Context) (domain.Channel, bool) {
	ch := domain.Channel(c.DefaultQuery("channel", string(domain.ChannelGeneral)))
	return ch, domain.ValidChannel(ch)
}

func (s *Server) handleHistory(c *gin.Context) {
	ch, ok := channelFrom(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": ch, "turns": s.chat.History(ownerFrom(c), ch)})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}
	turns := s.chat.Chat(c.Request.Context(), ownerFrom(c), req.Message)
	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

func (s *Server) handleClear(c *gin.Context) {
	ch, ok := channelFrom(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channel"})
		return
	}
	s.chat.Clear(ownerFrom(c), ch)
	c.JSON(http.StatusOK, gin.H{"channel": ch, "turns": []domain.Turn{}})
}

// handleImage accepts a multipart form with an optional image file, an
// optional category and an optional question. Without a file the question
// goes against the image already on the session.
func (s *Server) handleImage(c *gin.Context) {
	owner := ownerFrom(c)
	category := c.PostForm("category")
	question := c.PostForm("message")

	if resolved, _, ok := s.resolver.Resolve(category); ok {
		category = resolved
	}

	artifact, err := s.ingestUpload(c, s.cfg.SystemConfig.SupportedImageTypes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	turns := s.chat.AnalyzeImage(c.Request.Context(), owner, artifact, category, question)
	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

// handleReport accepts a multipart form with an optional report file and an
// optional question. A fresh file replaces the report conversation with a
// new summary; a bare question is answered from the cached document.
func (s *Server) handleReport(c *gin.Context) {
	owner := ownerFrom(c)
	question := c.PostForm("message")

	docTypes := s.cfg.SystemConfig.SupportedDocTypes
	if len(docTypes) == 0 {
		docTypes = []string{"pdf"}
	}
	artifact, err := s.ingestUpload(c, docTypes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	turns := s.chat.AnalyzeReport(c.Request.Context(), owner, artifact, question)
	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

// ingestUpload persists the request's "file" part, if present. A missing
// part returns (nil, nil): the dispatch layer decides what an absent
// artifact means per channel.
func (s *Server) ingestUpload(c *gin.Context, allowed []string) (*domain.UploadedArtifact, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil
	}
	if fh.Size > config.MaxUploadBytes {
		return nil, domain.ErrFileTooLarge
	}
	if len(allowed) > 0 && !service.AllowedExtension(fh.Filename, allowed) {
		return nil, domain.ErrUnsupportedFileType
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return s.ingestor.Save(data, fh.Filename)
}

func (s *Server) handleListFiles(c *gin.Context) {
	files, err := s.files.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if files == nil {
		files = []service.RemoteFile{}
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) handleDeleteFile(c *gin.Context) {
	status := s.files.DeleteByDisplayName(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (s *Server) handleClearCaches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": s.files.ClearCaches(c.Request.Context())})
}

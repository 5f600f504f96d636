package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dropkit/dropkit/pkg/catalog"
	"github.com/dropkit/dropkit/pkg/download"
	"github.com/dropkit/dropkit/pkg/pathguard"
	"github.com/dropkit/dropkit/pkg/upload"
	"github.com/dropkit/dropkit/pkg/version"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": version.Full(),
	})
}

// handleBrowse lists a directory. When the requested path is a file it falls
// back to downloading it, keeping /browse/x and /download/x interchangeable
// for files.
func (s *Server) handleBrowse(c *gin.Context) {
	requested := c.Param("filepath")
	if requested == "" {
		requested = c.Query("path")
	}

	guarded, err := pathguard.Guard(s.config.Root, requested)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	entries, err := catalog.List(s.fs, s.config.Root, guarded)
	if errors.Is(err, catalog.ErrNotDirectory) {
		s.streamFile(c, guarded)
		return
	}
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "directory not found"})
		return
	}
	if err != nil {
		s.logger.Error("listing failed", "path", guarded, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}

	rel := pathguard.Rel(s.config.Root, guarded)
	c.JSON(http.StatusOK, gin.H{
		"path":        rel,
		"entries":     entries,
		"breadcrumbs": catalog.Breadcrumbs(rel),
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	guarded, err := pathguard.Guard(s.config.Root, c.Param("filepath"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	s.streamFile(c, guarded)
}

func (s *Server) streamFile(c *gin.Context, guarded string) {
	payload, err := download.Stream(s.fs, guarded)
	if errors.Is(err, download.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if errors.Is(err, download.ErrIsDirectory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is not a file"})
		return
	}
	if err != nil {
		s.logger.Error("download failed", "path", guarded, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}
	defer payload.File.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Name))
	c.Header("Content-Type", payload.ContentType)
	http.ServeContent(c.Writer, c.Request, payload.Name, payload.Modified, payload.File)
}

func (s *Server) handleUpload(c *gin.Context) {
	guarded, err := pathguard.Guard(s.config.Root, c.PostForm("path"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to parse multipart form"})
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	files := make([]upload.File, 0, len(headers))
	opened := make([]interface{ Close() error }, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open uploaded file"})
			return
		}
		opened = append(opened, f)
		files = append(files, upload.File{Name: header.Filename, Reader: f})
	}

	batch, err := upload.Ingest(c.Request.Context(), s.fs, guarded, files)
	if errors.Is(err, upload.ErrInvalidTarget) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload directory"})
		return
	}
	if err != nil {
		s.logger.Error("upload failed", "dir", guarded, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, batch)
}

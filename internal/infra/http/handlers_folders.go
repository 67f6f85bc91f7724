package http

import (
	"net/http"
	"time"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type createFolderRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type folderResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at"`
}

type navigationResponse struct {
	Folders  []folderResponse  `json:"folders"`
	Products []productResponse `json:"products"`
}

func toFolderResponse(f domain.Folder) folderResponse {
	return folderResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Owner:       f.Owner,
		CreatedAt:   f.CreatedAt.UTC().Format(time.RFC3339),
		ModifiedAt:  f.ModifiedAt.UTC().Format(time.RFC3339),
	}
}

func toFolderResponses(folders []domain.Folder) []folderResponse {
	out := make([]folderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, toFolderResponse(f))
	}
	return out
}

func (s *Server) handleWelcome(c *gin.Context) {
	if _, ok := s.resolveAndLimit(c, domain.ResourceGeneral); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Folders and Products API"})
}

func (s *Server) handleCreateFolder(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}
	folder, err := s.folderSvc.Create(c.Request.Context(), subject, req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFolderResponse(*folder))
}

func (s *Server) handleListFolders(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	folders, err := s.folderSvc.ListAccessible(c.Request.Context(), subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFolderResponses(folders))
}

func (s *Server) handleFolderNavigation(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	nav, err := s.folderSvc.Navigation(c.Request.Context(), subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, navigationResponse{
		Folders:  toFolderResponses(nav.Folders),
		Products: toProductResponses(nav.Products),
	})
}

func (s *Server) handleGetFolder(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	folder, err := s.folderSvc.Get(c.Request.Context(), subject, c.Param("folder_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFolderResponse(*folder))
}

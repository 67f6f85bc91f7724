package http

import (
	"net/http"
	"time"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type assignPermissionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type permissionResponse struct {
	ID        string `json:"id"`
	FolderID  string `json:"folder_id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type permissionCheckResponse struct {
	FolderID      string `json:"folder_id"`
	Email         string `json:"email"`
	HasPermission bool   `json:"has_permission"`
}

func toPermissionResponse(p domain.FolderPermission) permissionResponse {
	return permissionResponse{
		ID:        p.ID,
		FolderID:  p.FolderID,
		Email:     p.Email,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleAssignPermission(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	var req assignPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "a valid email is required")
		return
	}
	grant, err := s.permSvc.Assign(c.Request.Context(), subject, c.Param("folder_id"), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPermissionResponse(*grant))
}

func (s *Server) handleListPermissions(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	grants, err := s.permSvc.ListByFolder(c.Request.Context(), subject, c.Param("folder_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]permissionResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, toPermissionResponse(g))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCheckPermission(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	folderID, email := c.Param("folder_id"), c.Param("email")
	has, err := s.permSvc.Check(c.Request.Context(), subject, folderID, email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, permissionCheckResponse{
		FolderID:      folderID,
		Email:         email,
		HasPermission: has,
	})
}

func (s *Server) handleRevokePermission(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	grant, err := s.permSvc.Revoke(c.Request.Context(), subject, c.Param("folder_id"), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPermissionResponse(*grant))
}

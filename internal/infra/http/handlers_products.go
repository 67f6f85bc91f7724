package http

import (
	"net/http"
	"time"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	FolderID    string `json:"folder_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type productResponse struct {
	ID          string `json:"id"`
	FolderID    string `json:"folder_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		FolderID:    p.FolderID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		ModifiedAt:  p.ModifiedAt.UTC().Format(time.RFC3339),
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceProductCreation)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "folder_id and name are required")
		return
	}
	product, err := s.productSvc.Create(c.Request.Context(), subject, domain.Product{
		FolderID:    req.FolderID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

func (s *Server) handleListProducts(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	var (
		products []domain.Product
		err      error
	)
	if folderID := c.Query("folder_id"); folderID != "" {
		products, err = s.productSvc.ListByFolder(c.Request.Context(), subject, folderID)
	} else {
		products, err = s.productSvc.ListAccessible(c.Request.Context(), subject)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (s *Server) handleGetProduct(c *gin.Context) {
	subject, ok := s.resolveAndLimit(c, domain.ResourceGeneral)
	if !ok || !s.requireAuthenticated(c, subject) {
		return
	}
	product, err := s.productSvc.Get(c.Request.Context(), subject, c.Param("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

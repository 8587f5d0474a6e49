package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catalogserver/database"
)

// handleListProducts возвращает страницу каталога.
// GET /api/products?limit=50&offset=0
func (s *Server) handleListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := s.db.ListProducts(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []database.Product{}
	}

	total, err := s.db.CountProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

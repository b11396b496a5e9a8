// medicines.go - Catalog browsing and AI drug information endpoints

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/telehealth-backend/internal/common"
)

func (s *Server) handleSearchMedicines(c *gin.Context) {
	query := c.Query("q")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	if query == "" {
		c.JSON(http.StatusOK, gin.H{"medicines": []interface{}{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"medicines": s.catalog.Search(query, limit)})
}

func (s *Server) handleAllMedicines(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil {
		perPage = 20
	}
	search := c.Query("search")

	medicines, total := s.catalog.Page(search, page, perPage)

	c.JSON(http.StatusOK, gin.H{
		"medicines": medicines,
		"total":     total,
		"page":      page,
		"pages":     (total + perPage - 1) / perPage,
	})
}

func (s *Server) handleGetMedicine(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid medicine ID"})
		return
	}

	medicine := s.catalog.GetByID(id)
	if medicine == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medicine not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"medicine": medicine})
}

func (s *Server) handleMedicineUsages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid medicine ID"})
		return
	}

	medicine := s.catalog.GetByID(id)
	if medicine == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medicine not found"})
		return
	}

	language := c.DefaultQuery("language", "English")
	rc := common.NewRequestContext()
	ctx := c.Request.Context()

	usages := s.usages.ForCatalogEntry(ctx, medicine.Name, medicine.GenericName, medicine.Composition, medicine.Disease, rc)

	response := gin.H{
		"success":  true,
		"medicine": medicine.Name,
		"usages":   usages,
	}

	if language != "English" {
		response["usages"] = s.translateUsages(c, usages, language, rc)
	}

	c.JSON(http.StatusOK, response)
}

type usagesByNameRequest struct {
	MedicineName string `json:"medicineName"`
	GenericName  string `json:"genericName"`
	Dosage       string `json:"dosage"`
	Language     string `json:"language"`
}

func (s *Server) handleMedicineUsagesByName(c *gin.Context) {
	var req usagesByNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MedicineName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Medicine name is required"})
		return
	}

	rc := common.NewRequestContext()
	usages := s.usages.ByName(c.Request.Context(), req.MedicineName, req.GenericName, req.Dosage, rc)

	response := gin.H{
		"success":  true,
		"medicine": req.MedicineName,
		"usages":   usages,
	}

	if req.Language != "" && req.Language != "English" {
		response["usages"] = s.translateUsages(c, usages, req.Language, rc)
	}

	c.JSON(http.StatusOK, response)
}

// translateUsages reshapes a usage sheet through the fail-open
// translator. The map round-trip keeps unknown fields intact.
func (s *Server) translateUsages(c *gin.Context, usages interface{}, language string, rc *common.RequestContext) interface{} {
	payload, ok := toMap(usages)
	if !ok {
		return usages
	}
	return s.translator.TranslateMap(c.Request.Context(), payload, language, rc)
}

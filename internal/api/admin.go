// admin.go - Doctor registration review endpoints

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleDoctorRegistrations(c *gin.Context) {
	doctors, err := s.store.ListDoctors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	registrations := make([]gin.H, 0, len(doctors))
	for idx, doctor := range doctors {
		status := doctor.RegistrationStatus
		if status == "" {
			// Accounts created before the review flow existed.
			status = "approved"
		}
		submittedAt := doctor.SubmittedAt
		if submittedAt == "" {
			submittedAt = time.Now().Format(time.RFC3339)
		}

		registrations = append(registrations, gin.H{
			"id":                  idx + 1,
			"_mongoId":            doctor.MongoID.Hex(),
			"name":                doctor.Name,
			"email":               doctor.Email,
			"licenseNumber":       doctor.LicenseNumber,
			"specialization":      doctor.Specialization,
			"hospitalAffiliation": doctor.HospitalAffiliation,
			"phone":               doctor.Phone,
			"yearsOfExperience":   doctor.YearsOfExperience,
			"licenseCertificate":  doctor.LicenseCertificate,
			"licenseFileName":     doctor.LicenseFileName,
			"status":              status,
			"submittedAt":         submittedAt,
			"reviewedAt":          doctor.ReviewedAt,
			"reviewNotes":         doctor.ReviewNotes,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "registrations": registrations})
}

type reviewRequest struct {
	Status      string `json:"status"`
	ReviewNotes string `json:"reviewNotes"`
}

func (s *Server) handleReviewDoctorRegistration(c *gin.Context) {
	doctorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid doctor ID"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Status != "approved" && req.Status != "rejected" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
		return
	}

	ctx := c.Request.Context()

	// The admin UI addresses doctors by their position in the
	// registrations list, so resolve the 1-based index back to the
	// stored document.
	doctors, err := s.store.ListDoctors(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if doctorID < 1 || doctorID > len(doctors) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found"})
		return
	}

	updated, err := s.store.SetRegistrationStatus(ctx, doctors[doctorID-1].MongoID, req.Status, req.ReviewNotes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !updated {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update registration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Doctor registration " + req.Status + " successfully",
	})
}

// auth.go - Login and registration endpoints

package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/telehealth-backend/internal/storage"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("Login lookup failed: %v", err)
	}

	if user != nil {
		if req.Type == "doctor" {
			switch user.RegistrationStatus {
			case "pending":
				c.JSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Your account is pending admin approval. Please wait for verification.",
				})
				return
			case "rejected":
				c.JSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Your registration was rejected. Please contact support.",
				})
				return
			}
		}

		// TODO: replace plaintext comparison with bcrypt once the
		// frontend migration lands.
		if user.Password == req.Password && user.Type == req.Type {
			c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
			return
		}
	}

	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
}

type registerPatientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (s *Server) handleRegisterPatient(c *gin.Context) {
	var req registerPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	for field, value := range map[string]string{
		"name": req.Name, "email": req.Email, "password": req.Password, "phone": req.Phone,
	} {
		if value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: " + field})
			return
		}
	}

	ctx := c.Request.Context()
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already registered"})
		return
	}

	patientCount, _ := s.store.CountUsersByType(ctx, "patient")

	// Demo accounts use ids 1 and 2; registered patients start at 100.
	user := &storage.User{
		ID:           fmt.Sprintf("%d", patientCount+100),
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Type:         "patient",
		Phone:        req.Phone,
		RegisteredAt: time.Now().Format(time.RFC3339),
	}

	patientID, err := s.store.CreateUser(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Registration successful! You can now login.",
		"patientId": patientID,
	})
}

type registerDoctorRequest struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	LicenseNumber       string `json:"licenseNumber"`
	Specialization      string `json:"specialization"`
	HospitalAffiliation string `json:"hospitalAffiliation"`
	Phone               string `json:"phone"`
	YearsOfExperience   int    `json:"yearsOfExperience"`
	LicenseCertificate  string `json:"licenseCertificate"`
	LicenseFileName     string `json:"licenseFileName"`
}

func (s *Server) handleRegisterDoctor(c *gin.Context) {
	var req registerDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	required := []struct{ name, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
		{"licenseNumber", req.LicenseNumber},
		{"specialization", req.Specialization},
		{"phone", req.Phone},
		{"licenseCertificate", req.LicenseCertificate},
		{"licenseFileName", req.LicenseFileName},
	}
	for _, f := range required {
		if f.value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: " + f.name})
			return
		}
	}

	ctx := c.Request.Context()
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already registered"})
		return
	}

	doctor := &storage.User{
		Name:                req.Name,
		Email:               req.Email,
		Password:            req.Password,
		Type:                "doctor",
		LicenseNumber:       req.LicenseNumber,
		Specialization:      req.Specialization,
		HospitalAffiliation: req.HospitalAffiliation,
		Phone:               req.Phone,
		YearsOfExperience:   req.YearsOfExperience,
		LicenseCertificate:  req.LicenseCertificate,
		LicenseFileName:     req.LicenseFileName,
		RegistrationStatus:  "pending",
		SubmittedAt:         time.Now().Format(time.RFC3339),
	}

	doctorID, err := s.store.CreateUser(ctx, doctor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Registration submitted successfully. Please wait for admin approval.",
		"doctorId": doctorID,
	})
}

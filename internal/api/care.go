// care.go - Orders, consultations, prescriptions, and notifications

package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/telehealth-backend/internal/common"
	"github.com/arogyalabs/telehealth-backend/internal/storage"
)

type createOrderRequest struct {
	UserID    string              `json:"userId"`
	Medicines []storage.OrderItem `json:"medicines"`
	Shop      interface{}         `json:"shop"`
	Address   string              `json:"address"`
	Phone     string              `json:"phone"`
	Total     float64             `json:"total"`
	Symptoms  string              `json:"symptoms"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	orderCount, _ := s.store.CountOrders(ctx)

	order := &storage.Order{
		ID:        fmt.Sprintf("ORD-%s-%03d", time.Now().Format("20060102"), orderCount+1),
		UserID:    req.UserID,
		Medicines: req.Medicines,
		Shop:      req.Shop,
		Address:   req.Address,
		Phone:     req.Phone,
		Total:     req.Total,
		Status:    "pending",
	}
	if order.Medicines == nil {
		order.Medicines = []storage.OrderItem{}
	}

	if err := s.store.CreateOrder(ctx, order); err != nil && err != storage.ErrNotConnected {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Every order opens a consultation so a doctor reviews it.
	consultationCount, _ := s.store.CountConsultations(ctx)
	consultation := &storage.Consultation{
		ID:       consultationCount + 1,
		OrderID:  order.ID,
		UserID:   req.UserID,
		Status:   "pending",
		Symptoms: req.Symptoms,
	}
	if err := s.store.CreateConsultation(ctx, consultation); err != nil && err != storage.ErrNotConnected {
		log.Printf("Failed to create consultation for order %s: %v", order.ID, err)
	}

	symptomsPreview := common.Truncate(req.Symptoms, 50)
	if err := s.notifier.NotifyAllDoctors(ctx, storage.Notification{
		Type:           "new_consultation",
		Title:          "New Consultation Request",
		Message:        fmt.Sprintf("A new consultation request has been submitted for symptoms: %s...", symptomsPreview),
		ConsultationID: consultation.ID,
		OrderID:        order.ID,
	}, fmt.Sprintf("HealthCare: New patient consultation request. Symptoms: %s... Login to respond.", symptomsPreview)); err != nil {
		log.Printf("Doctor notification failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order, "consultation": consultation})
}

func (s *Server) handleUserOrders(c *gin.Context) {
	orders, err := s.store.OrdersByUser(c.Request.Context(), c.Param("userId"), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) handleUserConsultations(c *gin.Context) {
	consultations, err := s.store.ConsultationsByUser(c.Request.Context(), c.Param("userId"), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

func (s *Server) handlePendingConsultations(c *gin.Context) {
	consultations, err := s.store.PendingConsultations(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

func (s *Server) handleUpdateConsultation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation ID"})
		return
	}

	var update storage.ConsultationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	consultation, err := s.store.UpdateConsultation(ctx, id, &update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if consultation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
		return
	}

	if consultation.UserID != "" {
		diagnosis := consultation.Diagnosis
		if diagnosis == "" {
			diagnosis = "See details"
		}

		doctorName := "Your doctor"
		if consultation.DoctorID != "" {
			if doctor, err := s.store.GetUserByID(ctx, consultation.DoctorID); err == nil && doctor != nil {
				doctorName = doctor.Name
			}
		}

		smsDiagnosis := common.Truncate(diagnosis, 80)
		if err := s.notifier.NotifyPatient(ctx, storage.Notification{
			UserID:         consultation.UserID,
			Type:           "consultation_completed",
			Title:          "Consultation Completed",
			Message:        fmt.Sprintf("Your consultation has been completed. Diagnosis: %s", diagnosis),
			ConsultationID: consultation.ID,
		}, fmt.Sprintf("HealthCare: Dr. %s completed your consultation. Diagnosis: %s. Login to view prescription & details.", doctorName, smsDiagnosis)); err != nil {
			log.Printf("Patient notification failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "consultation": consultation})
}

type createPrescriptionRequest struct {
	UserID    string   `json:"userId"`
	Doctor    string   `json:"doctor"`
	Medicines []string `json:"medicines"`
}

func (s *Server) handleCreatePrescription(c *gin.Context) {
	var req createPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	count, _ := s.store.CountPrescriptions(ctx)

	prescription := &storage.Prescription{
		ID:        count + 1,
		UserID:    req.UserID,
		Doctor:    req.Doctor,
		Medicines: req.Medicines,
		Status:    "active",
	}
	if prescription.Medicines == nil {
		prescription.Medicines = []string{}
	}

	if err := s.store.CreatePrescription(ctx, prescription); err != nil && err != storage.ErrNotConnected {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prescription": prescription})
}

func (s *Server) handleUserPrescriptions(c *gin.Context) {
	prescriptions, err := s.store.PrescriptionsByUser(c.Request.Context(), c.Param("userId"), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions})
}

func (s *Server) handleUserNotifications(c *gin.Context) {
	userID := c.Param("id")
	unreadOnly := c.DefaultQuery("unread_only", "false") == "true"
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 50
	}

	ctx := c.Request.Context()
	notifications, err := s.store.NotificationsForUser(ctx, userID, limit, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	unreadCount, _ := s.store.UnreadCount(ctx, userID)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unreadCount":   unreadCount,
	})
}

func (s *Server) handleMarkNotificationRead(c *gin.Context) {
	notification, err := s.store.MarkNotificationRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if notification == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notification": notification})
}

func (s *Server) handleMarkAllNotificationsRead(c *gin.Context) {
	if err := s.store.MarkAllNotificationsRead(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

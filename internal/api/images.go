// images.go - Image upload endpoints and base64 decoding helpers

package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/telehealth-backend/internal/common"
)

type imageRequest struct {
	Image string `json:"image"`
}

// decodeImagePayload splits a data URL ("data:image/png;base64,...")
// or bare base64 string into raw bytes and a mime type. Unknown
// headers default to JPEG, which is what phone cameras send.
func decodeImagePayload(payload string) ([]byte, string, error) {
	data := payload
	mimeType := "image/jpeg"

	if idx := strings.Index(payload, ","); idx >= 0 {
		header := strings.ToLower(payload[:idx])
		data = payload[idx+1:]
		switch {
		case strings.Contains(header, "png"):
			mimeType = "image/png"
		case strings.Contains(header, "gif"):
			mimeType = "image/gif"
		}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", err
	}
	return raw, mimeType, nil
}

func (s *Server) handleMedicineImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}

	image, mimeType, err := decodeImagePayload(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image encoding"})
		return
	}

	rc := common.NewRequestContext()
	ctx := c.Request.Context()

	extraction, extractedText, method := s.medicines.Analyze(ctx, image, mimeType, rc)

	// Look the recovered name up in the catalog; retry with the
	// first word and the generic name when the full name misses.
	medicines := []interface{}{}
	if extraction.MedicineName != "" {
		found := s.catalog.Search(extraction.MedicineName, 10)
		if len(found) == 0 && strings.Contains(extraction.MedicineName, " ") {
			found = s.catalog.Search(strings.Fields(extraction.MedicineName)[0], 10)
		}
		if len(found) == 0 && extraction.GenericName != "" {
			found = s.catalog.Search(extraction.GenericName, 10)
		}
		for _, m := range found {
			medicines = append(medicines, m)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"extractedText": extractedText,
		"ocrMethod":     method,
		"ocrResult": gin.H{
			"detected":       extraction.MedicineName != "",
			"medicineName":   extraction.MedicineName,
			"genericName":    extraction.GenericName,
			"dosage":         extraction.Dosage,
			"confidence":     extraction.Confidence,
			"additionalInfo": "",
		},
		"medicines": medicines,
	})
}

func (s *Server) handlePrescriptionImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}

	image, mimeType, err := decodeImagePayload(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image encoding"})
		return
	}

	rc := common.NewRequestContext()
	ctx := c.Request.Context()

	extraction, extractedText, method := s.prescription.Analyze(ctx, image, mimeType, rc)

	foundMedicines := []gin.H{}
	for _, med := range extraction.Medicines {
		if med.Name == "" {
			continue
		}
		matches := s.catalog.Search(med.Name, 3)
		if len(matches) == 0 && strings.Contains(med.Name, " ") {
			matches = s.catalog.Search(strings.Fields(med.Name)[0], 3)
		}
		foundMedicines = append(foundMedicines, gin.H{
			"prescribedName":   med.Name,
			"dosage":           med.Dosage,
			"frequency":        med.Frequency,
			"duration":         med.Duration,
			"matchedMedicines": matches,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"extractedText": extractedText,
		"ocrMethod":     method,
		"prescriptionData": gin.H{
			"medicines":    foundMedicines,
			"doctorName":   extraction.DoctorName,
			"patientName":  extraction.PatientName,
			"date":         extraction.Date,
			"confidence":   extraction.Confidence,
			"rawMedicines": extraction.Medicines,
		},
	})
}

// toMap converts a struct to its JSON map form.
func toMap(v interface{}) (map[string]interface{}, bool) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if err := json.Unmarshal(encoded, &m); err != nil {
		return nil, false
	}
	return m, true
}

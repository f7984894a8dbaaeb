package server

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plansight/plansight/internal/annotate"
	"github.com/plansight/plansight/internal/imaging"
	"github.com/plansight/plansight/internal/store"
)

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "plansight",
	})
}

// handleDetect runs full-sheet detection on an uploaded drawing.
//
// The response always carries circles and texts arrays; unexpected failures
// produce the error envelope with both arrays empty rather than a 5xx, so
// the review UI never has to special-case a broken sheet.
func (s *Server) handleDetect(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("server: detect panicked: %v", r)
			c.JSON(http.StatusOK, gin.H{
				"error":   "detection failed",
				"circles": []annotate.DetectedCircle{},
				"texts":   []annotate.DetectedTextBox{},
			})
		}
	}()

	data, ok := s.readUpload(c)
	if !ok {
		return
	}

	circles, texts := s.detector.DetectImage(data)

	resp := gin.H{
		"circles": circles,
		"texts":   texts,
	}

	if c.PostForm("preview") == "true" {
		if preview, err := renderPreview(data, circles, texts); err == nil {
			resp["preview"] = preview
		} else {
			log.Printf("server: preview render failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// handleRegionDetect runs detection scoped to a sub-rectangle of the sheet.
// Coordinates come as form fields; output coordinates are in the full
// sheet's frame and the analyzed crop is echoed back as a JPEG data URI.
func (s *Server) handleRegionDetect(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("server: region detect panicked: %v", r)
			c.JSON(http.StatusOK, gin.H{
				"error":      "detection failed",
				"circles":    []annotate.DetectedCircle{},
				"detections": []annotate.DetectedTextBox{},
			})
		}
	}()

	data, ok := s.readUpload(c)
	if !ok {
		return
	}

	reg, err := regionFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := imaging.DecodeBytes(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "undecodable image"})
		return
	}

	res := s.detector.DetectRegion(img, reg)
	c.JSON(http.StatusOK, res)
}

// readUpload pulls the multipart "file" field, enforcing the upload limit.
func (s *Server) readUpload(c *gin.Context) ([]byte, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, false
	}
	defer file.Close()

	reader := io.Reader(file)
	if s.maxUpload > 0 {
		reader = io.LimitReader(file, s.maxUpload+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return nil, false
	}
	if s.maxUpload > 0 && int64(len(data)) > s.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds upload limit"})
		return nil, false
	}
	return data, true
}

func regionFromForm(c *gin.Context) (annotate.Region, error) {
	var reg annotate.Region
	var err error
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"x", &reg.X}, {"y", &reg.Y}, {"w", &reg.W}, {"h", &reg.H},
	} {
		*field.dst, err = strconv.Atoi(c.PostForm(field.name))
		if err != nil {
			return reg, &fieldError{field.name}
		}
	}
	if reg.W <= 0 || reg.H <= 0 {
		return reg, &fieldError{"w/h"}
	}
	return reg, nil
}

type fieldError struct{ field string }

func (e *fieldError) Error() string {
	return "invalid or missing region field: " + e.field
}

// renderPreview draws the detections on the uploaded drawing and returns a
// PNG data URI.
func renderPreview(data []byte, circles []annotate.DetectedCircle, texts []annotate.DetectedTextBox) (string, error) {
	img, err := imaging.DecodeBytes(data)
	if err != nil {
		return "", err
	}

	oc := make([]imaging.OverlayCircle, 0, len(circles))
	for _, c := range circles {
		oc = append(oc, imaging.OverlayCircle{
			X: c.X, Y: c.Y, R: c.Radius,
			Label: strconv.Itoa(c.ID),
		})
	}
	ob := make([]imaging.OverlayBox, 0, len(texts))
	for _, b := range texts {
		ob = append(ob, imaging.OverlayBox{
			X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2,
			Label: strconv.Itoa(b.ID),
		})
	}

	encoded, err := imaging.EncodePNGBase64(imaging.RenderOverlay(img, oc, ob))
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + encoded, nil
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}

	sess, err := s.store.CreateSession(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		log.Printf("server: create session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

type logoutRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleLogout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	if err := s.store.EndSession(c.Request.Context(), req.SessionID); err != nil {
		log.Printf("server: end session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleActivityLog(c *gin.Context) {
	var ev store.ActivityEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity payload"})
		return
	}

	if err := s.store.LogActivity(c.Request.Context(), &ev); err != nil {
		log.Printf("server: log activity failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log activity"})
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *Server) handleActivityList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := s.store.ListActivity(c.Request.Context(), limit)
	if err != nil {
		log.Printf("server: list activity failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

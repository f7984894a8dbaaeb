package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/plansight/plansight/internal/annotate"
	"github.com/plansight/plansight/internal/ocr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubEngine returns a fixed token set for every Detect call.
type stubEngine struct {
	tokens []ocr.Token
}

func (s *stubEngine) Detect(img image.Image, params ocr.Params) ([]ocr.Token, error) {
	return s.tokens, nil
}

func wordToken(text string, x1, y1, x2, y2 int) ocr.Token {
	return ocr.Token{
		Polygon: []ocr.Point{
			{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
		},
		Text:          text,
		Confidence:    0.9,
		HasConfidence: true,
	}
}

func testRouter(t *testing.T, eng ocr.Engine, maxUpload int64) *gin.Engine {
	t.Helper()
	detector := annotate.New(eng, annotate.DefaultOptions())
	return New(detector, nil, maxUpload).Router()
}

func sheetPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload builds a request body with a "file" part plus extra fields.
func multipartUpload(t *testing.T, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if fileData != nil {
		part, err := writer.CreateFormFile("file", "sheet.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, &stubEngine{}, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDetect(t *testing.T) {
	eng := &stubEngine{tokens: []ocr.Token{wordToken("CORRIDOR", 20, 20, 140, 45)}}
	router := testRouter(t, eng, 0)

	body, contentType := multipartUpload(t, sheetPNG(t, 300, 300), nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Circles []annotate.DetectedCircle  `json:"circles"`
		Texts   []annotate.DetectedTextBox `json:"texts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Texts) != 1 || resp.Texts[0].Text != "CORRIDOR" {
		t.Errorf("texts = %+v, want one CORRIDOR box", resp.Texts)
	}
	if len(resp.Circles) != 0 {
		t.Errorf("circles = %+v, want none on a blank sheet", resp.Circles)
	}
}

func TestDetect_NoFile(t *testing.T) {
	router := testRouter(t, &stubEngine{}, 0)

	body, contentType := multipartUpload(t, nil, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDetect_GarbageUpload(t *testing.T) {
	router := testRouter(t, &stubEngine{}, 0)

	body, contentType := multipartUpload(t, []byte("not an image"), nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	// Undecodable input degrades to empty results, not an HTTP error.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Circles []annotate.DetectedCircle  `json:"circles"`
		Texts   []annotate.DetectedTextBox `json:"texts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Circles) != 0 || len(resp.Texts) != 0 {
		t.Error("garbage upload should yield empty results")
	}
}

func TestDetect_UploadLimit(t *testing.T) {
	router := testRouter(t, &stubEngine{}, 64)

	body, contentType := multipartUpload(t, sheetPNG(t, 300, 300), nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestDetect_Preview(t *testing.T) {
	eng := &stubEngine{tokens: []ocr.Token{wordToken("CORRIDOR", 20, 20, 140, 45)}}
	router := testRouter(t, eng, 0)

	body, contentType := multipartUpload(t, sheetPNG(t, 300, 300), map[string]string{"preview": "true"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	var preview string
	if err := json.Unmarshal(resp["preview"], &preview); err != nil {
		t.Fatalf("preview missing or invalid: %v", err)
	}
	if !strings.HasPrefix(preview, "data:image/png;base64,") {
		t.Errorf("preview should be a PNG data URI, got %.40q", preview)
	}
}

func TestRegionDetect(t *testing.T) {
	eng := &stubEngine{tokens: []ocr.Token{wordToken("ROOM", 10, 10, 70, 30)}}
	router := testRouter(t, eng, 0)

	body, contentType := multipartUpload(t, sheetPNG(t, 400, 400), map[string]string{
		"x": "100", "y": "50", "w": "200", "h": "200",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/detect/region-detect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp annotate.RegionResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Detections) != 1 {
		t.Fatalf("detections = %+v, want 1", resp.Detections)
	}
	if resp.Detections[0].X1 != 110 || resp.Detections[0].Y1 != 60 {
		t.Errorf("box origin = (%d,%d), want sheet-frame (110,60)",
			resp.Detections[0].X1, resp.Detections[0].Y1)
	}
	if !strings.HasPrefix(resp.CroppedImage, "data:image/jpeg;base64,") {
		t.Errorf("cropped_image should be a JPEG data URI, got %.40q", resp.CroppedImage)
	}
}

func TestRegionDetect_MissingFields(t *testing.T) {
	router := testRouter(t, &stubEngine{}, 0)

	body, contentType := multipartUpload(t, sheetPNG(t, 100, 100), map[string]string{
		"x": "10", "y": "10",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/detect/region-detect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAuthRoutesDisabledWithoutStore(t *testing.T) {
	router := testRouter(t, &stubEngine{}, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no database is configured", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter(t, &stubEngine{}, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/detect", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204 for preflight", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}

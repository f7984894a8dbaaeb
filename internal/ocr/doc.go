// Package ocr defines the OCR adapter contract consumed by the annotation
// pipeline and provides a Tesseract-backed implementation via gosseract/v2.
//
// The pipeline depends only on the Engine interface, which takes a 3-channel
// raster plus a small set of named tuning parameters and returns recognized
// tokens (bounding polygon, text, confidence). Tests substitute a stub
// Engine; production wires the Tesseract implementation.
//
// # Prerequisites
//
// The Tesseract backend requires tesseract installed on the system together
// with the English language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Engine Lifecycle
//
// Tesseract initializes lazily on first use, at most once per process: a
// probe attempts the fast sparse-text segmentation mode and falls back to
// full automatic page segmentation if the probe fails. After initialization
// the engine is safe to call concurrently; each Detect call runs its own
// gosseract client.
//
// # Failure Mode
//
// An unavailable engine surfaces as ErrUnavailable. Callers in the pipeline
// treat that as "no tokens" and continue with geometry-only results rather
// than failing the request.
package ocr

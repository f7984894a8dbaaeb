// Package imaging provides the image primitives used by the annotation
// extraction pipeline: byte decoding, OCR-oriented preprocessing, region
// cropping, preview encoding, and annotation overlay rendering.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Preprocessing Contract
//
// The preprocessing functions (EnhanceContrast, RemoveGridLines,
// UpscaleForOCR) exist to improve OCR legibility on scanned construction
// drawings. They follow a graceful-degradation contract: on any internal
// failure or degenerate input they return the original image unmodified and
// never return an error. Downstream OCR always receives a usable raster.
//
// # Thread Safety
//
// All functions are stateless and safe to call concurrently on different
// images. Operations on the same mutable image must be synchronized by the
// caller.
package imaging

// Package annotate turns scanned construction drawings into structured
// annotations: circular callout markers (detail number + sheet reference)
// and free-floating text labels (room names, sheet titles, dimensions).
//
// The pipeline combines a classical circle detector with noisy OCR output:
//
//	image bytes -> decode -> circle localization -> per-circle crop,
//	preprocess, OCR, token split -> page/circle field derivation
//
// and, in parallel for the same image,
//
//	full-page OCR (two passes) -> token cleanup -> classification ->
//	box dedup -> multi-line vertical merge -> final text-box list
//
// # Detector
//
// All entry points hang off Detector, which carries the OCR engine handle
// and the tunables (Options). Build one per process and share it; it is
// safe for concurrent use once constructed.
//
// # Failure Policy
//
// No entry point fails: undecodable input, an unavailable OCR engine, or
// per-token anomalies all degrade to fewer results. Rejections by the text
// normalizer, classifier, or page-reference grammar are filtering outcomes,
// not errors.
package annotate

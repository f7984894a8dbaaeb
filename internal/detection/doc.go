// Package detection implements the classical computer-vision detector used
// by the annotation pipeline: callout circle localization via the Hough
// circle transform.
//
// Construction drawings mark details with circular "callout" bubbles of a
// narrow, predictable size range, so the detector runs with a fixed,
// non-adaptive parameter set (the constants in this package) rather than
// exposing tuning knobs per call.
//
// # Algorithm
//
//  1. Edge detection: gradient thresholding on the grayscale image
//  2. Accumulator voting: for each radius in the configured band, each edge
//     pixel votes for potential centers every 10 degrees
//  3. Peak detection: local maxima above 60% of the expected circumference
//  4. Ranking: candidates ordered by accumulator strength, with a minimum
//     center distance enforced between accepted circles
//
// # Coordinate System
//
// Origin (0,0) at top-left, X rightward, Y downward. Returned centers are in
// the source image's coordinate space.
//
// # Failure Mode
//
// The localizer never fails: empty or degenerate images simply yield an
// empty result.
package detection

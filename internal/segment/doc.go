// Package segment cuts sample clips out of a source video and verifies
// them. Each clip is extracted with a seeked trim, scaled into the planned
// cell geometry, checked for size and playable duration, and optionally
// stamped with its source offset. Individual clip failures are absorbed;
// only a run that yields zero usable clips fails the video.
//
// Split along these boundaries: extract.go, verify.go, overlay.go.
package segment

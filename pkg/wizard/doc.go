// Package wizard implements the generic donation flow: pick an export
// file, extract it into reviewable tables, offer a retry on unusable
// input, then let the participant review and donate or decline.
//
// The wizard is platform-agnostic. Everything platform-specific lives
// behind ports.Extractor; the wizard owns the prompts, the retry loop
// and the consent review.
package wizard

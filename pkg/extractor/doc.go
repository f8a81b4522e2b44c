// Package extractor reads the typography of a selected text element and
// normalizes it into a StyleRecord: size in rem, weight keyword, family,
// letter spacing in em, unitless line height and CSS alignment.
//
// Automatic line heights cannot be read from a text element directly. They
// are resolved by a host.LineHeightMeasurer; ResizeMeasurer implements the
// measurement on a live, mutable document and always restores the element
// it touched.
package extractor

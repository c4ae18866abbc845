package models

import "encoding/base64"

// ImageKind identifies which plot produced an Image
type ImageKind string

const (
	ImageHistogram   ImageKind = "histogram"
	ImageBoxPlot     ImageKind = "boxplot"
	ImageCorrelation ImageKind = "correlation"
)

// Image is an encoded PNG plus the column(s) it was derived from
type Image struct {
	Kind    ImageKind `json:"kind"`
	Columns []string  `json:"columns"`
	Title   string    `json:"title"`
	PNG     []byte    `json:"-"`
}

// Base64 returns the PNG encoded for inline embedding
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.PNG)
}

// DataURI returns the image as a data: URI usable in an <img> tag
func (img Image) DataURI() string {
	return "data:image/png;base64," + img.Base64()
}

package raster

import (
	"image"

	"github.com/anthonynsimon/bild/histogram"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// borderUniformityThreshold is the maximum CIE-Lab distance between any
// border pixel and the mean border color for the border to count as
// uniform. 0.08 admits light antialiasing noise but not actual content.
const borderUniformityThreshold = 0.08

// ChannelStats summarizes one channel's value distribution.
type ChannelStats struct {
	Channel string  `json:"channel"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Mean    float64 `json:"mean"`
}

// Info is an inspection report for a raster: its profile plus pixel
// statistics useful when eyeballing an unfamiliar map scan.
type Info struct {
	Path     string         `json:"path"`
	Profile  Profile        `json:"profile"`
	Channels []ChannelStats `json:"channels"`

	// NoDataColor is the hex color of the image border when the border is
	// a single uniform color — the usual sign of a scan margin or nodata
	// collar. Empty when the border carries content.
	NoDataColor string `json:"nodata_color,omitempty"`
}

// Describe opens the raster at path and computes its inspection report.
func Describe(path string) (*Info, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Path:     path,
		Profile:  r.Profile,
		Channels: channelStats(r.Image, r.Profile.Bands),
	}
	if hex, ok := uniformBorderColor(r.Image); ok {
		info.NoDataColor = hex
	}
	return info, nil
}

// channelStats computes per-channel min/max/mean from an 8-bit histogram.
func channelStats(img image.Image, bands int) []ChannelStats {
	h := histogram.NewRGBAHistogram(img)

	channels := []struct {
		name string
		bins []int
	}{
		{"red", h.R.Bins},
		{"green", h.G.Bins},
		{"blue", h.B.Bins},
		{"alpha", h.A.Bins},
	}
	if bands == 1 {
		// Grayscale decodes with R=G=B; one channel tells the story.
		channels = channels[:1]
		channels[0].name = "gray"
	} else if bands < 4 {
		channels = channels[:3]
	}

	stats := make([]ChannelStats, 0, len(channels))
	for _, ch := range channels {
		stats = append(stats, binStats(ch.name, ch.bins))
	}
	return stats
}

func binStats(name string, bins []int) ChannelStats {
	s := ChannelStats{Channel: name, Min: -1, Max: -1}
	var total, weighted int
	for value, count := range bins {
		if count == 0 {
			continue
		}
		if s.Min < 0 {
			s.Min = value
		}
		s.Max = value
		total += count
		weighted += value * count
	}
	if s.Min < 0 {
		s.Min, s.Max = 0, 0
		return s
	}
	s.Mean = float64(weighted) / float64(total)
	return s
}

// uniformBorderColor samples the outermost pixel ring and reports its color
// when every sample sits within a small Lab distance of the ring's mean.
func uniformBorderColor(img image.Image) (string, bool) {
	bounds := img.Bounds()
	if bounds.Dx() < 2 || bounds.Dy() < 2 {
		return "", false
	}

	var samples []colorful.Color
	appendSample := func(x, y int) {
		c, ok := colorful.MakeColor(img.At(x, y))
		if ok {
			samples = append(samples, c)
		}
	}
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		appendSample(x, bounds.Min.Y)
		appendSample(x, bounds.Max.Y-1)
	}
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		appendSample(bounds.Min.X, y)
		appendSample(bounds.Max.X-1, y)
	}
	if len(samples) == 0 {
		return "", false
	}

	var mean colorful.Color
	for _, c := range samples {
		mean.R += c.R
		mean.G += c.G
		mean.B += c.B
	}
	n := float64(len(samples))
	mean.R /= n
	mean.G /= n
	mean.B /= n

	for _, c := range samples {
		if c.DistanceLab(mean) > borderUniformityThreshold {
			return "", false
		}
	}
	return mean.Clamped().Hex(), true
}

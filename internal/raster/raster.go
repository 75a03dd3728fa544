package raster

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	// Register decoders for every supported container format.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// jpegQuality is used for every JPEG encode. Maps are line art more often
// than photographs, so quality is kept high.
const jpegQuality = 95

// ReadError reports a source raster that could not be opened or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading raster %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a destination raster that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing raster %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Raster is a decoded raster: pixel data plus its profile. Pixel data is
// read fresh from storage per open; nothing is mutated in place.
type Raster struct {
	Image   image.Image
	Profile Profile
}

// Open decodes the raster at path and loads its spatial metadata from
// sidecar files when present. Returns *ReadError if the file cannot be
// read or is not a supported raster format.
func Open(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	img, formatName, err := image.Decode(f)
	if err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	profile := profileFor(img, formatFromDecoderName(formatName))

	crs, transform, err := readSidecars(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	profile.CRS = crs
	profile.Transform = transform

	return &Raster{Image: img, Profile: profile}, nil
}

// Write encodes the image to path in the profile's format and writes
// georeference sidecars iff the profile carries spatial metadata. Returns
// *WriteError on any failure.
func Write(path string, img image.Image, profile Profile) error {
	if err := profile.Validate(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	err = encode(f, img, profile.Format)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// Don't leave a half-written artifact next to good ones.
		os.Remove(path)
		return &WriteError{Path: path, Err: err}
	}

	if profile.Transform != nil {
		if err := writeWorldFile(WorldFilePath(path), *profile.Transform); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	if profile.CRS != nil {
		if err := writeCRSFile(CRSFilePath(path), *profile.CRS); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	return nil
}

// encode writes the image in the given format. TIFF goes through
// x/image/tiff directly so the output is Deflate-compressed with a
// horizontal predictor, the layout GIS tooling expects; the remaining
// formats go through the imaging package.
func encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case FormatGIF:
		return imaging.Encode(w, img, imaging.GIF)
	case FormatBMP:
		return imaging.Encode(w, img, imaging.BMP)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// convertOptions carries optional spatial metadata to attach during a
// conversion.
type convertOptions struct {
	crs       *CRS
	transform *GeoTransform
}

// ConvertOption customizes a Convert call.
type ConvertOption func(*convertOptions)

// WithGeoreference attaches an externally determined CRS and transform to
// the conversion output. This is how a format conversion and a
// georeferencing step compose into a single write.
func WithGeoreference(crs CRS, transform GeoTransform) ConvertOption {
	return func(o *convertOptions) {
		o.crs = &crs
		o.transform = &transform
	}
}

// Convert re-encodes the raster at srcPath into format at dstPath. Pixel
// data is carried over unchanged. Spatial metadata present on the source
// is preserved; none is ever invented. Returns the profile that was
// written.
func Convert(srcPath, dstPath string, format Format, opts ...ConvertOption) (*Profile, error) {
	var options convertOptions
	for _, opt := range opts {
		opt(&options)
	}

	src, err := Open(srcPath)
	if err != nil {
		return nil, err
	}

	profile := src.Profile
	profile.Format = format
	if options.crs != nil {
		profile.CRS = options.crs
	}
	if options.transform != nil {
		profile.Transform = options.transform
	}

	if err := Write(dstPath, src.Image, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

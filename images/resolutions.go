package images

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// AspectRatio represents an aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Common aspect ratios of the preset resolutions.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio54  AspectRatio = "5:4"
	AspectRatio11  AspectRatio = "1:1"
)

// ResolutionAlias is the short name a caller uses to request a preset target size.
type ResolutionAlias string

// Preset resolution aliases.
const (
	ResolutionAlias360p  ResolutionAlias = "360p"
	ResolutionAlias480p  ResolutionAlias = "480p"
	ResolutionAlias540p  ResolutionAlias = "540p"
	ResolutionAlias720p  ResolutionAlias = "720p"
	ResolutionAlias1080p ResolutionAlias = "1080p"
	ResolutionAlias1440p ResolutionAlias = "1440p"
	ResolutionAlias4K    ResolutionAlias = "4k"
	ResolutionAlias8K    ResolutionAlias = "8k"
	ResolutionAlias1MP   ResolutionAlias = "1mp"
	ResolutionAliasVGA   ResolutionAlias = "vga"
	ResolutionAliasThumb ResolutionAlias = "thumb"
)

// Pixels describes the exact dimensions of a resolution.
type Pixels struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Resolution is a named target size.
type Resolution struct {
	Alias       ResolutionAlias `json:"alias" yaml:"alias"`
	AspectRatio AspectRatio     `json:"aspectRatio" yaml:"aspectRatio"`
	Pixels      Pixels          `json:"pixels" yaml:"pixels"`
}

// MegaPixels returns the pixel count in millions rounded to two decimals
// (e.g., 2.07 for 1080p). Non-positive dimensions give 0.
func (r Resolution) MegaPixels() float64 {
	if r.Pixels.Width <= 0 || r.Pixels.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Alias, r.Pixels.Width, r.Pixels.Height, r.MegaPixels())
}

// Resolutions holds every preset keyed by alias.
var Resolutions = map[ResolutionAlias]Resolution{
	ResolutionAlias360p:  {Alias: ResolutionAlias360p, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 640, Height: 360}},
	ResolutionAlias480p:  {Alias: ResolutionAlias480p, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 854, Height: 480}},
	ResolutionAlias540p:  {Alias: ResolutionAlias540p, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 960, Height: 540}},
	ResolutionAlias720p:  {Alias: ResolutionAlias720p, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 1280, Height: 720}},
	ResolutionAlias1080p: {Alias: ResolutionAlias1080p, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 1920, Height: 1080}},
	ResolutionAlias1440p: {Alias: ResolutionAlias1440p, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 2560, Height: 1440}},
	ResolutionAlias4K:    {Alias: ResolutionAlias4K, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 3840, Height: 2160}},
	ResolutionAlias8K:    {Alias: ResolutionAlias8K, AspectRatio: AspectRatio169, Pixels: Pixels{Width: 7680, Height: 4320}},
	ResolutionAlias1MP:   {Alias: ResolutionAlias1MP, AspectRatio: AspectRatio54, Pixels: Pixels{Width: 1280, Height: 1024}},
	ResolutionAliasVGA:   {Alias: ResolutionAliasVGA, AspectRatio: AspectRatio43, Pixels: Pixels{Width: 640, Height: 480}},
	ResolutionAliasThumb: {Alias: ResolutionAliasThumb, AspectRatio: AspectRatio11, Pixels: Pixels{Width: 256, Height: 256}},
}

// ErrUnknownResolution is returned by LookupResolution for an unknown alias.
var ErrUnknownResolution = errors.New("unknown resolution preset")

// LookupResolution finds a preset by alias, case-insensitively.
//
// Arguments:
//   - alias: The preset name, e.g. "720p" or "4K".
//
// Returns:
//   - Resolution: The preset.
//   - error: ErrUnknownResolution if no preset matches.
func LookupResolution(alias string) (Resolution, error) {
	res, ok := Resolutions[ResolutionAlias(strings.ToLower(strings.TrimSpace(alias)))]
	if !ok {
		return Resolution{}, errors.Wrapf(ErrUnknownResolution, "%q", alias)
	}
	return res, nil
}

// ResolutionAliases returns every preset alias sorted by pixel count.
func ResolutionAliases() []ResolutionAlias {
	all := make([]ResolutionAlias, 0, len(Resolutions))
	for alias := range Resolutions {
		all = append(all, alias)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := Resolutions[all[i]].Pixels, Resolutions[all[j]].Pixels
		if a.Width*a.Height != b.Width*b.Height {
			return a.Width*a.Height < b.Width*b.Height
		}
		return all[i] < all[j]
	})
	return all
}

// FitWithin returns the largest dimensions with the source aspect ratio that fit
// inside maxWidth x maxHeight. Both results are at least 1.
//
// Arguments:
//   - srcWidth, srcHeight: Source dimensions, must be > 0.
//   - maxWidth, maxHeight: Bounding box, must be > 0.
//
// Returns:
//   - int, int: The fitted width and height.
//   - error: ErrInvalidDimensions if any argument is not positive.
//
// @example
//
//	w, h, _ := FitWithin(1920, 1080, 256, 256) // 256, 144
func FitWithin(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int, error) {
	if srcWidth <= 0 || srcHeight <= 0 || maxWidth <= 0 || maxHeight <= 0 {
		return 0, 0, errors.Wrapf(ErrInvalidDimensions, "fit %dx%d within %dx%d",
			srcWidth, srcHeight, maxWidth, maxHeight)
	}
	scale := math.Min(float64(maxWidth)/float64(srcWidth), float64(maxHeight)/float64(srcHeight))
	w := int(math.Round(float64(srcWidth) * scale))
	h := int(math.Round(float64(srcHeight) * scale))
	return max(1, min(w, maxWidth)), max(1, min(h, maxHeight)), nil
}

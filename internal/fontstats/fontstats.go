// Package fontstats infers a classification profile from a sample of text
// runs when the caller supplies no named profile. Detection is a pure
// function of the sample and never fails: with weak signal it produces a
// degraded profile (no code size, unreachable heading tiers) that the rest
// of the pipeline tolerates.
package fontstats

import (
	"math"
	"sort"

	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/bookstruct/bookstruct/internal/profile"
)

// DefaultSamplePages bounds how many leading pages are sampled. Sampling is
// frequency counting only, so this keeps detection sub-second even on
// documents with thousands of pages.
const DefaultSamplePages = 40

// unreachableSize is used when no heading tier could be established at all.
// No real document has text this large, so such a tier never matches.
const unreachableSize = 10000.0

// headingMargin is subtracted from each detected heading size so text at
// exactly that size still satisfies the >= threshold.
const headingMargin = 0.5

// Options tunes detection.
type Options struct {
	// SamplePages limits the sample to runs on pages [0, SamplePages).
	// Zero means DefaultSamplePages.
	SamplePages int
	// MonospaceFonts overrides the default monospace name list.
	MonospaceFonts []string
}

type bucketKey struct {
	size float64
	mono bool
}

// Detect builds a synthesized profile from a run sample.
func Detect(runs []book.TextRun, opts Options) *profile.Profile {
	samplePages := opts.SamplePages
	if samplePages <= 0 {
		samplePages = DefaultSamplePages
	}
	monoFonts := opts.MonospaceFonts
	if len(monoFonts) == 0 {
		monoFonts = profile.DefaultMonospaceFonts
	}
	monoCheck := profile.MustNew(profile.Spec{Name: "mono-check", MonospaceFonts: monoFonts})

	// Weight buckets by rune count so long body paragraphs dominate over
	// short decorative text.
	weights := make(map[bucketKey]int)
	boldWeights := make(map[float64]int)

	for _, r := range runs {
		if r.PageIndex >= samplePages {
			continue
		}
		w := len([]rune(r.Text))
		if w == 0 {
			continue
		}
		key := bucketKey{size: roundSize(r.Size), mono: monoCheck.IsMonospace(r.Font)}
		weights[key] += w
		if r.Bold && !key.mono {
			boldWeights[key.size] += w
		}
	}

	bodySize := pickBody(weights)
	codeSize, haveCode := pickCode(weights)
	if !haveCode {
		codeSize = bodySize - 1
	}
	h1, h2, h3 := pickHeadings(boldWeights, bodySize)

	return profile.MustNew(profile.Spec{
		Name:            "auto",
		Heading1MinSize: h1,
		Heading2MinSize: h2,
		Heading3MinSize: h3,
		BodySize:        bodySize,
		CodeSize:        codeSize,
		MonospaceFonts:  monoFonts,
	})
}

// pickBody returns the size of the heaviest non-monospace bucket, breaking
// weight ties toward the smallest size (the most typical paragraph text).
func pickBody(weights map[bucketKey]int) float64 {
	best := 0.0
	bestWeight := -1
	for key, w := range weights {
		if key.mono {
			continue
		}
		if w > bestWeight || (w == bestWeight && key.size < best) {
			best = key.size
			bestWeight = w
		}
	}
	if bestWeight < 0 {
		// All-monospace or empty sample: fall back to the heaviest bucket
		// of any kind, else a plain 10pt default.
		for key, w := range weights {
			if w > bestWeight || (w == bestWeight && key.size < best) {
				best = key.size
				bestWeight = w
			}
		}
		if bestWeight < 0 {
			return 10.0
		}
	}
	return best
}

// pickCode returns the size of the heaviest monospace bucket, if any.
func pickCode(weights map[bucketKey]int) (float64, bool) {
	best := 0.0
	bestWeight := -1
	for key, w := range weights {
		if !key.mono {
			continue
		}
		if w > bestWeight || (w == bestWeight && key.size < best) {
			best = key.size
			bestWeight = w
		}
	}
	return best, bestWeight >= 0
}

// pickHeadings maps the top three distinct bold sizes above body to
// H1/H2/H3 minimums, each offset down so text at exactly the detected size
// still clears the threshold. Missing lower tiers are not guessed: they
// saturate to the lowest detected threshold, where the earlier-matching
// rules consume every qualifying run, so a book with no subsection headings
// legitimately yields no H3 blocks. With no bold oversized text at all,
// every tier is unreachable and the document classifies as all body.
func pickHeadings(boldWeights map[float64]int, bodySize float64) (h1, h2, h3 float64) {
	var sizes []float64
	for size := range boldWeights {
		if size > bodySize {
			sizes = append(sizes, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	if len(sizes) == 0 {
		return unreachableSize, unreachableSize, unreachableSize
	}
	tiers := [3]float64{}
	for i := range tiers {
		if i < len(sizes) {
			tiers[i] = sizes[i] - headingMargin
		} else {
			tiers[i] = tiers[i-1]
		}
	}
	return tiers[0], tiers[1], tiers[2]
}

func roundSize(s float64) float64 {
	return math.Round(s*10) / 10
}

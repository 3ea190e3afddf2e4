package screen

import (
	"image"
	"math"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"

	"github.com/disintegration/imaging"
)

const (
	// minCoarseSide is the smallest needle side kept after downscaling
	minCoarseSide = 8
	// coarseCandidates are refined at full resolution
	coarseCandidates = 8
	flatEpsilon      = 1e-6
)

// Matcher finds a needle image inside a haystack with zero-mean normalised
// cross-correlation. Needles with a long enough side are first searched on a
// downscaled copy and the best candidates refined at full resolution.
type Matcher struct{}

// NewMatcher - creates a template matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match - returns the centre of the best window when its score reaches
// opts.Confidence
func (m *Matcher) Match(haystack, needle image.Image, opts entities.MatchOptions) (entities.Point, bool) {
	p, score, ok := m.Best(haystack, needle, opts.Grayscale)
	if !ok || score < opts.Confidence {
		return entities.Point{}, false
	}
	return p, true
}

// Best - returns the centre of the best-scoring window and its score in
// [-1, 1]. ok is false when the needle does not fit inside the haystack.
func (m *Matcher) Best(haystack, needle image.Image, grayscale bool) (entities.Point, float64, bool) {
	hb, nb := haystack.Bounds(), needle.Bounds()
	hw, hh, nw, nh := hb.Dx(), hb.Dy(), nb.Dx(), nb.Dy()
	if nw == 0 || nh == 0 || nw > hw || nh > hh {
		return entities.Point{}, 0, false
	}

	hay := newChannels(haystack, grayscale)
	tpl := newTemplate(newChannels(needle, grayscale))

	var best candidate
	if fx, fy := pyramidFactor(nw), pyramidFactor(nh); fx > 1 || fy > 1 {
		aligned := imaging.Crop(haystack, image.Rect(hb.Min.X, hb.Min.Y, hb.Min.X+hw/fx*fx, hb.Min.Y+hh/fy*fy))
		coarseHay := newChannels(imaging.Resize(aligned, hw/fx, hh/fy, imaging.Box), grayscale)
		head := imaging.Crop(needle, image.Rect(nb.Min.X, nb.Min.Y, nb.Min.X+nw/fx*fx, nb.Min.Y+nh/fy*fy))
		coarseTpl := newTemplate(newChannels(imaging.Resize(head, nw/fx, nh/fy, imaging.Box), grayscale))
		cands := coarseHay.search(coarseTpl, 0, 0, coarseHay.w-coarseTpl.w, coarseHay.h-coarseTpl.h, coarseCandidates)

		best = candidate{score: math.Inf(-1)}
		for _, c := range cands {
			x0, y0 := clamp(c.x*fx-fx, 0, hw-nw), clamp(c.y*fy-fy, 0, hh-nh)
			x1, y1 := clamp(c.x*fx+fx, 0, hw-nw), clamp(c.y*fy+fy, 0, hh-nh)
			if r := hay.search(tpl, x0, y0, x1, y1, 1); len(r) > 0 && r[0].score > best.score {
				best = r[0]
			}
		}
	} else {
		best = hay.search(tpl, 0, 0, hw-nw, hh-nh, 1)[0]
	}

	return entities.Point{X: best.x + nw/2, Y: best.y + nh/2}, best.score, true
}

// pyramidFactor picks the largest power-of-two downscale of one needle axis
// that keeps it at least minCoarseSide pixels. Axes are scaled independently
// so a thin strip still gets a coarse pass along its long side.
func pyramidFactor(side int) int {
	f := 1
	for side/(f*2) >= minCoarseSide && f < 8 {
		f *= 2
	}
	return f
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// channels holds an image as float planes, one per colour channel
type channels struct {
	w, h  int
	plane [][]float64
	sum   [][]float64
	sq    [][]float64
}

func newChannels(img image.Image, grayscale bool) *channels {
	var src *image.NRGBA
	n := 3
	if grayscale {
		src = imaging.Grayscale(img)
		n = 1
	} else {
		src = imaging.Clone(img)
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	c := &channels{w: w, h: h, plane: make([][]float64, n)}
	for k := range c.plane {
		c.plane[k] = make([]float64, w*h)
	}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			for k := 0; k < n; k++ {
				c.plane[k][y*w+x] = float64(row[x*4+k])
			}
		}
	}
	return c
}

// integrals builds summed-area tables of values and squared values
func (c *channels) integrals() {
	if c.sum != nil {
		return
	}
	stride := c.w + 1
	c.sum = make([][]float64, len(c.plane))
	c.sq = make([][]float64, len(c.plane))
	for k, p := range c.plane {
		sum := make([]float64, stride*(c.h+1))
		sq := make([]float64, stride*(c.h+1))
		for y := 0; y < c.h; y++ {
			var rowSum, rowSq float64
			for x := 0; x < c.w; x++ {
				v := p[y*c.w+x]
				rowSum += v
				rowSq += v * v
				sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + rowSum
				sq[(y+1)*stride+x+1] = sq[y*stride+x+1] + rowSq
			}
		}
		c.sum[k], c.sq[k] = sum, sq
	}
}

func (c *channels) window(k, x, y, w, h int) (sum, sq float64) {
	stride := c.w + 1
	a, b := y*stride+x, y*stride+x+w
	d, e := (y+h)*stride+x, (y+h)*stride+x+w
	return c.sum[k][e] - c.sum[k][b] - c.sum[k][d] + c.sum[k][a],
		c.sq[k][e] - c.sq[k][b] - c.sq[k][d] + c.sq[k][a]
}

// template is a needle with its per-channel mean removed
type template struct {
	w, h int
	dev  [][]float64
	mean []float64
	norm float64
}

func newTemplate(c *channels) *template {
	t := &template{w: c.w, h: c.h, dev: make([][]float64, len(c.plane)), mean: make([]float64, len(c.plane))}
	n := float64(c.w * c.h)
	for k, p := range c.plane {
		var s float64
		for _, v := range p {
			s += v
		}
		mean := s / n
		dev := make([]float64, len(p))
		for i, v := range p {
			dev[i] = v - mean
			t.norm += dev[i] * dev[i]
		}
		t.mean[k], t.dev[k] = mean, dev
	}
	return t
}

type candidate struct {
	x, y  int
	score float64
}

// search scores every window whose top-left corner lies in [x0,x1]x[y0,y1]
// and returns the k best, best first
func (c *channels) search(t *template, x0, y0, x1, y1, k int) []candidate {
	c.integrals()
	top := make([]candidate, 0, k)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s := c.score(t, x, y)
			if len(top) < k {
				top = append(top, candidate{x: x, y: y, score: s})
				continue
			}
			worst := 0
			for i := range top {
				if top[i].score < top[worst].score {
					worst = i
				}
			}
			if s > top[worst].score {
				top[worst] = candidate{x: x, y: y, score: s}
			}
		}
	}
	for i := 1; i < len(top); i++ {
		for j := i; j > 0 && top[j].score > top[j-1].score; j-- {
			top[j], top[j-1] = top[j-1], top[j]
		}
	}
	return top
}

func (c *channels) score(t *template, x, y int) float64 {
	n := float64(t.w * t.h)
	var num, variance float64
	sameMean := true
	for k := range c.plane {
		s, sq := c.window(k, x, y, t.w, t.h)
		if v := sq - s*s/n; v > 0 {
			variance += v
		}
		if math.Abs(s/n-t.mean[k]) > 1 {
			sameMean = false
		}

		plane, dev := c.plane[k], t.dev[k]
		for j := 0; j < t.h; j++ {
			row := plane[(y+j)*c.w+x : (y+j)*c.w+x+t.w]
			trow := dev[j*t.w : (j+1)*t.w]
			for i, v := range row {
				num += trow[i] * v
			}
		}
	}

	if t.norm < flatEpsilon {
		if variance < flatEpsilon*n && sameMean {
			return 1
		}
		return 0
	}
	if variance < flatEpsilon {
		return 0
	}
	return num / math.Sqrt(t.norm*variance)
}

var _ interfaces.ImageMatcher = (*Matcher)(nil)

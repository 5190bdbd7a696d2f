package geom

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minExtent pads degenerate envelopes (points, axis-parallel lines); the
// R-tree rejects zero-length rectangle sides.
const minExtent = 1e-9

// Index is an R-tree over shape envelopes.
type Index struct {
	rtree *rtreego.Rtree
	count int
}

// indexedShape wraps a shape for R-tree storage. The envelope is captured at
// insert time.
type indexedShape struct {
	id     int
	shape  *Shape
	bounds orb.Bound
}

// Bounds implements rtreego.Spatial.
func (s *indexedShape) Bounds() rtreego.Rect {
	return toRect(s.bounds)
}

func toRect(b orb.Bound) rtreego.Rect {
	w := b.Max.X() - b.Min.X()
	h := b.Max.Y() - b.Min.Y()
	if w < minExtent {
		w = minExtent
	}
	if h < minExtent {
		h = minExtent
	}
	rect, _ := rtreego.NewRect(rtreego.Point{b.Min.X(), b.Min.Y()}, []float64{w, h})
	return rect
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	// 2D, min=25 children, max=50 children
	return &Index{rtree: rtreego.NewTree(2, 25, 50)}
}

// Insert adds s under id. Empty shapes are not indexed and Insert reports
// false for them. Later changes to s are not seen by the index.
func (idx *Index) Insert(id int, s *Shape) bool {
	if s.IsEmpty() {
		return false
	}
	idx.rtree.Insert(&indexedShape{id: id, shape: s, bounds: s.Envelope()})
	idx.count++
	return true
}

// Len returns the number of indexed shapes.
func (idx *Index) Len() int { return idx.count }

// Hit is one search result.
type Hit struct {
	ID    int
	Shape *Shape
}

// Search returns the shapes whose envelopes intersect b, ordered by id.
func (idx *Index) Search(b orb.Bound) []Hit {
	spatials := idx.rtree.SearchIntersect(toRect(b))
	hits := make([]Hit, 0, len(spatials))
	for _, sp := range spatials {
		s := sp.(*indexedShape)
		if !s.bounds.Intersects(b) {
			continue
		}
		hits = append(hits, Hit{ID: s.id, Shape: s.shape})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	return hits
}

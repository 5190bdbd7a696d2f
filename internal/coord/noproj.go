package coord

import "github.com/pspoerri/mapproj/internal/config"

// NoProjection is the identity projection for data kept in geographic
// coordinates. It still carries an ellipsoid so it can report a unit.
type NoProjection struct {
	ellipsoid Ellipsoid
}

func NewNoProjection(ell Ellipsoid) *NoProjection {
	return &NoProjection{ellipsoid: ell}
}

func (p *NoProjection) Name() string          { return NameNoProjection }
func (p *NoProjection) UnitOfMeasure() string { return p.ellipsoid.Unit }
func (p *NoProjection) Ellipsoid() Ellipsoid  { return p.ellipsoid }

func (p *NoProjection) SetEllipsoid(e Ellipsoid) {
	p.ellipsoid = e
}

// Forward returns its input unchanged.
func (p *NoProjection) Forward(lon, lat float64) (x, y float64, err error) {
	return lon, lat, nil
}

// Backward returns its input unchanged.
func (p *NoProjection) Backward(x, y float64) (lon, lat float64, err error) {
	return x, y, nil
}

func (p *NoProjection) Node() *config.Node {
	n := config.NewNode(NameNoProjection)
	p.ellipsoid.writeNode(n)
	return n
}

func (p *NoProjection) Clone() Projection {
	c := *p
	return &c
}

// NoProjectionFromNode reads the ellipsoid attribute.
func NoProjectionFromNode(n *config.Node) (*NoProjection, error) {
	ell, err := ellipsoidFromNode(n)
	if err != nil {
		return nil, err
	}
	return NewNoProjection(ell), nil
}

package geofence

const (
	// FixedSiteMargin absorbs GPS drift around the single verification site.
	FixedSiteMargin = 1.1
	// FixedSiteRadius is the allowed radius of the verification site.
	FixedSiteRadius = 100.0
	// AssignedLocationMargin applies no tolerance to a location's own radius.
	AssignedLocationMargin = 1.0
)

// Policy is a named margin rule. The fixed verification site and the assigned
// locations each keep their own policy; they are configured independently.
type Policy struct {
	Name   string
	Margin float64
}

func FixedSitePolicy(margin float64) Policy {
	return Policy{Name: "fixed_site", Margin: margin}
}

func AssignedLocationPolicy(margin float64) Policy {
	return Policy{Name: "assigned_location", Margin: margin}
}

func (p Policy) Validate() error {
	if p.Margin < 1 {
		return ErrInvalidMargin
	}
	return nil
}

// Target is a geofence: a center and a radius in meters.
type Target struct {
	Center       GeoPoint
	RadiusMeters float64
}

func (t Target) Validate() error {
	if err := t.Center.Validate(); err != nil {
		return err
	}
	if t.RadiusMeters <= 0 {
		return ErrInvalidRadius
	}
	return nil
}

type Evaluation struct {
	DistanceMeters float64 `json:"distance_meters"`
	AllowedMeters  float64 `json:"allowed_meters"`
	WithinRange    bool    `json:"within_range"`
	Policy         string  `json:"policy"`
}

// Evaluate measures position against target under the policy.
func (p Policy) Evaluate(position GeoPoint, target Target) Evaluation {
	d := Distance(position, target.Center)
	return Evaluation{
		DistanceMeters: d,
		AllowedMeters:  target.RadiusMeters * p.Margin,
		WithinRange:    IsWithinRange(d, target.RadiusMeters, p.Margin),
		Policy:         p.Name,
	}
}

package attendance

import "fmt"

// DedupPolicy decides which same-day records for the same user and location
// block a new check-in.
type DedupPolicy string

const (
	// DedupLocationDay: any record of the day blocks.
	DedupLocationDay DedupPolicy = "location_day"
	// DedupType: one record per type, so any comida blocks another comida.
	DedupType DedupPolicy = "type"
	// DedupTypeSubtype: entrada, comida/inicio, comida/fin and salida are independent.
	DedupTypeSubtype DedupPolicy = "type_subtype"
)

func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch p := DedupPolicy(s); p {
	case DedupLocationDay, DedupType, DedupTypeSubtype:
		return p, nil
	case "":
		return DedupTypeSubtype, nil
	default:
		return "", fmt.Errorf("unknown attendance dedup policy %q", s)
	}
}

// Blocks reports whether existing (already scoped to the same user, location
// and day) prevents recording kind.
func (p DedupPolicy) Blocks(existing AttendanceRecord, kind Kind) bool {
	switch p {
	case DedupLocationDay:
		return true
	case DedupType:
		return existing.Type == kind.Type
	default:
		return existing.Type == kind.Type && existing.Subtype == kind.Subtype
	}
}

// FirstBlocking returns the first record in records that blocks kind.
func (p DedupPolicy) FirstBlocking(records []AttendanceRecord, kind Kind) (*AttendanceRecord, bool) {
	for i := range records {
		if p.Blocks(records[i], kind) {
			return &records[i], true
		}
	}
	return nil, false
}

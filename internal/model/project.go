package model

import (
	"strconv"
	"strings"
)

// ProjectInfo is a denormalized, typed view of the canonical field set used
// by forms and persistence. It is a projection: always derivable from the
// fields, never a second source of truth.
type ProjectInfo struct {
	ProjectName    string  `json:"project_name,omitempty"`
	SiteName       string  `json:"site_name,omitempty"`
	SiteAddress    string  `json:"site_address,omitempty"`
	SiteArea       float64 `json:"site_area,omitempty"`      // m2
	LandUse        string  `json:"land_use,omitempty"`       // zoning district
	CoverageRatio  float64 `json:"coverage_ratio,omitempty"` // %
	FloorAreaRatio float64 `json:"floor_area_ratio,omitempty"`

	BuildingUse    string  `json:"building_use,omitempty"`
	TotalFloorArea float64 `json:"total_floor_area,omitempty"` // m2
	NumberOfFloors string  `json:"number_of_floors,omitempty"`
	StructureType  string  `json:"structure_type,omitempty"`
	GroundInfo     string  `json:"ground_info,omitempty"`

	TankCapacity float64 `json:"tank_capacity,omitempty"` // kL
	TankContent  string  `json:"tank_content,omitempty"`
	TankDiameter float64 `json:"tank_diameter,omitempty"` // m
	TankHeight   float64 `json:"tank_height,omitempty"`   // m
}

// BuildProjectInfo projects the canonical field set onto the typed view.
// Only extracted/confirmed values with content are mapped; numeric fields
// are parsed with commas and unit suffixes stripped.
func BuildProjectInfo(fields FieldSet) ProjectInfo {
	var info ProjectInfo
	for key, f := range fields {
		if !f.HasValue() {
			continue
		}
		switch key {
		case "projectName":
			info.ProjectName = f.Value
		case "siteName":
			info.SiteName = f.Value
		case "siteAddress":
			info.SiteAddress = f.Value
		case "siteArea":
			info.SiteArea = parseMeasure(f.Value)
		case "landUse":
			info.LandUse = f.Value
		case "buildingCoverageRatio":
			info.CoverageRatio = parseMeasure(f.Value)
		case "floorAreaRatio":
			info.FloorAreaRatio = parseMeasure(f.Value)
		case "buildingUse":
			info.BuildingUse = f.Value
		case "totalFloorArea":
			info.TotalFloorArea = parseMeasure(f.Value)
		case "numberOfFloors":
			info.NumberOfFloors = f.Value
		case "structureType":
			info.StructureType = f.Value
		case "groundInfo":
			info.GroundInfo = f.Value
		case "tankCapacity":
			info.TankCapacity = parseMeasure(f.Value)
		case "tankContent":
			info.TankContent = f.Value
		case "tankDiameter":
			info.TankDiameter = parseMeasure(f.Value)
		case "tankHeight":
			info.TankHeight = parseMeasure(f.Value)
		}
	}
	return info
}

// measureUnits are suffixes stripped before numeric parsing.
var measureUnits = []string{"㎡", "m2", "平米", "kL", "キロリットル", "メートル", "m", "%", "％", "階"}

// parseMeasure extracts the leading numeric value from a normalized
// measurement string such as "5000㎡", "1,000kL" or "80%". Returns 0 when
// no number can be parsed.
func parseMeasure(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	for _, u := range measureUnits {
		s = strings.TrimSuffix(s, u)
	}
	s = strings.TrimSpace(s)
	// Keep the leading numeric run only.
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && c == '-') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

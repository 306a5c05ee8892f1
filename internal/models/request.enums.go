package models

type Variable string

const (
	VariableGeopotential Variable = "geopotential"
	VariableTemperature  Variable = "temperature"
)

func (v Variable) Valid() bool {
	switch v {
	case VariableGeopotential, VariableTemperature:
		return true
	}
	return false
}

type MapType string

const (
	MapTypeCont  MapType = "cont"
	MapTypeDisp  MapType = "disp"
	MapTypeComb  MapType = "comb"
	MapTypeForms MapType = "forms"
)

func (m MapType) Valid() bool {
	switch m {
	case MapTypeCont, MapTypeDisp, MapTypeComb, MapTypeForms:
		return true
	}
	return false
}

type MapRange string

const (
	MapRangeMax  MapRange = "max"
	MapRangeMin  MapRange = "min"
	MapRangeBoth MapRange = "both"
	MapRangeComb MapRange = "comb"
)

func (m MapRange) Valid() bool {
	switch m {
	case MapRangeMax, MapRangeMin, MapRangeBoth, MapRangeComb:
		return true
	}
	return false
}

type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatJPG  OutputFormat = "jpg"
	FormatJPEG OutputFormat = "jpeg"
	FormatPDF  OutputFormat = "pdf"
	FormatSVG  OutputFormat = "svg"
)

func (f OutputFormat) Valid() bool {
	switch f {
	case FormatPNG, FormatJPG, FormatJPEG, FormatPDF, FormatSVG:
		return true
	}
	return false
}

const DefaultFileFormat = FormatSVG

// SimplePressureLevels is the reduced catalog offered in the basic form view.
var SimplePressureLevels = []int{1000, 900, 800, 700, 600, 500, 400, 300, 200, 100}

// AdvancedPressureLevels is the full reanalysis catalog.
var AdvancedPressureLevels = []int{
	1, 2, 3, 5, 7, 10, 20, 30, 50, 70,
	100, 125, 150, 175, 200, 225, 250, 300, 350, 400,
	450, 500, 550, 600, 650, 700, 750, 775, 800, 825,
	850, 875, 900, 925, 950, 975, 1000,
}

// IsSubsetOf reports whether every value in arr appears in set.
func IsSubsetOf(arr []int, set []int) bool {
	members := make(map[int]struct{}, len(set))
	for _, v := range set {
		members[v] = struct{}{}
	}
	for _, v := range arr {
		if _, ok := members[v]; !ok {
			return false
		}
	}
	return true
}

// FullAreaCovered is the whole-globe extent: north, west, south, east.
func FullAreaCovered() []float64 {
	return []float64{90, -180, -90, 180}
}

func DefaultMapLevels() []int {
	return []int{20}
}

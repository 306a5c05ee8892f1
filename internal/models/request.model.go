package models

import (
	"errors"
	"strconv"

	"geoportal/internal/utils"
)

// Request is a persisted unit of work describing a geospatial
// data-processing job's parameters.
type Request struct {
	BaseModel
	VariableName   Variable     `gorm:"type:varchar(32);not null" json:"variableName"`
	PressureLevels IntList      `gorm:"type:text;not null"        json:"pressureLevels"`
	Years          IntList      `gorm:"type:text;not null"        json:"years"`
	Months         IntList      `gorm:"type:text;not null"        json:"months"`
	Days           IntList      `gorm:"type:text;not null"        json:"days"`
	Hours          IntList      `gorm:"type:text;not null"        json:"hours"`
	AreaCovered    FloatList    `gorm:"type:text;not null"        json:"areaCovered"`
	MapTypes       MapTypeList  `gorm:"type:text;not null"        json:"mapTypes"`
	MapRanges      MapRangeList `gorm:"type:text;not null"        json:"mapRanges"`
	MapLevels      IntList      `gorm:"type:text"                 json:"mapLevels"`
	FileFormat     OutputFormat `gorm:"type:varchar(8)"           json:"fileFormat"`
	OutDir         *string      `gorm:"type:text"                 json:"outDir,omitempty"`
	Tracking       bool         `gorm:"default:false"             json:"tracking"`
	Debug          bool         `gorm:"default:false"             json:"debug"`
	NoCompile      bool         `gorm:"default:false"             json:"noCompile"`
	NoExecute      bool         `gorm:"default:false"             json:"noExecute"`
	NoMaps         bool         `gorm:"default:false"             json:"noMaps"`
	Animation      bool         `gorm:"default:false"             json:"animation"`
	Omp            bool         `gorm:"default:false"             json:"omp"`
	Mpi            bool         `gorm:"default:false"             json:"mpi"`
	NThreads       *int         `gorm:"type:int"                  json:"nThreads,omitempty"`
	NProces        *int         `gorm:"type:int"                  json:"nProces,omitempty"`
	OwnerID        *int         `gorm:"index"                     json:"ownerId,omitempty"`
}

// RequestWithCount is the history-view projection: one representative per
// duplicate group plus the group size.
type RequestWithCount struct {
	Request
	Count int `json:"count"`
}

// InsertRequest is the submission payload before identity fields are
// assigned. Its field types coerce both the structured and the all-string
// form representation, see fields.go.
type InsertRequest struct {
	VariableName   Variable     `json:"variableName"`
	PressureLevels IntList      `json:"pressureLevels"`
	Years          IntList      `json:"years"`
	Months         IntList      `json:"months"`
	Days           IntList      `json:"days"`
	Hours          IntList      `json:"hours"`
	AreaCovered    FloatList    `json:"areaCovered"`
	MapTypes       MapTypeList  `json:"mapTypes"`
	MapRanges      MapRangeList `json:"mapRanges"`
	MapLevels      IntList      `json:"mapLevels"`
	FileFormat     OutputFormat `json:"fileFormat"`
	OutDir         string       `json:"outDir"`
	Tracking       Flag         `json:"tracking"`
	Debug          Flag         `json:"debug"`
	NoCompile      Flag         `json:"noCompile"`
	NoExecute      Flag         `json:"noExecute"`
	NoMaps         Flag         `json:"noMaps"`
	Animation      Flag         `json:"animation"`
	Omp            Flag         `json:"omp"`
	Mpi            Flag         `json:"mpi"`
	NThreads       OptionalInt  `json:"nThreads"`
	NProces        OptionalInt  `json:"nProces"`

	// Earlier form revisions carried an instants selector guarded by an
	// "use all" toggle. Both are optional and validated only when present.
	UseAllInstants *Flag   `json:"useAllInstants,omitempty"`
	Instants       IntList `json:"instants,omitempty"`
}

// ToRequest converts a validated payload into the persistable entity.
// Identity fields and ownership are left for the store to assign.
func (ir InsertRequest) ToRequest() Request {
	var outDir *string
	if ir.OutDir != "" {
		v := ir.OutDir
		outDir = &v
	}

	return Request{
		VariableName:   ir.VariableName,
		PressureLevels: ir.PressureLevels,
		Years:          ir.Years,
		Months:         ir.Months,
		Days:           ir.Days,
		Hours:          ir.Hours,
		AreaCovered:    ir.AreaCovered,
		MapTypes:       ir.MapTypes,
		MapRanges:      ir.MapRanges,
		MapLevels:      ir.MapLevels,
		FileFormat:     ir.FileFormat,
		OutDir:         outDir,
		Tracking:       bool(ir.Tracking),
		Debug:          bool(ir.Debug),
		NoCompile:      bool(ir.NoCompile),
		NoExecute:      bool(ir.NoExecute),
		NoMaps:         bool(ir.NoMaps),
		Animation:      bool(ir.Animation),
		Omp:            bool(ir.Omp),
		Mpi:            bool(ir.Mpi),
		NThreads:       ir.NThreads.Ptr(),
		NProces:        ir.NProces.Ptr(),
	}
}

// RequestFormInput is the all-string projection used by form controls.
// Arrays are comma-separated, booleans are the literals "true"/"false",
// absent optionals are empty strings. Never persisted.
type RequestFormInput struct {
	VariableName   string `json:"variableName"`
	PressureLevels string `json:"pressureLevels"`
	Years          string `json:"years"`
	Months         string `json:"months"`
	Days           string `json:"days"`
	Hours          string `json:"hours"`
	AreaCovered    string `json:"areaCovered"`
	MapTypes       string `json:"mapTypes"`
	MapRanges      string `json:"mapRanges"`
	MapLevels      string `json:"mapLevels,omitempty"`
	FileFormat     string `json:"fileFormat,omitempty"`
	OutDir         string `json:"outDir,omitempty"`
	Tracking       string `json:"tracking,omitempty"`
	Debug          string `json:"debug,omitempty"`
	NoCompile      string `json:"noCompile,omitempty"`
	NoExecute      string `json:"noExecute,omitempty"`
	NoMaps         string `json:"noMaps,omitempty"`
	Animation      string `json:"animation,omitempty"`
	Omp            string `json:"omp,omitempty"`
	Mpi            string `json:"mpi,omitempty"`
	NThreads       string `json:"nThreads,omitempty"`
	NProces        string `json:"nProces,omitempty"`
}

var (
	ErrAreaLength        = errors.New("areaCovered must decode to exactly 4 numbers")
	ErrInvalidFileFormat = errors.New("fileFormat is missing or not a supported output format")
)

// FormInputToRequest parses every string field into its structured form.
// Enum-valued strings pass through unchecked so validation can report them
// field by field; only the two conditions that make the result unusable as a
// Request are errors here.
func FormInputToRequest(form RequestFormInput) (Request, error) {
	area := utils.StringToFloatArray(form.AreaCovered)
	if len(area) != 4 {
		return Request{}, ErrAreaLength
	}

	fileFormat := OutputFormat(form.FileFormat)
	if !fileFormat.Valid() {
		return Request{}, ErrInvalidFileFormat
	}

	request := Request{
		VariableName:   Variable(form.VariableName),
		PressureLevels: utils.StringToNumberArray(form.PressureLevels),
		Years:          utils.StringToNumberArray(form.Years),
		Months:         utils.StringToNumberArray(form.Months),
		Days:           utils.StringToNumberArray(form.Days),
		Hours:          utils.StringToNumberArray(form.Hours),
		AreaCovered:    area,
		MapTypes:       toMapTypes(form.MapTypes),
		MapRanges:      toMapRanges(form.MapRanges),
		FileFormat:     fileFormat,
		Tracking:       form.Tracking == "true",
		Debug:          form.Debug == "true",
		NoCompile:      form.NoCompile == "true",
		NoExecute:      form.NoExecute == "true",
		NoMaps:         form.NoMaps == "true",
		Animation:      form.Animation == "true",
		Omp:            form.Omp == "true",
		Mpi:            form.Mpi == "true",
	}

	if form.MapLevels != "" {
		request.MapLevels = utils.StringToNumberArray(form.MapLevels)
	}
	if form.OutDir != "" {
		outDir := form.OutDir
		request.OutDir = &outDir
	}
	if n, err := strconv.Atoi(form.NThreads); err == nil {
		request.NThreads = &n
	}
	if n, err := strconv.Atoi(form.NProces); err == nil {
		request.NProces = &n
	}

	return request, nil
}

// RequestToFormInput is the exact inverse serialization of
// FormInputToRequest.
func RequestToFormInput(request Request) RequestFormInput {
	form := RequestFormInput{
		VariableName:   string(request.VariableName),
		PressureLevels: utils.NumberArrayToString(request.PressureLevels),
		Years:          utils.NumberArrayToString(request.Years),
		Months:         utils.NumberArrayToString(request.Months),
		Days:           utils.NumberArrayToString(request.Days),
		Hours:          utils.NumberArrayToString(request.Hours),
		AreaCovered:    utils.FloatArrayToString(request.AreaCovered),
		MapTypes:       utils.StringArrayToString(mapTypesToStrings(request.MapTypes)),
		MapRanges:      utils.StringArrayToString(mapRangesToStrings(request.MapRanges)),
		MapLevels:      utils.NumberArrayToString(request.MapLevels),
		FileFormat:     string(request.FileFormat),
		Tracking:       strconv.FormatBool(request.Tracking),
		Debug:          strconv.FormatBool(request.Debug),
		NoCompile:      strconv.FormatBool(request.NoCompile),
		NoExecute:      strconv.FormatBool(request.NoExecute),
		NoMaps:         strconv.FormatBool(request.NoMaps),
		Animation:      strconv.FormatBool(request.Animation),
		Omp:            strconv.FormatBool(request.Omp),
		Mpi:            strconv.FormatBool(request.Mpi),
	}

	if request.OutDir != nil {
		form.OutDir = *request.OutDir
	}
	if request.NThreads != nil {
		form.NThreads = strconv.Itoa(*request.NThreads)
	}
	if request.NProces != nil {
		form.NProces = strconv.Itoa(*request.NProces)
	}

	return form
}

func toMapTypes(value string) MapTypeList {
	parts := utils.StringToStringArray(value)
	list := make(MapTypeList, len(parts))
	for i, p := range parts {
		list[i] = MapType(p)
	}
	return list
}

func toMapRanges(value string) MapRangeList {
	parts := utils.StringToStringArray(value)
	list := make(MapRangeList, len(parts))
	for i, p := range parts {
		list[i] = MapRange(p)
	}
	return list
}

func mapTypesToStrings(list MapTypeList) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = string(v)
	}
	return out
}

func mapRangesToStrings(list MapRangeList) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = string(v)
	}
	return out
}

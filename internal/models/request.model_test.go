package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func validRequest() Request {
	return Request{
		VariableName:   VariableTemperature,
		PressureLevels: IntList{1000, 850},
		Years:          IntList{2020, 2021},
		Months:         IntList{1, 2},
		Days:           IntList{1, 15},
		Hours:          IntList{0, 6, 12, 18},
		AreaCovered:    FloatList{90, -180, -90, 180},
		MapTypes:       MapTypeList{MapTypeCont, MapTypeDisp},
		MapRanges:      MapRangeList{MapRangeMax},
		MapLevels:      IntList{20},
		FileFormat:     FormatSVG,
		OutDir:         strPtr("/tmp/out"),
		Tracking:       true,
		Debug:          false,
		Animation:      true,
		NThreads:       intPtr(4),
	}
}

func TestFormInputRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		request Request
	}{
		{
			name:    "fully populated request",
			request: validRequest(),
		},
		{
			name: "minimal request without optionals",
			request: Request{
				VariableName:   VariableGeopotential,
				PressureLevels: IntList{500},
				Years:          IntList{2022},
				Months:         IntList{6},
				Days:           IntList{21},
				Hours:          IntList{12},
				AreaCovered:    FloatList{60.5, -10.25, 30, 40},
				MapTypes:       MapTypeList{MapTypeForms},
				MapRanges:      MapRangeList{MapRangeComb, MapRangeBoth},
				FileFormat:     FormatPDF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := RequestToFormInput(tt.request)
			back, err := FormInputToRequest(form)
			require.NoError(t, err)
			assert.Equal(t, tt.request, back)
		})
	}
}

func TestFormInputToRequest_AreaErrors(t *testing.T) {
	form := RequestToFormInput(validRequest())

	form.AreaCovered = "1,2,3"
	_, err := FormInputToRequest(form)
	assert.ErrorIs(t, err, ErrAreaLength)

	form.AreaCovered = ""
	_, err = FormInputToRequest(form)
	assert.ErrorIs(t, err, ErrAreaLength)

	// Unparsable tokens are dropped before the length check.
	form.AreaCovered = "90,-180,-90,east"
	_, err = FormInputToRequest(form)
	assert.ErrorIs(t, err, ErrAreaLength)
}

func TestFormInputToRequest_FileFormatErrors(t *testing.T) {
	form := RequestToFormInput(validRequest())

	form.FileFormat = ""
	_, err := FormInputToRequest(form)
	assert.ErrorIs(t, err, ErrInvalidFileFormat)

	form.FileFormat = "bmp"
	_, err = FormInputToRequest(form)
	assert.ErrorIs(t, err, ErrInvalidFileFormat)
}

func TestFormInputToRequest_InvalidEnumsPassThrough(t *testing.T) {
	// The mapper does not police enum membership; validation does.
	form := RequestToFormInput(validRequest())
	form.VariableName = "humidity"
	form.MapTypes = "cont,bogus"

	request, err := FormInputToRequest(form)
	require.NoError(t, err)
	assert.Equal(t, Variable("humidity"), request.VariableName)
	assert.Contains(t, request.MapTypes, MapType("bogus"))
}

func TestFormInputToRequest_BooleansAndOptionals(t *testing.T) {
	form := RequestToFormInput(validRequest())
	form.Tracking = "true"
	form.Debug = "false"
	form.Omp = "yes" // anything but "true" is false
	form.NThreads = ""
	form.NProces = "8"
	form.OutDir = ""

	request, err := FormInputToRequest(form)
	require.NoError(t, err)
	assert.True(t, request.Tracking)
	assert.False(t, request.Debug)
	assert.False(t, request.Omp)
	assert.Nil(t, request.NThreads)
	assert.Equal(t, 8, *request.NProces)
	assert.Nil(t, request.OutDir)
}

func TestInsertRequest_UnmarshalStructured(t *testing.T) {
	payload := `{
		"variableName": "temperature",
		"pressureLevels": [1000, 850],
		"years": [2020],
		"months": [1],
		"days": [1],
		"hours": [0],
		"areaCovered": [90, -180, -90, 180],
		"mapTypes": ["cont"],
		"mapRanges": ["max"],
		"fileFormat": "svg",
		"debug": true,
		"nThreads": 4
	}`

	var insert InsertRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &insert))

	assert.Equal(t, VariableTemperature, insert.VariableName)
	assert.Equal(t, IntList{1000, 850}, insert.PressureLevels)
	assert.Equal(t, MapTypeList{MapTypeCont}, insert.MapTypes)
	assert.True(t, bool(insert.Debug))
	assert.Equal(t, 4, *insert.NThreads.Ptr())
}

func TestInsertRequest_UnmarshalFormStrings(t *testing.T) {
	payload := `{
		"variableName": "temperature",
		"pressureLevels": "1000,850",
		"years": "2020",
		"months": "1",
		"days": "1",
		"hours": "0",
		"areaCovered": "90,-180,-90,180",
		"mapTypes": "cont,disp",
		"mapRanges": "max",
		"fileFormat": "svg",
		"debug": "true",
		"tracking": "false",
		"nThreads": "",
		"nProces": "16"
	}`

	var insert InsertRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &insert))

	assert.Equal(t, IntList{1000, 850}, insert.PressureLevels)
	assert.Equal(t, FloatList{90, -180, -90, 180}, insert.AreaCovered)
	assert.Equal(t, MapTypeList{MapTypeCont, MapTypeDisp}, insert.MapTypes)
	assert.True(t, bool(insert.Debug))
	assert.False(t, bool(insert.Tracking))
	assert.False(t, insert.NThreads.IsSet())
	assert.False(t, insert.NThreads.Invalid())
	assert.Equal(t, 16, *insert.NProces.Ptr())
}

func TestOptionalInt_InvalidString(t *testing.T) {
	var insert InsertRequest
	require.NoError(t, json.Unmarshal([]byte(`{"nThreads": "many"}`), &insert))
	assert.True(t, insert.NThreads.Invalid())
	assert.False(t, insert.NThreads.IsSet())
}

func TestInsertRequest_ToRequest(t *testing.T) {
	insert := InsertRequest{
		VariableName:   VariableGeopotential,
		PressureLevels: IntList{500},
		Years:          IntList{2022},
		Months:         IntList{6},
		Days:           IntList{21},
		Hours:          IntList{12},
		AreaCovered:    FloatList{90, -180, -90, 180},
		MapTypes:       MapTypeList{MapTypeCont},
		MapRanges:      MapRangeList{MapRangeMax},
		MapLevels:      IntList{20},
		FileFormat:     FormatSVG,
		OutDir:         "/data/maps",
		Mpi:            Flag(true),
		NProces:        NewOptionalInt(2),
	}

	request := insert.ToRequest()
	assert.Equal(t, VariableGeopotential, request.VariableName)
	assert.Equal(t, "/data/maps", *request.OutDir)
	assert.True(t, request.Mpi)
	assert.Equal(t, 2, *request.NProces)
	assert.Nil(t, request.NThreads)
	assert.Zero(t, request.ID)
	assert.Nil(t, request.OwnerID)
}

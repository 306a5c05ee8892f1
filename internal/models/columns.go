package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// List-valued request columns are stored as JSON text. sqlite has no native
// array type and the lists are only ever read back whole.

func listValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func listScan(dest any, value any) error {
	if value == nil {
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

type IntList []int

func (l IntList) Value() (driver.Value, error) { return listValue([]int(l)) }
func (l *IntList) Scan(value any) error        { return listScan((*[]int)(l), value) }

type FloatList []float64

func (l FloatList) Value() (driver.Value, error) { return listValue([]float64(l)) }
func (l *FloatList) Scan(value any) error        { return listScan((*[]float64)(l), value) }

type MapTypeList []MapType

func (l MapTypeList) Value() (driver.Value, error) { return listValue([]MapType(l)) }
func (l *MapTypeList) Scan(value any) error        { return listScan((*[]MapType)(l), value) }

type MapRangeList []MapRange

func (l MapRangeList) Value() (driver.Value, error) { return listValue([]MapRange(l)) }
func (l *MapRangeList) Scan(value any) error        { return listScan((*[]MapRange)(l), value) }

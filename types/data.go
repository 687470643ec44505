package types

import (
	"encoding/json"

	"github.com/juju/errors"
	"github.com/spf13/cast"

	"github.com/estateflow/orchestrator/utils"
)

/**
 * Data is the loosely-typed payload shape shared by slots, payload
 * templates, task results and job payloads. Values survive a JSON
 * round trip, so nested objects show up as map[string]any.
 */
type Data map[string]any

func (d Data) Get(key string) (any, bool) {
	v, exists := d[key]
	return v, exists
}

func (d Data) GetString(key string) (string, bool) {
	v, exists := d.Get(key)
	return cast.ToString(v), exists
}

func (d Data) GetInt(key string) (int, bool) {
	v, exists := d.Get(key)
	return cast.ToInt(v), exists
}

func (d Data) GetBool(key string) (bool, bool) {
	v, exists := d.Get(key)
	return cast.ToBool(v), exists
}

func (d Data) GetFloat64(key string) (float64, bool) {
	v, exists := d.Get(key)
	return cast.ToFloat64(v), exists
}

func (d Data) GetStringSlice(key string) ([]string, bool) {
	v, exists := d.Get(key)
	if !exists {
		return nil, false
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, false
	}
	return s, true
}

// GetData returns a nested object value as Data when it has a map shape.
func (d Data) GetData(key string) (Data, bool) {
	v, exists := d.Get(key)
	if !exists {
		return nil, false
	}
	switch m := v.(type) {
	case Data:
		return m, true
	case map[string]any:
		return Data(m), true
	}
	return nil, false
}

func (d Data) GetStruct(key string, s any) error {
	v, exists := d.Get(key)
	if !exists {
		return errors.NotFound
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Trace(err)
	}
	return json.Unmarshal(b, s)
}

func (d Data) Set(key string, value any) {
	d[key] = value
}

func (d Data) Clone() Data {
	return Data(utils.CloneMap(d))
}

// DataFrom converts any JSON-marshalable value into Data.
func DataFrom(o any) (Data, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return nil, errors.Trace(err)
	}
	d := Data{}
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, errors.Trace(err)
	}
	return d, nil
}

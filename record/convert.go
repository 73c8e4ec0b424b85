package record

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/solidgrid/gridcache/wire"
)

var (
	uuidType      = reflect.TypeOf(uuid.UUID{})
	byteSliceType = reflect.TypeOf([]byte(nil))
)

// fieldConverter returns the (toValue, setField) pair for a struct field's
// Go type. Pointer types encode a nil pointer as Null and a non-nil pointer
// as the pointee's Value, giving struct authors an opt-in nullable field
// without widening the supported type set per field.
func fieldConverter(t reflect.Type) (func(reflect.Value) (wire.Value, error), func(reflect.Value, wire.Value) error, error) {
	if t.Kind() == reflect.Ptr {
		elemTo, elemSet, err := fieldConverter(t.Elem())
		if err != nil {
			return nil, nil, err
		}
		toValue := func(fv reflect.Value) (wire.Value, error) {
			if fv.IsNil() {
				return nil, nil
			}
			return elemTo(fv.Elem())
		}
		setField := func(dst reflect.Value, v wire.Value) error {
			if v == nil {
				dst.Set(reflect.Zero(t))
				return nil
			}
			elem := reflect.New(t.Elem()).Elem()
			if err := elemSet(elem, v); err != nil {
				return err
			}
			dst.Set(elem.Addr())
			return nil
		}
		return toValue, setField, nil
	}

	switch {
	case t.Kind() == reflect.String:
		return func(fv reflect.Value) (wire.Value, error) { return wire.Str(fv.String()), nil },
			func(dst reflect.Value, v wire.Value) error {
				s, ok := v.(wire.Str)
				if !ok {
					return fmt.Errorf("expected string, got type code %d", wireCode(v))
				}
				dst.SetString(string(s))
				return nil
			}, nil

	case t.Kind() == reflect.Int32:
		return func(fv reflect.Value) (wire.Value, error) { return wire.I32(int32(fv.Int())), nil },
			func(dst reflect.Value, v wire.Value) error {
				i, ok := v.(wire.I32)
				if !ok {
					return fmt.Errorf("expected i32, got type code %d", wireCode(v))
				}
				dst.SetInt(int64(i))
				return nil
			}, nil

	case t.Kind() == reflect.Int64 || t.Kind() == reflect.Int:
		return func(fv reflect.Value) (wire.Value, error) { return wire.I64(fv.Int()), nil },
			func(dst reflect.Value, v wire.Value) error {
				i, ok := v.(wire.I64)
				if !ok {
					return fmt.Errorf("expected i64, got type code %d", wireCode(v))
				}
				dst.SetInt(int64(i))
				return nil
			}, nil

	case t.Kind() == reflect.Float32:
		return func(fv reflect.Value) (wire.Value, error) { return wire.F32(float32(fv.Float())), nil },
			func(dst reflect.Value, v wire.Value) error {
				f, ok := v.(wire.F32)
				if !ok {
					return fmt.Errorf("expected f32, got type code %d", wireCode(v))
				}
				dst.SetFloat(float64(f))
				return nil
			}, nil

	case t.Kind() == reflect.Float64:
		return func(fv reflect.Value) (wire.Value, error) { return wire.F64(fv.Float()), nil },
			func(dst reflect.Value, v wire.Value) error {
				f, ok := v.(wire.F64)
				if !ok {
					return fmt.Errorf("expected f64, got type code %d", wireCode(v))
				}
				dst.SetFloat(float64(f))
				return nil
			}, nil

	case t.Kind() == reflect.Bool:
		return func(fv reflect.Value) (wire.Value, error) { return wire.Bool(fv.Bool()), nil },
			func(dst reflect.Value, v wire.Value) error {
				b, ok := v.(wire.Bool)
				if !ok {
					return fmt.Errorf("expected bool, got type code %d", wireCode(v))
				}
				dst.SetBool(bool(b))
				return nil
			}, nil

	case t == uuidType:
		return func(fv reflect.Value) (wire.Value, error) {
				return wire.NewUUID(fv.Interface().(uuid.UUID)), nil
			},
			func(dst reflect.Value, v wire.Value) error {
				u, ok := v.(wire.UUID)
				if !ok {
					return fmt.Errorf("expected uuid, got type code %d", wireCode(v))
				}
				dst.Set(reflect.ValueOf(uuid.UUID(u)))
				return nil
			}, nil

	case t == byteSliceType:
		return func(fv reflect.Value) (wire.Value, error) {
				b := fv.Interface().([]byte)
				arr := make(wire.ArrByte, len(b))
				for i, x := range b {
					arr[i] = int8(x)
				}
				return arr, nil
			},
			func(dst reflect.Value, v wire.Value) error {
				arr, ok := v.(wire.ArrByte)
				if !ok {
					return fmt.Errorf("expected byte array, got type code %d", wireCode(v))
				}
				out := make([]byte, len(arr))
				for i, b := range arr {
					out[i] = byte(b)
				}
				dst.SetBytes(out)
				return nil
			}, nil
	}

	return nil, nil, fmt.Errorf("unsupported field type %s", t)
}

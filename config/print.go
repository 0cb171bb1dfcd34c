package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// printConfig logs the effective configuration with every field tagged
// `mask:"true"` replaced by asterisks.
func printConfig(cfg *Config) {
	masked := maskValue(reflect.ValueOf(cfg).Elem()).Interface()

	out, err := yaml.Marshal(masked)
	if err != nil {
		slog.Error("failed to marshal config", "error", err.Error())
		return
	}
	slog.Info(fmt.Sprintf("loaded config:\n%s", string(out)))
}

func maskValue(val reflect.Value) reflect.Value {
	if !val.IsValid() {
		return val
	}

	switch val.Kind() { //nolint:exhaustive // only kinds relevant to masking
	case reflect.Ptr:
		if val.IsNil() {
			return val
		}
		ptr := reflect.New(val.Elem().Type())
		ptr.Elem().Set(maskValue(val.Elem()))
		return ptr

	case reflect.Struct:
		masked := reflect.New(val.Type()).Elem()
		for i := range val.NumField() {
			field := val.Type().Field(i)
			origVal := val.Field(i)

			if !masked.Field(i).CanSet() || !origVal.CanInterface() {
				continue
			}

			if field.Tag.Get("mask") == "true" {
				masked.Field(i).Set(maskAny(origVal))
			} else {
				masked.Field(i).Set(maskValue(origVal))
			}
		}
		return masked

	case reflect.Interface:
		if val.IsNil() {
			return val
		}
		return maskValue(val.Elem())

	default:
		return val
	}
}

func maskAny(val reflect.Value) reflect.Value {
	if !val.IsValid() {
		return val
	}

	switch val.Kind() { //nolint:exhaustive // only kinds relevant to masking
	case reflect.String:
		return reflect.ValueOf(strings.Repeat("*", val.Len()))

	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Interface, reflect.Ptr:
		return maskValue(val)

	default:
		return reflect.Zero(val.Type())
	}
}

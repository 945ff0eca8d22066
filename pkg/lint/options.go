package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes a rule's options map into a typed options struct.
// Fields are matched by `mapstructure` tags. Input is decoded weakly, so
// values arriving from YAML or JSON ("3", 3, 3.0) all satisfy an int field.
// A nil map leaves the struct untouched, so callers can pre-fill defaults.
func DecodeOptions(opts map[string]any, result any) error {
	if opts == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build options decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("decode rule options: %w", err)
	}
	return nil
}

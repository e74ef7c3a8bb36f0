// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"github.com/go-viper/mapstructure/v2"
)

// DecodeConfig decodes cfg into out, a pointer to the provider's typed
// configuration struct (fields tagged with `mapstructure`). Unknown fields
// and type mismatches are reported as a ConfigError for key.
func DecodeConfig(key Key, cfg Config, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return &ConfigError{Key: key, Cause: err}
	}
	if err := dec.Decode(map[string]any(cfg)); err != nil {
		return &ConfigError{Key: key, Cause: err}
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

const fileHeader = "# capsula configuration\n# Context providers run in declaration order; see 'capsula capture --help'.\n\n"

// GenerateTOML renders cfg as the content of a capsula.toml file.
func GenerateTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}

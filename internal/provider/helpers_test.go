// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
)

type (
	stubCaptured struct {
		Type  Key    `json:"type"`
		Label string `json:"label"`
	}

	stubTyped struct {
		key   Key
		label string
		err   error
		calls *int
	}

	stubConfig struct {
		Label string `mapstructure:"label"`
		Fail  bool   `mapstructure:"fail"`
	}
)

var errStubFailed = errors.New("stub failed")

func (c stubCaptured) CaptureType() Key { return c.Type }

func (s stubTyped) Run(_ context.Context, _ RuntimeParams) (stubCaptured, error) {
	if s.calls != nil {
		*s.calls++
	}
	if s.err != nil {
		return stubCaptured{}, s.err
	}
	return stubCaptured{Type: s.key, Label: s.label}, nil
}

// stubFactory builds providers that capture their configured label, or fail
// at run time when "fail" is set.
func stubFactory(key Key) Factory {
	return FactoryFunc(key, func(cfg Config, _ string) (Provider, error) {
		var sc stubConfig
		if err := DecodeConfig(key, cfg, &sc); err != nil {
			return nil, err
		}
		typed := stubTyped{key: key, label: sc.Label}
		if sc.Fail {
			typed.err = errStubFailed
		}
		return Erase(key, typed), nil
	})
}

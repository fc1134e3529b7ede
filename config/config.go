// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config implements the analysis configuration surface (spec
// §6.2): the context policy, truncation bounds, field sensitivity,
// container-kind map, optional timeout/iteration cap, and verbosity.
package config

import (
	"fmt"
	"os"

	"github.com/lkgv/kcfa2/builtin"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/kerrors"
	"gopkg.in/yaml.v3"
)

// FieldSensitivity names whether attribute loads/stores distinguish
// names or collapse to a single field. Validate checks the value; the
// engine does not read it and always keys attributes by name.
type FieldSensitivity string

const (
	FieldSensitiveByName FieldSensitivity = "attr-name"
	FieldInsensitive     FieldSensitivity = "field-insensitive"
)

// Config is the full configuration surface of spec §6.2.
type Config struct {
	ContextPolicy    domain.Policy    `yaml:"context_policy"`
	ObjDepth         int              `yaml:"obj_depth"`
	FieldSensitivity FieldSensitivity `yaml:"field_sensitivity"`
	ContainerKindMap map[string]string `yaml:"container_kind_map"`

	TimeoutSeconds  float64 `yaml:"timeout_seconds"`
	MaxIterations   int     `yaml:"max_iterations"`
	MaxHeapWidening int     `yaml:"max_heap_widening"`

	Verbose bool `yaml:"verbose"`

	ClassHierarchy bool `yaml:"class_hierarchy"`
	MROAttrResolve bool `yaml:"mro_attr_resolve"`

	// ExtraBuiltins lets callers install additional/overriding builtin
	// summaries (spec §9 "Global state" resolution) — code-only, never
	// loaded from YAML.
	ExtraBuiltins map[string]builtin.Summary `yaml:"-"`
}

// Default returns the default configuration: 2-object sensitivity,
// per-name field sensitivity, the standard container map, no
// timeout/iteration cap override.
func Default() *Config {
	return &Config{
		ContextPolicy:    domain.Policy2Obj,
		ObjDepth:         2,
		FieldSensitivity: FieldSensitiveByName,
		ContainerKindMap: map[string]string{
			"list": "elem", "set": "elem", "tuple": "elem", "dict": "value",
		},
		MaxIterations: 10000,
	}
}

// Validate checks the configuration is internally consistent, failing
// fast per spec §7's "Configuration error" row: unknown policy string,
// invalid field-sensitivity, inconsistent container map.
func (c *Config) Validate() error {
	if _, err := c.ContextPolicy.Family(); err != nil {
		return &kerrors.ConfigurationError{Field: "context_policy", Msg: err.Error()}
	}
	switch c.FieldSensitivity {
	case FieldSensitiveByName, FieldInsensitive:
	default:
		return &kerrors.ConfigurationError{Field: "field_sensitivity", Msg: fmt.Sprintf("unknown value %q", c.FieldSensitivity)}
	}
	for kind, field := range c.ContainerKindMap {
		switch field {
		case "elem", "value":
		default:
			return &kerrors.ConfigurationError{Field: "container_kind_map", Msg: fmt.Sprintf("container %q maps to unknown field %q", kind, field)}
		}
	}
	if c.ObjDepth < 0 {
		return &kerrors.ConfigurationError{Field: "obj_depth", Msg: "must be >= 0"}
	}
	return nil
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &kerrors.ConfigurationError{Field: "path", Msg: err.Error()}
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &kerrors.ConfigurationError{Field: "yaml", Msg: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

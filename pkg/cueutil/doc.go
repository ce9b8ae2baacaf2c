// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE helpers shared by the configuration loader
// and the CUE document format.
//
// Decode checks user data against a definition of an embedded schema and
// decodes it:
//
//	settings, err := cueutil.Decode[map[string]any](
//	    configSchema, "#Config", data,
//	    cueutil.WithFilename("config.cue"),
//	    cueutil.WithConcrete(false),
//	)
//
// ExportJSON turns a standalone CUE value into JSON so that a model document
// written in CUE can be fed to the JSON codec.
//
// Both report rejected values as a *ValidationError whose Path names the
// offending value.
package cueutil

// Package common defines the configuration of package link's Linker, kept
// in its own package the way the teacher keeps backend/union/common
// separate from backend/union.
package common

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Options configures a Linker. The zero value is not useful; callers
// should start from Default() and override only the fields they care
// about.
type Options struct {
	// ShareMode selects the merge policy registered in package
	// link/policy. Only "unconflicted" has real behavior; any other
	// registered name that doesn't must fail with ErrNotYetImplemented.
	ShareMode string `yaml:"share_mode"`

	// DefaultMemberName is the name the writer gives the shared output at
	// archive slot 0. It does not affect how an input archive's default
	// member is found: that always uses ctf.DefaultMemberName.
	DefaultMemberName string `yaml:"default_member_name"`

	// CUNamePrefix is stripped from an archive member's name (only when
	// it occurs at the very start) to derive the per-CU output's
	// compilation-unit name.
	CUNamePrefix string `yaml:"cu_name_prefix"`

	// CompressionThreshold is the serialized-size threshold, in bytes,
	// above which an archive member is zstd-compressed by the writer. A
	// negative value disables compression.
	CompressionThreshold int `yaml:"compression_threshold"`
}

// Default returns the Options a Linker uses when none are supplied
// explicitly.
func Default() Options {
	return Options{
		ShareMode:            "unconflicted",
		DefaultMemberName:    ".ctf",
		CUNamePrefix:         ".ctf.",
		CompressionThreshold: 4096,
	}
}

// Load reads Options from a YAML file at path, starting from Default() so
// a file only needs to mention the fields it overrides.
func Load(path string) (Options, error) {
	opt := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	if err := yaml.Unmarshal(data, &opt); err != nil {
		return Options{}, err
	}
	return opt, nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ProfileFile is the optional YAML file named by SKILL_PROFILES_FILE.
//
//	profiles:
//	  design:
//	    - Visual Design
//	    - Prototyping
//	keywords: [figma, sketch]
type ProfileFile struct {
	Profiles map[string][]string `koanf:"profiles"`
	Keywords []string            `koanf:"keywords"`
}

// LoadProfileFile reads extra skill profiles and an optional keyword list.
func LoadProfileFile(path string) (*ProfileFile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidConfig, path, err)
	}

	var pf ProfileFile
	if err := k.UnmarshalWithConf("", &pf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidConfig, path, err)
	}

	profiles := make(map[string][]string, len(pf.Profiles))
	for name, categories := range pf.Profiles {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		var cleaned []string
		for _, c := range categories {
			if c = strings.TrimSpace(c); c != "" {
				cleaned = append(cleaned, c)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("%w: profile %q has no categories", ErrInvalidConfig, name)
		}
		profiles[name] = cleaned
	}
	pf.Profiles = profiles

	keywords := pf.Keywords[:0]
	for _, kw := range pf.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	pf.Keywords = keywords

	return &pf, nil
}

// Apply merges the file into the config. Its profile names become valid
// SKILL_PROFILE values, and its keywords replace the KEYWORDS list when
// present.
func (pf *ProfileFile) Apply(cfg *Config) {
	for name := range pf.Profiles {
		cfg.Analysis.CustomProfiles = append(cfg.Analysis.CustomProfiles, name)
	}
	if len(pf.Keywords) > 0 {
		cfg.Analysis.Keywords = pf.Keywords
	}
}

package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/ini.v1"
)

// INIParser is a koanf.Parser for flat INI files such as dl.cfg:
//
//	[AWS]
//	AWS_ACCESS_KEY_ID=...
//	AWS_SECRET_ACCESS_KEY=...
//
// Section and key names are lower-cased so lookups are case-insensitive,
// e.g. k.String("aws.aws_access_key_id"). Keys outside any section land in
// the "default" section.
type INIParser struct{}

// INI returns an INIParser.
func INI() *INIParser { return &INIParser{} }

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{Insensitive: true}
}

// Unmarshal parses INI bytes into a two-level map.
func (p *INIParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	f, err := ini.LoadSources(loadOptions(), b)
	if err != nil {
		return nil, fmt.Errorf("ini: %w", err)
	}

	out := map[string]interface{}{}
	for _, sec := range f.Sections() {
		keys := sec.Keys()
		if len(keys) == 0 {
			continue
		}
		m := make(map[string]interface{}, len(keys))
		for _, k := range keys {
			m[k.Name()] = k.Value()
		}
		out[sec.Name()] = m
	}
	return out, nil
}

// Marshal renders a two-level map back into INI with sorted sections and
// keys. Nested maps deeper than one level are rejected.
func (p *INIParser) Marshal(m map[string]interface{}) ([]byte, error) {
	f := ini.Empty(loadOptions())
	for _, name := range slices.Sorted(maps.Keys(m)) {
		v := m[name]
		kv, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("ini: section %q is %T, want map", name, v)
		}
		sec, err := f.NewSection(name)
		if err != nil {
			return nil, fmt.Errorf("ini: section %q: %w", name, err)
		}
		for _, k := range slices.Sorted(maps.Keys(kv)) {
			val := kv[k]
			if _, nested := val.(map[string]interface{}); nested {
				return nil, fmt.Errorf("ini: key %s.%s is nested", name, k)
			}
			if _, err := sec.NewKey(k, fmt.Sprint(val)); err != nil {
				return nil, fmt.Errorf("ini: key %s.%s: %w", name, k, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("ini: write: %w", err)
	}
	return buf.Bytes(), nil
}

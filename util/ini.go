package util

import (
	"gopkg.in/ini.v1"
)

// Ini loads the keys of the default section of an ini file. Keys of other sections are prefixed with the section
// name and a dot.
func Ini(path string) (map[string]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	var result = cfg.Section(ini.DefaultSection).KeysHash()
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		for key, value := range section.KeysHash() {
			result[section.Name()+"."+key] = value
		}
	}
	return result, nil
}

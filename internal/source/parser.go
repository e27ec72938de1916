// Package source discovers and parses financial model files.
package source

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/theirongolddev/fcast/internal/model"
)

// ParseFile reads a model file in any supported format and returns the
// resolved model. Name and ID default to the file name; UpdatedAt defaults to
// the file's modification time.
func ParseFile(df DiscoveredFile) ParseResult {
	info, err := os.Stat(df.Path)
	if err != nil {
		return ParseResult{Path: df.Path, Err: err}
	}
	res := ParseResult{
		Path:      df.Path,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}

	format := df.Format
	if format == "" {
		format = FormatOf(df.Path)
	}
	if format == "" {
		res.Err = fmt.Errorf("unsupported model file %s", df.Path)
		return res
	}

	v := viper.New()
	v.SetConfigFile(df.Path)
	v.SetConfigType(format)
	if err := v.ReadInConfig(); err != nil {
		res.Err = fmt.Errorf("reading %s: %w", df.Path, err)
		return res
	}

	m, err := decode(v)
	if err != nil {
		res.Err = fmt.Errorf("decoding %s: %w", df.Path, err)
		return res
	}

	name := df.Name
	if name == "" {
		name = strings.TrimSuffix(info.Name(), "."+format)
	}
	if strings.TrimSpace(m.Name) == "" {
		m.Name = name
	}
	if m.ID == "" {
		m.ID = slug(df.Group, name)
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = info.ModTime().UTC()
	}

	res.Model = model.Resolve(m)
	return res
}

// Decode reads a model from raw bytes of the given format.
func Decode(data []byte, format string) (model.FinancialModel, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return model.FinancialModel{}, fmt.Errorf("reading %s model: %w", format, err)
	}
	m, err := decode(v)
	if err != nil {
		return model.FinancialModel{}, err
	}
	return model.Resolve(m), nil
}

func decode(v *viper.Viper) (model.FinancialModel, error) {
	var m model.FinancialModel
	err := v.Unmarshal(&m, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)))
	return m, err
}

func slug(group, name string) string {
	s := name
	if group != "" {
		s = group + "/" + name
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}

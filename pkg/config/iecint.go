package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var iecPattern = regexp.MustCompile(`(?i)^(\d+)\s?([KMGT]?)[iI]?$`)

var iecMultipliers = map[string]int64{
	"":  1,
	"K": 1024,
	"M": 1024 * 1024,
	"G": 1024 * 1024 * 1024,
	"T": 1024 * 1024 * 1024 * 1024,
}

// IECInt is an integer that unmarshals from either a bare number or an
// IEC-suffixed one ("512", "4K", "2Gi"), as used for core counts, IO
// unit counts, and bandwidth figures in a cluster config file.
type IECInt int64

// ParseIECInt parses s as an IEC-suffixed integer.
func ParseIECInt(s string) (IECInt, error) {
	s = strings.TrimSpace(s)
	match := iecPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("config: %q is not a valid IEC integer (expected e.g. \"512\", \"4K\", \"2Gi\")", s)
	}
	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %q has an invalid numeric part: %w", s, err)
	}
	mult := iecMultipliers[strings.ToUpper(match[2])]
	return IECInt(n * mult), nil
}

func (i IECInt) Int64() int64 { return int64(i) }
func (i IECInt) Int() int     { return int(i) }

// UnmarshalYAML implements yaml.Unmarshaler, accepting either a bare
// number or an IEC-suffixed string.
func (i *IECInt) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := parseIECAny(raw)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting either a bare
// JSON number or an IEC-suffixed string.
func (i *IECInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	parsed, err := ParseIECInt(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

func parseIECAny(raw any) (IECInt, error) {
	switch v := raw.(type) {
	case string:
		return ParseIECInt(v)
	case int:
		return IECInt(v), nil
	case int64:
		return IECInt(v), nil
	case float64:
		return IECInt(int64(v)), nil
	default:
		return 0, fmt.Errorf("config: unsupported IEC integer value %v (%T)", raw, raw)
	}
}

package util

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ParseIntDefault parses s or returns def if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EnvString sets *dst when key is set and non-empty.
func EnvString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// EnvInt sets *dst when key holds a valid integer.
func EnvInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = ParseIntDefault(v, *dst)
	}
}

// EnvBool sets *dst when key holds a valid boolean.
func EnvBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// EnvDuration sets *dst when key holds a valid time.Duration string.
func EnvDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// EnvList sets *dst when key holds a non-empty comma separated list.
func EnvList(key string, dst *[]string) {
	if v, ok := os.LookupEnv(key); ok {
		if items := SplitList(v); len(items) > 0 {
			*dst = items
		}
	}
}

package dsl

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// ExpandEnv replaces ${env.KEY} references with the value of the KEY
// environment variable; unset variables expand to "". References with an
// invalid key or no closing brace are kept verbatim.
func ExpandEnv(value string) string {
	return expandEnv(value, os.Getenv)
}

func expandEnv(value string, lookup func(string) string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for offset := 0; ; {
		idx := strings.Index(value[offset:], envPrefix)
		if idx < 0 {
			b.WriteString(value[offset:])
			break
		}
		b.WriteString(value[offset : offset+idx])
		keyStart := offset + idx + len(envPrefix)
		keyEnd := strings.IndexByte(value[keyStart:], '}')
		if keyEnd < 0 {
			b.WriteString(value[offset+idx:])
			break
		}
		key := value[keyStart : keyStart+keyEnd]
		if !isEnvKey(key) {
			// keep the prefix, rescan the rest for nested references
			b.WriteString(envPrefix)
			offset = keyStart
			continue
		}
		b.WriteString(lookup(key))
		offset = keyStart + keyEnd + 1
	}
	return b.String()
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

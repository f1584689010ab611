package logutil

import (
	"net/url"
	"strings"

	"github.com/retra-de/retra-go-sdk/pkg/typeutil"
)

// SensitiveParams contains the query parameter names whose values never make
// it into log output. Matching is case insensitive. The set is package level
// configuration, extend it during startup before any requests are served.
var SensitiveParams = typeutil.NewSet(
	"password",
	"token",
	"api_key",
	"secret",
	"authorization",
	"credit_card",
)

// redactedValue replaces the values of sensitive query parameters.
const redactedValue = "***REDACTED***"

// SanitizePath strips credentials from a request path before it is logged.
// The input is a URL path with an optional query string. Values of sensitive
// parameters are replaced with a redaction marker, everything else is decoded
// and re-encoded, which normalizes equivalent spellings of the same query.
//
// Parameters repeated under the same name stay grouped at the position of
// their first occurrence. Parameters without a value are dropped. A path
// whose query ends up empty is returned without the question mark.
func SanitizePath(path string) string {
	rawPath, rawQuery, _ := strings.Cut(path, "?")

	params := parseQueryParams(rawQuery)
	if len(params) == 0 {
		return rawPath
	}

	var b strings.Builder
	b.WriteString(rawPath)
	b.WriteByte('?')

	for i, param := range params {
		values := param.values
		if SensitiveParams.Contains(strings.ToLower(param.key)) {
			values = []string{redactedValue}
		}

		for j, value := range values {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(param.key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(value))
		}
	}

	return b.String()
}

type queryParam struct {
	key    string
	values []string
}

// parseQueryParams splits a raw query string into decoded parameters,
// preserving the order of first occurrence per name. Fields without an equals
// sign and fields with an empty raw value are dropped.
func parseQueryParams(query string) []queryParam {
	var params []queryParam
	index := map[string]int{}

	for _, field := range strings.Split(query, "&") {
		if field == "" {
			continue
		}

		rawKey, rawValue, found := strings.Cut(field, "=")
		if !found || rawValue == "" {
			continue
		}

		key := decodeQueryComponent(rawKey)
		value := decodeQueryComponent(rawValue)

		i, seen := index[key]
		if !seen {
			i = len(params)
			index[key] = i
			params = append(params, queryParam{key: key})
		}
		params[i].values = append(params[i].values, value)
	}

	return params
}

// decodeQueryComponent decodes a single query component. Unlike
// url.QueryUnescape it tolerates malformed percent escapes by keeping them
// verbatim, so one broken escape does not discard an otherwise usable
// component.
func decodeQueryComponent(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				b.WriteByte(unHex(s[i+1])<<4 | unHex(s[i+2]))
				i += 2
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unHex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

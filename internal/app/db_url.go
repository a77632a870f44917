package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL fills in connection parameters the reconciler relies on
// without overriding values set explicitly in the DSN. Both URL and
// keyword/value DSNs are accepted.
func normalizeDBURL(raw, appName string, disablePreparedBinaryResult bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	defaults := make([][2]string, 0, 2)
	if name := strings.TrimSpace(appName); name != "" {
		defaults = append(defaults, [2]string{"application_name", name})
	}
	if disablePreparedBinaryResult {
		defaults = append(defaults, [2]string{"disable_prepared_binary_result", "yes"})
	}
	if len(defaults) == 0 {
		return raw
	}

	if !isURLDSN(raw) {
		keywords := dsnKeywords(raw)
		out := raw
		for _, kv := range defaults {
			if _, ok := keywords[kv[0]]; ok {
				continue
			}
			out += " " + kv[0] + "=" + quoteDSNValue(kv[1])
		}
		return out
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	query := parsed.Query()
	changed := false
	for _, kv := range defaults {
		if query.Get(kv[0]) != "" {
			continue
		}
		query.Set(kv[0], kv[1])
		changed = true
	}
	if !changed {
		return raw
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if isURLDSN(trimmed) {
		parsed, err := url.Parse(trimmed)
		if err != nil || parsed == nil {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}
	return dsnKeywords(trimmed)["dbname"]
}

func isURLDSN(raw string) bool {
	return strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://")
}

// dsnKeywords reads a keyword/value DSN. Quoted values may not contain spaces.
func dsnKeywords(raw string) map[string]string {
	out := make(map[string]string)
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return out
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}

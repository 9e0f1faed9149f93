package xmlout

import (
	"net/url"
	"strings"
)

// RequestMeta is the field projection a request line and header map
// yield for the export: simple derivation, no HTTP semantics.
type RequestMeta struct {
	Method   string
	Path     string
	Host     string
	Protocol string
	URL      string
	Port     string
}

// requestMeta derives export metadata from a request's first line and
// lower-cased headers. Absolute-URI targets are parsed for scheme,
// host, port and path; origin-form targets fall back to the host
// header. Malformed first lines yield the zero value.
func requestMeta(firstLine string, headers map[string]string) RequestMeta {
	parts := strings.Fields(firstLine)
	if len(parts) < 2 {
		return RequestMeta{}
	}
	meta := RequestMeta{
		Method: strings.ToUpper(parts[0]),
		Path:   parts[1],
		Host:   headers["host"],
	}
	target := parts[1]
	switch {
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		parsed, err := url.Parse(target)
		if err != nil {
			return meta
		}
		meta.Protocol = parsed.Scheme
		if h := parsed.Hostname(); h != "" {
			meta.Host = h
		}
		path := parsed.Path
		if path == "" {
			path = "/"
		}
		if parsed.RawQuery != "" {
			path += "?" + parsed.RawQuery
		}
		meta.Path = path
		if p := parsed.Port(); p != "" {
			meta.Port = p
		} else if parsed.Scheme == "https" {
			meta.Port = "443"
		} else {
			meta.Port = "80"
		}
		meta.URL = target
	case meta.Host != "":
		meta.Protocol = "http"
		meta.URL = "http://" + meta.Host + target
	}
	return meta
}

package gateway

import (
	"crypto/md5"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// coordPrecision is the number of decimal places kept for geographic
// coordinates; 3 decimals is roughly 100m, so near-duplicate queries
// for the same neighborhood share a cache entry.
const coordPrecision = 3

// Params collects the semantically relevant parameters of a request.
// Unset parameters are simply never added, so they cannot leak into the
// key as empty strings.
type Params map[string]string

// Set stores a string parameter. Empty values are dropped.
func (p Params) Set(name, value string) Params {
	if value != "" {
		p[name] = value
	}
	return p
}

// SetInt stores an integer parameter. Zero means unset.
func (p Params) SetInt(name string, value int) Params {
	if value != 0 {
		p[name] = strconv.Itoa(value)
	}
	return p
}

// SetBool stores a flag parameter only when it is set.
func (p Params) SetBool(name string, value bool) Params {
	if value {
		p[name] = "true"
	}
	return p
}

// SetCoord stores a coordinate rounded to coordPrecision decimals.
func (p Params) SetCoord(name string, value float64) Params {
	scale := math.Pow10(coordPrecision)
	rounded := math.Round(value*scale) / scale
	p[name] = strconv.FormatFloat(rounded, 'f', -1, 64)
	return p
}

// SetDate stores a date normalized to YYYY-MM-DD. The zero time means unset.
func (p Params) SetDate(name string, value time.Time) Params {
	if !value.IsZero() {
		p[name] = value.Format("2006-01-02")
	}
	return p
}

// Key builds a stable cache key from a domain name and its parameters.
// Parameter names are sorted before concatenation so equivalent requests
// collide regardless of the order in which callers set them. Names and
// values are escaped so free-text values (a team search, say) cannot
// masquerade as a different parameter set.
func Key(domain string, params Params) string {
	if len(params) == 0 {
		return domain
	}
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
	}
	sort.Strings(parts)

	key := domain + "?" + strings.Join(parts, "&")
	if len(key) > 200 {
		hash := md5.Sum([]byte(key))
		return fmt.Sprintf("%s?hash_%x", domain, hash)
	}
	return key
}

package construction

import (
	"fmt"
	"net/url"
	"strings"
)

// PlanLink is a validated plan-sharing URL
type PlanLink struct {
	url *url.URL
}

// ParsePlanLink accepts only absolute http(s) URLs whose host is expectedHost
func ParsePlanLink(raw, expectedHost string) (*PlanLink, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlanLink, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https", ErrInvalidPlanLink)
	}
	if !strings.EqualFold(u.Hostname(), expectedHost) {
		return nil, fmt.Errorf("%w: host must be %s, got %q", ErrInvalidPlanLink, expectedHost, u.Hostname())
	}
	return &PlanLink{url: u}, nil
}

// String returns the link as submitted
func (l *PlanLink) String() string {
	return l.url.String()
}

// Path returns the plan path on the sharing host
func (l *PlanLink) Path() string {
	return l.url.Path
}

// RequestURI returns the path and query to request from the planning API
func (l *PlanLink) RequestURI() string {
	u := url.URL{Path: l.url.Path, RawPath: l.url.RawPath, RawQuery: l.url.RawQuery}
	return u.RequestURI()
}

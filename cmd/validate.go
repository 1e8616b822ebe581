package main

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/precall-audit/internal/model"
)

var cityRe = regexp.MustCompile(`^[A-Za-z][A-Za-z\s-]{1,49}$`)

// validateInputs enforces the audit input contract shared by the CLI and the
// HTTP API: trimmed name 2-50 chars, city 2-50 letters/spaces/hyphens, a
// known service slug, and a parseable website URL.
func validateInputs(in model.AuditInputs) error {
	name := strings.TrimSpace(in.BusinessName)
	if len(name) < 2 || len(name) > 50 {
		return eris.New("business_name must be 2-50 characters")
	}

	if !cityRe.MatchString(strings.TrimSpace(in.City)) {
		return eris.New("city must be 2-50 characters of letters, spaces, or hyphens")
	}

	if !model.IsAllowedService(in.PrimaryService) {
		return eris.Errorf("unknown primary_service %q", in.PrimaryService)
	}

	raw := in.WebsiteURL
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return eris.New("website_url is not a valid URL")
	}

	return nil
}

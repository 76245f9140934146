package fossa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// IgnoreRuleCategory selects which kind of ignore rules (issue exceptions)
// to list.
type IgnoreRuleCategory string

const (
	// CategoryLicensing selects licensing ignore rules
	CategoryLicensing IgnoreRuleCategory = "licensing"
	// CategorySecurity selects security ignore rules
	CategorySecurity IgnoreRuleCategory = "security"
)

// ParseIgnoreRuleCategory validates a category string as given on the command line.
func ParseIgnoreRuleCategory(s string) (IgnoreRuleCategory, error) {
	switch IgnoreRuleCategory(s) {
	case CategoryLicensing:
		return CategoryLicensing, nil
	case CategorySecurity:
		return CategorySecurity, nil
	default:
		return "", xerrors.Errorf("unknown ignore rule category: %s (must be %s or %s)", s, CategoryLicensing, CategorySecurity)
	}
}

// IgnoreRule is a stored exception record which suppresses findings in the
// platform's reports. The platform does not document the full record shape,
// so rules stay schemaless and are passed through to the output as-is.
type IgnoreRule map[string]interface{}

type ignoreRulesPage struct {
	Exceptions []IgnoreRule `json:"exceptions"`
}

// ListIgnoreRules pages through the issue-exceptions API and returns all rules
// of the given category. Pages are requested with exactly count records each,
// starting at page 1; the first page with fewer than count records ends the loop.
func (c *Client) ListIgnoreRules(ctx context.Context, category IgnoreRuleCategory, count int) ([]IgnoreRule, error) {
	if count <= 0 {
		return nil, xerrors.Errorf("page size must be positive, got %d", count)
	}

	var rules []IgnoreRule
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/api/v2/issues/exceptions?filters[category]=%s&page=%d&count=%d",
			c.endpoint, url.QueryEscape(string(category)), page, count)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, xerrors.Errorf("creating ignore rules request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, xerrors.Errorf("listing ignore rules (page %d): %w", page, err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &APIError{Operation: fmt.Sprintf("list ignore rules (page %d)", page), StatusCode: resp.StatusCode}
		}

		var pg ignoreRulesPage
		err = json.NewDecoder(resp.Body).Decode(&pg)
		resp.Body.Close()
		if err != nil {
			return nil, xerrors.Errorf("decoding ignore rules response (page %d): %w", page, err)
		}

		log.WithField("page", page).WithField("records", len(pg.Exceptions)).Debug("fetched ignore rules page")
		rules = append(rules, pg.Exceptions...)

		if len(pg.Exceptions) < count {
			break
		}
	}

	return rules, nil
}

package fossa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/xerrors"
)

// Team is an organizational grouping on the FOSSA platform. The API returns
// more fields than these; we only consume what provisioning needs.
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	AutoAddUsers bool   `json:"autoAddUsers"`
}

// ListTeams returns all teams of the organization the API token belongs to.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/teams", nil)
	if err != nil {
		return nil, xerrors.Errorf("creating list teams request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("listing teams: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Operation: "list teams", StatusCode: resp.StatusCode}
	}

	var teams []Team
	if err := json.NewDecoder(resp.Body).Decode(&teams); err != nil {
		return nil, xerrors.Errorf("decoding teams response: %w", err)
	}

	return teams, nil
}

// TeamExists reports whether a team with exactly the given name exists.
// The match is case-sensitive.
func (c *Client) TeamExists(ctx context.Context, name string) (bool, error) {
	teams, err := c.ListTeams(ctx)
	if err != nil {
		return false, err
	}

	for _, team := range teams {
		if team.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateTeam creates a new team with the given name and autoAddUsers disabled.
// The caller is responsible for making sure the name is not taken yet: the
// platform's behavior on duplicate names is undefined from our point of view.
func (c *Client) CreateTeam(ctx context.Context, name string) (Team, error) {
	body, err := json.Marshal(map[string]interface{}{
		"name":         name,
		"autoAddUsers": false,
	})
	if err != nil {
		return Team{}, xerrors.Errorf("encoding create team request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/teams", bytes.NewReader(body))
	if err != nil {
		return Team{}, xerrors.Errorf("creating create team request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Team{}, xerrors.Errorf("creating team %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Team{}, &APIError{Operation: fmt.Sprintf("create team %q", name), StatusCode: resp.StatusCode}
	}

	var team Team
	if err := json.NewDecoder(resp.Body).Decode(&team); err != nil {
		return Team{}, xerrors.Errorf("decoding create team response: %w", err)
	}
	if team.ID == 0 {
		// The create went through per status code, but without an ID we cannot
		// scope anything to this team later on.
		return Team{}, xerrors.Errorf("create team %q: response carries no team ID", name)
	}
	if team.Name == "" {
		team.Name = name
	}

	return team, nil
}

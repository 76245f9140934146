package provision

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/gitpod-io/fossactl/pkg/fossa"
	"github.com/gitpod-io/fossactl/pkg/testutil"
)

type fakeAPI struct {
	teams   map[string]fossa.Team
	listErr error
	creates []string
}

func newFakeAPI(teams ...string) *fakeAPI {
	api := &fakeAPI{teams: make(map[string]fossa.Team)}
	for i, name := range teams {
		api.teams[name] = fossa.Team{ID: int64(i + 1), Name: name}
	}
	return api
}

func (f *fakeAPI) TeamExists(ctx context.Context, name string) (bool, error) {
	if f.listErr != nil {
		return false, f.listErr
	}
	_, ok := f.teams[name]
	return ok, nil
}

func (f *fakeAPI) CreateTeam(ctx context.Context, name string) (fossa.Team, error) {
	f.creates = append(f.creates, name)
	team := fossa.Team{ID: int64(len(f.teams) + 1), Name: name}
	f.teams[name] = team
	return team, nil
}

type fakeAnalyzer struct {
	analyzeErr  error
	testErr     error
	analyzed    []string
	testedTimes int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, team string) error {
	f.analyzed = append(f.analyzed, team)
	return f.analyzeErr
}

func (f *fakeAnalyzer) Test(ctx context.Context) error {
	f.testedTimes++
	return f.testErr
}

func TestProvision(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing team", func(t *testing.T) {
		api := newFakeAPI()
		err := New(api, &fakeAnalyzer{}).Provision(ctx, "New Team")
		require.NoError(t, err)
		assert.Equal(t, []string{"New Team"}, api.creates)
	})

	t.Run("existing team issues no create", func(t *testing.T) {
		api := newFakeAPI("Platform")
		err := New(api, &fakeAnalyzer{}).Provision(ctx, "Platform")
		require.NoError(t, err)
		assert.Empty(t, api.creates)
	})

	t.Run("failing existence check issues no create", func(t *testing.T) {
		api := newFakeAPI()
		api.listErr = xerrors.Errorf("list teams: unexpected status 503")
		err := New(api, &fakeAnalyzer{}).Provision(ctx, "Platform")
		require.Error(t, err)
		assert.Empty(t, api.creates)
	})

	t.Run("empty team name", func(t *testing.T) {
		api := newFakeAPI()
		err := New(api, &fakeAnalyzer{}).Provision(ctx, "")
		require.Error(t, err)
		assert.Empty(t, api.creates)
	})

	t.Run("repeated provisioning creates once", func(t *testing.T) {
		api := newFakeAPI()
		p := New(api, &fakeAnalyzer{})
		require.NoError(t, p.Provision(ctx, "Platform"))
		require.NoError(t, p.Provision(ctx, "Platform"))
		assert.Equal(t, []string{"Platform"}, api.creates)
	})
}

// TestProvisionAgainstAPI drives the provisioner through the real API client
// against a scripted server which reflects prior creates.
func TestProvisionAgainstAPI(t *testing.T) {
	ctx := context.Background()
	srv := testutil.HTTPServerWithHandlers(t, []http.HandlerFunc{
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":123,"name":"New Team"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[{"name":"New Team","id":123}]`))
		},
	})

	p := New(fossa.NewClient("token", srv.URL), &fakeAnalyzer{})
	require.NoError(t, p.Provision(ctx, "New Team"))
	// the second run observes the team and must not create again; the handler
	// sequence above would fail the test on a fourth request
	require.NoError(t, p.Provision(ctx, "New Team"))
}

func TestRunAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("analysis and policy check pass", func(t *testing.T) {
		analyzer := &fakeAnalyzer{}
		err := New(newFakeAPI(), analyzer).RunAnalysis(ctx, "Platform")
		require.NoError(t, err)
		assert.Equal(t, []string{"Platform"}, analyzer.analyzed)
		assert.Equal(t, 1, analyzer.testedTimes)
	})

	t.Run("analysis failure is fatal", func(t *testing.T) {
		analyzer := &fakeAnalyzer{analyzeErr: xerrors.Errorf("exit status 1")}
		err := New(newFakeAPI(), analyzer).RunAnalysis(ctx, "Platform")
		require.Error(t, err)
		// the policy check must not run when the analysis already failed
		assert.Equal(t, 0, analyzer.testedTimes)
	})

	t.Run("policy check failure is a warning only", func(t *testing.T) {
		analyzer := &fakeAnalyzer{testErr: xerrors.Errorf("exit status 1")}
		err := New(newFakeAPI(), analyzer).RunAnalysis(ctx, "Platform")
		require.NoError(t, err)
		assert.Equal(t, 1, analyzer.testedTimes)
	})
}

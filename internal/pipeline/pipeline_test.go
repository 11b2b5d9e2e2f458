package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cryptogen/internal/command"
	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/distribute"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/generator"
	"git.home.luguber.info/inful/cryptogen/internal/git"
	"git.home.luguber.info/inful/cryptogen/internal/mapping"
	"git.home.luguber.info/inful/cryptogen/internal/metrics"
	"git.home.luguber.info/inful/cryptogen/internal/module"
	"git.home.luguber.info/inful/cryptogen/internal/workspace"
)

type fixture struct {
	root   string
	repo   string
	target string
	cfg    *config.Config
	table  *mapping.Table
	engine *stubEngine
}

// stubEngine emulates the template engine for the dsa tags.
type stubEngine struct {
	calls int
	fail  error
	// staged records whether module sources were present when the engine ran.
	staged bool
}

func (s *stubEngine) Run(_ context.Context, _, input, output string) (command.Result, error) {
	s.calls++
	if s.fail != nil {
		return command.Result{ExitCode: 1, Output: "template error"}, s.fail
	}
	_, err := os.Stat(filepath.Join(input, "cam_ecdsa", "cam_ecdsa.c"))
	s.staged = err == nil

	files := []string{
		"common_crypto/crypto_common.h",
		"common_crypto/crypto_digsign.h",
		"common_crypto/src/crypto_digsign.c",
		"cam_ecdsa/wrapper/crypto_digisign_camecdsa_wrapper.h",
		"cam_ecdsa/wrapper/src/crypto_digisign_camecdsa_wrapper.c",
		"cam_ecdsa/wrapper/crypto_camecdsa_wrapper.h",
		"cam_ecdsa/wrapper/src/crypto_camecdsa_wrapper.c",
	}
	for _, f := range files {
		p := filepath.Join(output, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return command.Result{}, err
		}
		if err := os.WriteFile(p, []byte(f), 0o600); err != nil {
			return command.Result{}, err
		}
	}
	return command.Result{}, nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	repo := filepath.Join(root, "crypto_v4")
	for dir, file := range map[string]string{
		filepath.Join(repo, module.DriversDir, "cam_ecdsa"): "cam_ecdsa.c",
		filepath.Join(repo, module.CommonDir):               "crypto_common.ftl",
		filepath.Join(repo, module.TemplatesDir):            "wrapper.ftl",
	} {
		require.NoError(t, os.MkdirAll(dir, 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(file), 0o600))
	}

	cfg := config.Defaults()
	cfg.Workspace = filepath.Join(root, "build")
	cfg.Repository.Path = repo
	cfg.Module = "cam_ecdsa"

	target := filepath.Join(root, "apps", "dsa", "ecdsa.X", "crypto")
	table := &mapping.Table{Version: 1, Projects: []mapping.Project{{
		Name:     "dsa",
		Target:   target,
		Shared:   []string{"digsign"},
		Wrappers: []string{"digisign_cam", "cam"},
	}}}
	return &fixture{root: root, repo: repo, target: target, cfg: cfg, table: table, engine: &stubEngine{}}
}

func (f *fixture) deps(vcs git.VCS) Deps {
	return Deps{
		Source:      git.NewSource(vcs),
		Stager:      workspace.NewStager(),
		Invoker:     generator.NewInvoker(f.engine),
		Distributor: distribute.NewDistributor(),
		Table:       f.table,
	}
}

type nopVCS struct{ calls int }

func (v *nopVCS) Clone(context.Context, string, string) error { v.calls++; return nil }
func (v *nopVCS) Fetch(context.Context, string) error { v.calls++; return nil }
func (v *nopVCS) Checkout(context.Context, string, string) error { v.calls++; return nil }
func (v *nopVCS) Pull(context.Context, string, string) error { v.calls++; return nil }

func stageResults(r *Report) map[StageName]StageResult {
	out := map[StageName]StageResult{}
	for _, s := range r.Stages {
		out[s.Stage] = s.Result
	}
	return out
}

func TestRunEndToEndDSA(t *testing.T) {
	f := newFixture(t)
	wd, err := os.Getwd()
	require.NoError(t, err)

	report := New(f.cfg, f.deps(&nopVCS{})).Run(t.Context())
	require.NoError(t, report.Err)
	assert.Equal(t, StateDone, report.State)
	assert.True(t, f.engine.staged)
	assert.Equal(t, 1, f.engine.calls)

	for _, rel := range []string{
		"common_crypto/crypto_common.h",
		"common_crypto/crypto_digsign.h",
		"common_crypto/src/crypto_digsign.c",
		"drivers/wrapper/crypto_digisign_camecdsa_wrapper.h",
		"drivers/wrapper/src/crypto_digisign_camecdsa_wrapper.c",
		"drivers/wrapper/crypto_camecdsa_wrapper.h",
		"drivers/wrapper/src/crypto_camecdsa_wrapper.c",
	} {
		assert.FileExists(t, filepath.Join(f.target, filepath.FromSlash(rel)))
	}
	assert.Equal(t, 7, report.FilesCopied())

	assert.Equal(t, map[StageName]StageResult{
		StageValidate:   ResultSuccess,
		StageStage:      ResultSuccess,
		StageGenerate:   ResultSuccess,
		StageDistribute: ResultSuccess,
	}, stageResults(report))

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, after)
}

func TestRunWithCloneRunsCloneFirst(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Mkdir(filepath.Join(f.repo, ".git"), 0o750))
	f.cfg.Clone = true
	f.cfg.Repository.Branch = "develop"
	vcs := &nopVCS{}

	orch := New(f.cfg, f.deps(vcs))
	require.Equal(t, StageClone, orch.Stages()[0].Name)

	report := orch.Run(t.Context())
	require.NoError(t, report.Err)
	assert.Equal(t, 3, vcs.calls, "fetch, checkout and pull on an existing checkout")
	assert.Equal(t, StageClone, report.Stages[0].Stage)
	assert.Equal(t, "develop", report.Branch)
}

func TestRunMissingModuleCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.cfg.Module = "cam_unknown"

	report := New(f.cfg, f.deps(&nopVCS{})).Run(t.Context())
	require.Error(t, report.Err)
	assert.Equal(t, StateFailed, report.State)
	assert.True(t, errors.HasCategory(report.Err, errors.CategoryMissingModule))

	stage, ok := report.FailedStage()
	require.True(t, ok)
	assert.Equal(t, StageValidate, stage)

	ce, _ := errors.AsClassified(report.Err)
	ctxStage, _ := ce.Context().GetString("stage")
	assert.Equal(t, "validate", ctxStage)

	assert.NoDirExists(t, f.cfg.Workspace)
	assert.NoDirExists(t, f.target)
	assert.Zero(t, f.engine.calls)
	assert.Equal(t, map[StageName]StageResult{
		StageValidate:   ResultFatal,
		StageStage:      ResultSkipped,
		StageGenerate:   ResultSkipped,
		StageDistribute: ResultSkipped,
	}, stageResults(report))
}

func TestRunCloneWithoutBranchMakesNoVCSCalls(t *testing.T) {
	f := newFixture(t)
	f.cfg.Clone = true
	vcs := &nopVCS{}

	report := New(f.cfg, f.deps(vcs)).Run(t.Context())
	require.Error(t, report.Err)
	assert.True(t, errors.HasCategory(report.Err, errors.CategoryArgument))
	assert.Zero(t, vcs.calls)
	assert.Zero(t, f.engine.calls)
}

func TestRunGenerationFailureSkipsDistribution(t *testing.T) {
	f := newFixture(t)
	f.engine.fail = assert.AnError

	report := New(f.cfg, f.deps(&nopVCS{})).Run(t.Context())
	require.Error(t, report.Err)
	assert.True(t, errors.HasCategory(report.Err, errors.CategoryGeneration))
	assert.NoDirExists(t, f.target)

	out, ok := report.Outcome(StageDistribute)
	require.True(t, ok)
	assert.Equal(t, ResultSkipped, out.Result)
	assert.DirExists(t, filepath.Join(f.cfg.Workspace, "input", "cam_ecdsa"), "staged files are not rolled back")
}

func TestRunCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	report := New(f.cfg, f.deps(&nopVCS{})).Run(ctx)
	require.Error(t, report.Err)
	assert.ErrorIs(t, report.Err, context.Canceled)
	assert.Equal(t, StateFailed, report.State)
	assert.Zero(t, f.engine.calls)
}

type recordingObserver struct {
	events []string
	final  *Report
}

func (r *recordingObserver) OnStageStart(s StageName) { r.events = append(r.events, "start:"+string(s)) }
func (r *recordingObserver) OnStageComplete(o StageOutcome) {
	r.events = append(r.events, string(o.Result)+":"+string(o.Stage))
}
func (r *recordingObserver) OnRunComplete(rep *Report) { r.final = rep }

func TestObserversSeeEveryStage(t *testing.T) {
	f := newFixture(t)
	f.cfg.Module = "cam_unknown"
	obs := &recordingObserver{}

	report := New(f.cfg, f.deps(&nopVCS{}), WithObserver(NoopObserver{}), WithObserver(obs)).Run(t.Context())
	assert.Same(t, report, obs.final)
	assert.Equal(t, []string{
		"start:validate",
		"fatal:validate",
		"skipped:stage",
		"skipped:generate",
		"skipped:distribute",
	}, obs.events)
}

func TestRecorderObserver(t *testing.T) {
	f := newFixture(t)
	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())

	tick := time.Unix(0, 0)
	clock := func() time.Time { tick = tick.Add(10 * time.Millisecond); return tick }

	report := New(f.cfg, f.deps(&nopVCS{}), WithObserver(RecorderObserver(rec)), WithClock(clock)).Run(t.Context())
	require.NoError(t, report.Err)
	assert.Positive(t, report.Duration())

	mfs, err := rec.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
	n, err := testutil.GatherAndCount(rec.Registry(), "cryptogen_distributed_files_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

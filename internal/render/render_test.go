package render

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docwiki/internal/config"
	"git.home.luguber.info/inful/docwiki/internal/docmodel"
	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/pages"
)

// fakeGenerator writes a one-line page naming what it rendered.
type fakeGenerator struct {
	calls  []PageRequest
	failOn string
	during func()
}

func (g *fakeGenerator) RenderDocument(req PageRequest, document string) error {
	return g.write(req, "document "+document)
}

func (g *fakeGenerator) RenderModules(req PageRequest, selectors []string) error {
	return g.write(req, "modules")
}

func (g *fakeGenerator) write(req PageRequest, body string) error {
	g.calls = append(g.calls, req)
	if g.during != nil {
		g.during()
	}
	if req.Page.Name == g.failOn {
		return errors.New("generator exploded")
	}
	return os.WriteFile(req.Path, []byte(body+"\n"), 0o600)
}

// outcomeRecorder keeps the render outcomes it was told about.
type outcomeRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.Outcome
}

func (r *outcomeRecorder) IncRenderOutcome(outcome metrics.Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scenarioTree(t *testing.T) pages.Tree {
	t.Helper()
	tree, err := pages.Build([]config.PageSpec{
		{Title: "Home", Name: "index", Source: "README.md"},
		{Title: "API", Children: []config.PageSpec{
			{Title: "Module 1", Name: "mod1", Contents: []string{"*"}},
		}},
	})
	require.NoError(t, err)
	return tree
}

func settings(root string) Settings {
	return Settings{OutputRoot: root, Extension: ".md", CleanRender: true}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestClean_RemovesFilesKeepsDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "a")
	writeFile(t, filepath.Join(root, "sub", "b.md"), "b")
	writeFile(t, filepath.Join(root, "sub", "deeper", "c.txt"), "c")
	require.NoError(t, os.Symlink(filepath.Join(root, "a.md"), filepath.Join(root, "link.md")))

	removed, err := Clean(root)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	assert.DirExists(t, filepath.Join(root, "sub", "deeper"))
	assert.NoFileExists(t, filepath.Join(root, "a.md"))
	assert.NoFileExists(t, filepath.Join(root, "sub", "b.md"))
	_, err = os.Lstat(filepath.Join(root, "link.md"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestClean_MissingRoot(t *testing.T) {
	removed, err := Clean(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestClean_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, path, "x")
	_, err := Clean(path)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryFileSystem))
	assert.FileExists(t, path)
}

func TestClean_SymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	writeFile(t, filepath.Join(target, "stale.md"), "old")
	writeFile(t, filepath.Join(target, "sub", "b.md"), "b")
	link := filepath.Join(dir, "docs")
	require.NoError(t, os.Symlink(target, link))

	removed, err := Clean(link)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.NoFileExists(t, filepath.Join(target, "stale.md"))
	assert.DirExists(t, filepath.Join(target, "sub"))
	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestClean_KeepsDirectorySymlinks(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared")
	writeFile(t, filepath.Join(shared, "keep.md"), "keep")
	root := filepath.Join(dir, "docs")
	writeFile(t, filepath.Join(root, "a.md"), "a")
	require.NoError(t, os.Symlink(shared, filepath.Join(root, "assets")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(root, "dangling")))

	removed, err := Clean(root)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	info, err := os.Lstat(filepath.Join(root, "assets"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
	assert.FileExists(t, filepath.Join(shared, "keep.md"))
	_, err = os.Lstat(filepath.Join(root, "dangling"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRender_Scenario(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	gen := &fakeGenerator{}
	o := New(gen, WithLogger(quietLogger()))

	report, err := o.Render(nil, scenarioTree(t), settings(root))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "index.md"),
		filepath.Join(root, "mod1.md"),
	}, report.Written)
	assert.Equal(t, 1, report.SkippedGrouping)
	assert.Zero(t, report.SkippedEmpty)
	assert.FileExists(t, filepath.Join(root, "index.md"))
	assert.FileExists(t, filepath.Join(root, "mod1.md"))

	require.Len(t, gen.calls, 2)
	assert.Equal(t, "", gen.calls[0].LinkPrefix)
	assert.Equal(t, 0, gen.calls[0].Depth)
	assert.Equal(t, "mod1.md", gen.calls[1].RelPath)
	assert.Equal(t, 1, gen.calls[1].Depth)
	assert.Equal(t, StateIdle, o.State())
}

func TestRender_NestedCreatesDirectoriesLazily(t *testing.T) {
	root := t.TempDir()
	tree, err := pages.NewTree(
		pages.Node{Name: "api", Title: "API", Source: pages.Selector("*"), Children: []pages.Node{
			{Name: "core", Title: "Core", Source: pages.Selector("pkg.core")},
		}},
		pages.Node{Name: "empty", Title: "Empty", Children: []pages.Node{
			{Name: "nothing", Title: "Nothing"},
		}},
	)
	require.NoError(t, err)

	gen := &fakeGenerator{}
	report, err := New(gen, WithLogger(quietLogger())).Render(nil, tree, settings(root))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "api.md"))
	assert.FileExists(t, filepath.Join(root, "api", "core.md"))
	assert.NoDirExists(t, filepath.Join(root, "empty"))
	assert.Equal(t, 2, report.SkippedEmpty)

	require.Len(t, gen.calls, 2)
	assert.Equal(t, []pages.NavLink{{Title: "Core", Href: "api/core.md"}}, gen.calls[0].Children)
	assert.Equal(t, "../", gen.calls[1].LinkPrefix)
}

func TestRender_CleanRemovesStaleFiles(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "old.md")
	writeFile(t, stale, "stale")

	_, err := New(&fakeGenerator{}, WithLogger(quietLogger())).Render(nil, scenarioTree(t), settings(root))
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestRender_NoCleanKeepsStaleFiles(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "old.md")
	writeFile(t, stale, "stale")

	s := settings(root)
	s.CleanRender = false
	report, err := New(&fakeGenerator{}, WithLogger(quietLogger())).Render(nil, scenarioTree(t), s)
	require.NoError(t, err)
	assert.FileExists(t, stale)
	assert.Zero(t, report.Cleaned)
}

func TestRender_Idempotent(t *testing.T) {
	root := t.TempDir()
	o := New(&fakeGenerator{}, WithLogger(quietLogger()))
	tree := scenarioTree(t)

	first, err := o.Render(nil, tree, settings(root))
	require.NoError(t, err)
	before := snapshot(t, root)

	second, err := o.Render(nil, tree, settings(root))
	require.NoError(t, err)
	assert.Equal(t, first.Written, second.Written)
	assert.Equal(t, 2, second.Cleaned)
	assert.Equal(t, before, snapshot(t, root))
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	require.NoError(t, filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		files[path] = string(data)
		return err
	}))
	return files
}

func TestRender_GeneratorErrorAborts(t *testing.T) {
	root := t.TempDir()
	tree, err := pages.NewTree(
		pages.Node{Name: "a", Title: "A", Source: pages.Selector("*")},
		pages.Node{Name: "b", Title: "B", Source: pages.Selector("*")},
		pages.Node{Name: "c", Title: "C", Source: pages.Selector("*")},
	)
	require.NoError(t, err)

	gen := &fakeGenerator{failOn: "b"}
	report, err := New(gen, WithLogger(quietLogger())).Render(nil, tree, settings(root))
	require.Error(t, err)

	assert.True(t, derrors.HasCategory(err, derrors.CategoryRender))
	classified, ok := derrors.AsClassified(err)
	require.True(t, ok)
	page, _ := classified.Context().GetString("page")
	assert.Equal(t, "b", page)

	assert.Equal(t, []string{filepath.Join(root, "a.md")}, report.Written)
	assert.FileExists(t, filepath.Join(root, "a.md"))
	assert.NoFileExists(t, filepath.Join(root, "c.md"))
	assert.Len(t, gen.calls, 2)
}

func TestRender_FailedCleanAborts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	writeFile(t, root, "not a directory")

	gen := &fakeGenerator{}
	rec := &outcomeRecorder{}
	report, err := New(gen, WithLogger(quietLogger()), WithRecorder(rec)).Render(nil, scenarioTree(t), settings(root))
	require.Error(t, err)

	assert.True(t, derrors.HasCategory(err, derrors.CategoryFileSystem))
	assert.Empty(t, gen.calls)
	assert.Empty(t, report.Written)
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeFailed}, rec.outcomes)
	assert.FileExists(t, root)
}

func TestRender_LayoutCollisionFailsBeforeCleaning(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "stale.md")
	writeFile(t, stale, "old")

	tree, err := pages.NewTree(
		pages.Node{Name: "x", Title: "X", Source: pages.Selector("*")},
		pages.Node{Name: "x.md", Title: "X dir", Children: []pages.Node{
			{Name: "c", Title: "C", Source: pages.Selector("*")},
		}},
	)
	require.NoError(t, err)

	gen := &fakeGenerator{}
	_, err = New(gen, WithLogger(quietLogger())).Render(nil, tree, settings(root))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
	assert.Empty(t, gen.calls)
	assert.FileExists(t, stale)
	assert.NoDirExists(t, filepath.Join(root, "x.md"))
}

func TestRender_InProgressGuard(t *testing.T) {
	root := t.TempDir()
	gen := &fakeGenerator{}
	o := New(gen, WithLogger(quietLogger()))

	var nestedErr error
	var observed State
	gen.during = func() {
		if nestedErr == nil {
			observed = o.State()
			_, nestedErr = o.Render(nil, scenarioTree(t), settings(root))
		}
	}

	_, err := o.Render(nil, scenarioTree(t), settings(root))
	require.NoError(t, err)
	assert.Equal(t, StateRendering, observed)
	require.Error(t, nestedErr)
	assert.ErrorIs(t, nestedErr, ErrRenderInProgress)
	assert.Equal(t, StateIdle, o.State())
}

func TestRender_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "old.md")
	writeFile(t, stale, "stale")

	gen := &fakeGenerator{}
	s := settings(root)
	s.DryRun = true
	report, err := New(gen, WithLogger(quietLogger())).Render(nil, scenarioTree(t), s)
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Len(t, report.Written, 2)
	assert.Empty(t, gen.calls)
	assert.FileExists(t, stale)
	assert.NoFileExists(t, filepath.Join(root, "index.md"))
}

func TestRender_EmptyTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "old.md"), "x")
	tree, err := pages.NewTree()
	require.NoError(t, err)

	report, err := New(&fakeGenerator{}, WithLogger(quietLogger())).Render(nil, tree, settings(root))
	require.NoError(t, err)
	assert.Empty(t, report.Written)
	assert.NoFileExists(t, filepath.Join(root, "old.md"))
}

func TestRender_ForwardsModulesAndOptions(t *testing.T) {
	modules := []docmodel.Module{{Name: "pkg"}}
	gen := &fakeGenerator{}
	s := settings(t.TempDir())
	s.Options = PageOptions{InsertHeaderAnchors: true, ContextDirectory: "/ctx"}

	_, err := New(gen, WithLogger(quietLogger())).Render(modules, scenarioTree(t), s)
	require.NoError(t, err)
	for _, call := range gen.calls {
		assert.Equal(t, modules, call.Modules)
		assert.Equal(t, s.Options, call.Options)
	}
}

func TestRender_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	o := New(&fakeGenerator{}, WithLogger(quietLogger()), WithRecorder(rec))

	_, err := o.Render(nil, scenarioTree(t), settings(t.TempDir()))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "docwiki_pages_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ContextDirectory = "/project"
	cfg.Renderer.InsertHeaderAnchors = true

	s := SettingsFromConfig(cfg)
	assert.Equal(t, "docs", s.OutputRoot)
	assert.Equal(t, ".md", s.Extension)
	assert.True(t, s.CleanRender)
	assert.False(t, s.DryRun)
	assert.True(t, s.Options.InsertHeaderAnchors)
	assert.Equal(t, "/project", s.Options.ContextDirectory)
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"flint/interpreter-go/pkg/driver"
)

func setupPathDepProject(t *testing.T) *driver.Manifest {
	t.Helper()
	root := t.TempDir()

	libDir := filepath.Join(root, "strlib")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "strlib.fl"), []byte("fn shout(s) { return s + \"!\"; }\n"), 0o644))

	appDir := filepath.Join(root, "app")
	manifestPath := writeFile(t, appDir, "package.yml", `
name: app
dependencies:
  strlib:
    path: ../strlib
`)
	manifest, err := driver.LoadManifest(manifestPath)
	require.NoError(t, err)
	return manifest
}

func TestInstallPathDependency(t *testing.T) {
	manifest := setupPathDepProject(t)
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)

	installer := newDependencyInstaller(manifest, t.TempDir())
	changed, logs, err := installer.Install(lock)
	require.NoError(t, err)
	require.True(t, changed)
	require.NotEmpty(t, logs)

	require.Len(t, lock.Packages, 1)
	pkg := lock.Packages[0]
	require.Equal(t, "strlib", pkg.Name)
	require.Equal(t, "path:../strlib", pkg.Source)
	require.NotEmpty(t, pkg.Checksum)
}

func TestInstallIsIdempotent(t *testing.T) {
	manifest := setupPathDepProject(t)
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	cacheDir := t.TempDir()

	installer := newDependencyInstaller(manifest, cacheDir)
	changed, _, err := installer.Install(lock)
	require.NoError(t, err)
	require.True(t, changed)

	changed, _, err = newDependencyInstaller(manifest, cacheDir).Install(lock)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestInstallDetectsContentDrift(t *testing.T) {
	manifest := setupPathDepProject(t)
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	cacheDir := t.TempDir()

	_, _, err := newDependencyInstaller(manifest, cacheDir).Install(lock)
	require.NoError(t, err)

	libFile := filepath.Join(filepath.Dir(filepath.Dir(manifest.Path)), "strlib", "strlib.fl")
	require.NoError(t, os.WriteFile(libFile, []byte("fn shout(s) { return s; }\n"), 0o644))

	changed, _, err := newDependencyInstaller(manifest, cacheDir).Install(lock)
	require.NoError(t, err)
	require.True(t, changed)
}

func TestInstallMissingPathDependency(t *testing.T) {
	root := t.TempDir()
	manifestPath := writeFile(t, root, "package.yml", `
name: app
dependencies:
  ghost:
    path: ../ghost
`)
	manifest, err := driver.LoadManifest(manifestPath)
	require.NoError(t, err)

	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	_, _, err = newDependencyInstaller(manifest, t.TempDir()).Install(lock)
	require.Error(t, err)
	require.Contains(t, err.Error(), `dependency "ghost"`)
}

func TestDirChecksumStable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.fl", "print(1);")
	writeFile(t, dir, "sub/b.fl", "print(2);")

	first, err := dirChecksum(dir)
	require.NoError(t, err)
	second, err := dirChecksum(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)

	writeFile(t, dir, "a.fl", "print(3);")
	third, err := dirChecksum(dir)
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}

func TestGitRevisionFromSpec(t *testing.T) {
	rev, descriptor, err := gitRevisionFromSpec(&driver.DependencySpec{Rev: "abc123"})
	require.NoError(t, err)
	require.Equal(t, "abc123", string(rev))
	require.Equal(t, "abc123", descriptor)

	rev, descriptor, err = gitRevisionFromSpec(&driver.DependencySpec{Tag: "v1.0.0"})
	require.NoError(t, err)
	require.Equal(t, "refs/tags/v1.0.0", string(rev))
	require.Equal(t, "v1.0.0", descriptor)

	rev, descriptor, err = gitRevisionFromSpec(&driver.DependencySpec{Branch: "main"})
	require.NoError(t, err)
	require.Equal(t, "refs/heads/main", string(rev))
	require.Equal(t, "main", descriptor)

	_, _, err = gitRevisionFromSpec(&driver.DependencySpec{})
	require.Error(t, err)
}

func TestGitPinnedVersion(t *testing.T) {
	require.Equal(t, "v1.0.0@abc", gitPinnedVersion("v1.0.0", "abc"))
	require.Equal(t, "abc", gitPinnedVersion("", "abc"))
	require.Equal(t, "abc", gitPinnedVersion("abc", "abc"))
	require.Equal(t, "v1.0.0", gitPinnedVersion("v1.0.0", ""))
}

func TestSanitizePathSegment(t *testing.T) {
	require.Equal(t, "v1.0.0", sanitizePathSegment("v1.0.0"))
	require.Equal(t, "feature_x", sanitizePathSegment("feature/x"))
	require.Equal(t, "head", sanitizePathSegment(""))
}

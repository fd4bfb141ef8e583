package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "devcontainerctl/internal/errors"
	runtimePkg "devcontainerctl/pkg/runtime"
)

// MockLauncher records every subprocess the orchestrator asks for
type MockLauncher struct {
	*mock.Mock
}

func NewMockLauncher() *MockLauncher {
	return &MockLauncher{Mock: &mock.Mock{}}
}

func (m *MockLauncher) Launch(ctx context.Context, name string, args ...string) (*runtimePkg.Result, error) {
	callArgs := m.Called(ctx, name, args)
	result, _ := callArgs.Get(0).(*runtimePkg.Result)
	return result, callArgs.Error(1)
}

func (m *MockLauncher) expectDocker() {
	m.On("Launch", mock.Anything, "docker", []string{"--version"}).Return(&runtimePkg.Result{Stdout: "Docker version 27.0.1\n"}, nil)
}

func (m *MockLauncher) expectNoRuntime() {
	notFound := &runtimePkg.LaunchError{Name: "docker", Err: errors.New("executable file not found in $PATH")}
	m.On("Launch", mock.Anything, "docker", []string{"--version"}).Return(nil, notFound)
	m.On("Launch", mock.Anything, "podman", []string{"--version"}).Return(nil, notFound)
}

func writeProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".devcontainer", "devcontainer.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(config), 0644))
	return dir
}

func demoRunArgs(projectDir string) []string {
	return []string{
		"run", "-d", "--name", "zed-devcontainer-demo",
		"--mount", "type=bind,source=" + projectDir + ",target=/workspace",
		"-p", "80:80",
		"alpine:latest",
		"sleep", "infinity",
	}
}

func TestOpen_Success(t *testing.T) {
	projectDir := writeProject(t, `{"name":"demo","image":"alpine:latest","forwardPorts":[80]}`)

	launcher := NewMockLauncher()
	launcher.expectDocker()
	launcher.On("Launch", mock.Anything, "docker", demoRunArgs(projectDir)).Return(&runtimePkg.Result{Stdout: "4f2a\n"}, nil).Once()

	report, err := New(launcher, "").Open(context.Background(), []string{projectDir})
	require.NoError(t, err)

	assert.Equal(t, LabelOpen, report.Label)
	assert.Contains(t, report.Text, "Opening devcontainer for project: "+projectDir)
	assert.Contains(t, report.Text, "Container runtime: docker")
	assert.Contains(t, report.Text, "Devcontainer name: demo")
	assert.Contains(t, report.Text, "Using image: alpine:latest")
	assert.Contains(t, report.Text, "Container created: zed-devcontainer-demo")
	assert.Contains(t, report.Text, `ProxyCommand="docker exec -i zed-devcontainer-demo sh"`)
	assert.NotContains(t, report.Text, "Warning:")
	assert.Empty(t, report.Warnings)

	launcher.AssertExpectations(t)
	launcher.AssertNotCalled(t, "Launch", mock.Anything, "docker", mock.MatchedBy(func(args []string) bool {
		return len(args) > 0 && args[0] == "exec"
	}))
}

func TestOpen_PostCreateFailureIsWarning(t *testing.T) {
	projectDir := writeProject(t, `{"name":"demo","image":"alpine:latest","forwardPorts":[80],"postCreateCommand":"false"}`)

	launcher := NewMockLauncher()
	launcher.expectDocker()
	launcher.On("Launch", mock.Anything, "docker", demoRunArgs(projectDir)).Return(&runtimePkg.Result{}, nil).Once()
	launcher.On("Launch", mock.Anything, "docker", []string{"exec", "zed-devcontainer-demo", "sh", "-c", "false"}).
		Return(&runtimePkg.Result{ExitCode: 1}, nil).Once()

	report, err := New(launcher, "").Open(context.Background(), []string{projectDir})
	require.NoError(t, err)

	var warningLine string
	for _, line := range strings.Split(report.Text, "\n") {
		if strings.HasPrefix(line, "Warning:") {
			warningLine = line
		}
	}
	assert.True(t, strings.HasPrefix(warningLine, "Warning: Post-create command failed"), "report was:\n%s", report.Text)
	assert.Contains(t, report.Text, "Container is ready!")
	require.Len(t, report.Warnings, 1)
	launcher.AssertExpectations(t)
}

func TestOpen_PostCreateArgsHook(t *testing.T) {
	projectDir := writeProject(t, `{"name":"demo","image":"alpine:latest","forwardPorts":[80],"postCreateCommand":["echo","hi"]}`)

	launcher := NewMockLauncher()
	launcher.expectDocker()
	launcher.On("Launch", mock.Anything, "docker", demoRunArgs(projectDir)).Return(&runtimePkg.Result{}, nil).Once()
	launcher.On("Launch", mock.Anything, "docker", []string{"exec", "zed-devcontainer-demo", "sh", "-c", "echo hi"}).
		Return(&runtimePkg.Result{Stdout: "hi\n"}, nil).Once()

	report, err := New(launcher, "").Open(context.Background(), []string{projectDir})
	require.NoError(t, err)
	assert.NotContains(t, report.Text, "Warning:")
	launcher.AssertExpectations(t)
}

func TestOpen_Failures(t *testing.T) {
	tests := []struct {
		name          string
		args          func(t *testing.T) []string
		setupMock     func(*MockLauncher, []string)
		expectedType  error
		expectedError string
	}{
		{
			name:          "missing argument",
			args:          func(t *testing.T) []string { return nil },
			setupMock:     func(m *MockLauncher, _ []string) {},
			expectedType:  apperrors.ErrMissingArgument,
			expectedError: "Please provide a project path",
		},
		{
			name:          "no configuration",
			args:          func(t *testing.T) []string { return []string{t.TempDir()} },
			setupMock:     func(m *MockLauncher, _ []string) {},
			expectedType:  apperrors.ErrConfigNotFound,
			expectedError: "No devcontainer.json found in project",
		},
		{
			name: "no runtime",
			args: func(t *testing.T) []string {
				return []string{writeProject(t, `{"image":"alpine"}`)}
			},
			setupMock:     func(m *MockLauncher, _ []string) { m.expectNoRuntime() },
			expectedType:  apperrors.ErrNoRuntime,
			expectedError: "Neither docker nor podman found. Please install a container runtime.",
		},
		{
			name: "dockerfile only",
			args: func(t *testing.T) []string {
				return []string{writeProject(t, `{"dockerfile":"Dockerfile"}`)}
			},
			setupMock:    func(m *MockLauncher, _ []string) { m.expectDocker() },
			expectedType: apperrors.ErrUnsupportedBuildSource,
		},
		{
			name: "create rejected by runtime",
			args: func(t *testing.T) []string {
				return []string{writeProject(t, `{"name":"demo","image":"alpine:latest","forwardPorts":[80]}`)}
			},
			setupMock: func(m *MockLauncher, args []string) {
				m.expectDocker()
				m.On("Launch", mock.Anything, "docker", demoRunArgs(args[0])).
					Return(&runtimePkg.Result{ExitCode: 125, Stderr: "Conflict. The container name is already in use\n"}, nil)
			},
			expectedType:  apperrors.ErrCreateFailed,
			expectedError: "Failed to create container: Conflict. The container name is already in use",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args(t)
			launcher := NewMockLauncher()
			tt.setupMock(launcher, args)

			report, err := New(launcher, "").Open(context.Background(), args)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, errors.Is(err, tt.expectedType), "unexpected error: %v", err)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, err.Error())
			}
			launcher.AssertExpectations(t)
		})
	}
}

func TestOpen_ConfigCheckedBeforeRuntime(t *testing.T) {
	launcher := NewMockLauncher()

	_, err := New(launcher, "").Open(context.Background(), []string{t.TempDir()})
	require.Error(t, err)
	launcher.AssertNotCalled(t, "Launch", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpen_ReportsGitBranch(t *testing.T) {
	projectDir := writeProject(t, `{"name":"demo","image":"alpine:latest","forwardPorts":[80]}`)

	repo, err := git.PlainInit(projectDir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(".devcontainer/devcontainer.json")
	require.NoError(t, err)
	_, err = worktree.Commit("add devcontainer", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	launcher := NewMockLauncher()
	launcher.expectDocker()
	launcher.On("Launch", mock.Anything, "docker", demoRunArgs(projectDir)).Return(&runtimePkg.Result{}, nil).Once()

	report, err := New(launcher, "").Open(context.Background(), []string{projectDir})
	require.NoError(t, err)
	assert.Contains(t, report.Text, "Git branch: master")
}

func TestRebuild(t *testing.T) {
	projectDir := writeProject(t, `{
		"name": "My App",
		"image": "node:20",
		"postCreateCommand": "npm ci",
		"postAttachCommand": ["echo", "attached"]
	}`)

	launcher := NewMockLauncher()
	launcher.expectDocker()

	report, err := New(launcher, "").Rebuild(context.Background(), projectDir)
	require.NoError(t, err)

	assert.Equal(t, LabelRebuild, report.Label)
	assert.True(t, strings.HasPrefix(report.Text, "Rebuilding devcontainer...\n"))
	assert.Contains(t, report.Text, "Container name: zed-devcontainer-My-App")
	assert.Contains(t, report.Text, "postCreateCommand (shell)")
	assert.Contains(t, report.Text, "postAttachCommand (args)")
	assert.Contains(t, report.Text, "1. Stop the current container")
	assert.Contains(t, report.Text, "Note: Manual rebuild is required.")

	// Only the version probe: rebuild never creates, stops or removes.
	launcher.AssertNumberOfCalls(t, "Launch", 1)
}

func TestRebuild_NestedProjectInRepository(t *testing.T) {
	repoDir := t.TempDir()
	_, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)

	nested := filepath.Join(repoDir, "services", "api")
	nestedConfig := filepath.Join(nested, ".devcontainer", "devcontainer.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(nestedConfig), 0755))
	require.NoError(t, os.WriteFile(nestedConfig, []byte(`{"name":"api","image":"golang:1.24"}`), 0644))

	t.Run("repository root without configuration", func(t *testing.T) {
		launcher := NewMockLauncher()
		launcher.expectDocker()

		report, err := New(launcher, "").Rebuild(context.Background(), nested)
		require.NoError(t, err)
		assert.Contains(t, report.Text, "Worktree: "+nested+"\n")
		assert.Contains(t, report.Text, "Git branch: master")
		assert.Contains(t, report.Text, "Container name: zed-devcontainer-api")
	})

	t.Run("repository root with a different configuration", func(t *testing.T) {
		rootConfig := filepath.Join(repoDir, ".devcontainer.json")
		require.NoError(t, os.WriteFile(rootConfig, []byte(`{"name":"monorepo","dockerfile":"Dockerfile"}`), 0644))

		launcher := NewMockLauncher()
		launcher.expectDocker()

		report, err := New(launcher, "").Rebuild(context.Background(), nested)
		require.NoError(t, err)
		assert.Contains(t, report.Text, "Container name: zed-devcontainer-api")
		assert.NotContains(t, report.Text, "monorepo")
	})
}

func TestRebuild_Failures(t *testing.T) {
	_, err := New(NewMockLauncher(), "").Rebuild(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingArgument))
	assert.Equal(t, "No worktree available", err.Error())

	_, err = New(NewMockLauncher(), "").Rebuild(context.Background(), t.TempDir())
	assert.True(t, errors.Is(err, apperrors.ErrConfigNotFound))

	launcher := NewMockLauncher()
	launcher.expectNoRuntime()
	_, err = New(launcher, "").Rebuild(context.Background(), writeProject(t, `{"image":"alpine"}`))
	assert.True(t, errors.Is(err, apperrors.ErrNoRuntime))
}

func TestAttach(t *testing.T) {
	inspect := []string{"inspect", "--format", "{{.State.Running}}", "abc123"}
	start := []string{"start", "abc123"}

	t.Run("stopped container is started", func(t *testing.T) {
		launcher := NewMockLauncher()
		launcher.expectDocker()
		launcher.On("Launch", mock.Anything, "docker", inspect).Return(&runtimePkg.Result{Stdout: "false\n"}, nil).Once()
		launcher.On("Launch", mock.Anything, "docker", start).Return(&runtimePkg.Result{Stdout: "abc123\n"}, nil).Once()

		report, err := New(launcher, "").Attach(context.Background(), []string{"abc123"})
		require.NoError(t, err)

		assert.Equal(t, LabelAttach, report.Label)
		assert.Contains(t, report.Text, "Container: abc123\nStatus: Stopped\n")
		assert.Contains(t, report.Text, "Container is not running. Starting it...\nContainer started.\n")
		launcher.AssertExpectations(t)
	})

	t.Run("running container is left alone", func(t *testing.T) {
		launcher := NewMockLauncher()
		launcher.expectDocker()
		launcher.On("Launch", mock.Anything, "docker", inspect).Return(&runtimePkg.Result{Stdout: "true"}, nil).Once()

		report, err := New(launcher, "").Attach(context.Background(), []string{"abc123"})
		require.NoError(t, err)

		assert.Contains(t, report.Text, "Status: Running")
		assert.NotContains(t, report.Text, "Starting it")
		launcher.AssertNotCalled(t, "Launch", mock.Anything, "docker", start)
	})

	t.Run("start failure aborts", func(t *testing.T) {
		launcher := NewMockLauncher()
		launcher.expectDocker()
		launcher.On("Launch", mock.Anything, "docker", inspect).Return(&runtimePkg.Result{Stdout: ""}, nil).Once()
		launcher.On("Launch", mock.Anything, "docker", start).Return(&runtimePkg.Result{ExitCode: 1, Stderr: "Error: No such container: abc123"}, nil).Once()

		_, err := New(launcher, "").Attach(context.Background(), []string{"abc123"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrStartFailed))
	})

	t.Run("missing argument", func(t *testing.T) {
		launcher := NewMockLauncher()
		_, err := New(launcher, "").Attach(context.Background(), []string{})
		require.Error(t, err)
		assert.Equal(t, "Please provide a container name or ID", err.Error())
		launcher.AssertNotCalled(t, "Launch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("arguments joined into one identity", func(t *testing.T) {
		launcher := NewMockLauncher()
		launcher.expectDocker()
		launcher.On("Launch", mock.Anything, "docker", []string{"inspect", "--format", "{{.State.Running}}", "my box"}).
			Return(&runtimePkg.Result{Stdout: "true\n"}, nil).Once()

		report, err := New(launcher, "").Attach(context.Background(), []string{"my", "box"})
		require.NoError(t, err)
		assert.Contains(t, report.Text, "Container: my box")
	})
}

func TestCompleteAttachArgument(t *testing.T) {
	launcher := NewMockLauncher()
	launcher.On("Launch", mock.Anything, "podman", []string{"--version"}).Return(&runtimePkg.Result{}, nil)
	launcher.On("Launch", mock.Anything, "podman", []string{"ps", "--format", "{{.ID}}|{{.Names}}"}).
		Return(&runtimePkg.Result{Stdout: "abc123|mycontainer\nbad-line\nxyz789|other\n"}, nil).Once()

	completions, err := New(launcher, "podman").CompleteAttachArgument(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []Completion{
		{Label: "mycontainer (abc123)", NewText: "abc123", RunCommand: true},
		{Label: "other (xyz789)", NewText: "xyz789", RunCommand: true},
	}, completions)
}

func TestCompleteAttachArgument_NoRuntime(t *testing.T) {
	launcher := NewMockLauncher()
	launcher.expectNoRuntime()

	_, err := New(launcher, "").CompleteAttachArgument(context.Background(), nil)
	assert.True(t, errors.Is(err, apperrors.ErrNoRuntime))
}

func TestOperationState(t *testing.T) {
	a := newState(OperationOpen, "/p")
	b := newState(OperationOpen, "/p")

	assert.NotEqual(t, a.OperationID, b.OperationID)
	assert.Len(t, a.OperationID, 36)
	assert.Equal(t, runtimePkg.Runtime(""), a.runtimeName())
	assert.Empty(t, a.LastSuccessfulStage)
}

package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/shirou/gopsutil/v4/cpu"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

const (
	iniFileMode = 0o644
	// outputTailLines is how much captured build output a failure carries.
	outputTailLines = 40
)

// Runner executes one build step inside dir.
type Runner func(ctx context.Context, dir string, verbose bool, name string, args ...string) error

// ExecSourceBuilder drives the autotools build of a php source tree:
// buildconf, configure and make install.
type ExecSourceBuilder struct {
	configureFlags []string
	run            Runner
	jobs           func(ctx context.Context) int
}

// NewExecSourceBuilder creates a builder that runs the native toolchain.
func NewExecSourceBuilder(settings *entities.Settings) repositories.SourceBuilder {
	return NewExecSourceBuilderWithRunner(settings, runCommand, countCPUs)
}

// NewExecSourceBuilderWithRunner creates a builder with a custom step runner
// and job count.
func NewExecSourceBuilderWithRunner(
	settings *entities.Settings,
	run Runner,
	jobs func(ctx context.Context) int,
) *ExecSourceBuilder {
	return &ExecSourceBuilder{
		configureFlags: append([]string(nil), settings.ConfigureFlags...),
		run:            run,
		jobs:           jobs,
	}
}

// Build configures the sources with the dist directory as prefix and
// installs into it.
func (b *ExecSourceBuilder) Build(
	ctx context.Context,
	installation entities.Installation,
	opts entities.BuildOptions,
) error {
	configure := append([]string{"--prefix", installation.DistDir()}, b.configureFlags...)
	if opts.Dev {
		configure = append(configure, "--enable-debug")
	}

	steps := []struct {
		name string
		args []string
	}{
		{name: "sh", args: []string{"buildconf", "--force"}},
		{name: "./configure", args: configure},
		{name: "make", args: []string{"install", "-j" + strconv.Itoa(b.jobs(ctx))}},
	}

	for _, step := range steps {
		logger.Infof("Running %s %s", step.name, strings.Join(step.args, " "))
		if err := b.run(ctx, installation.Path, opts.Verbose, step.name, step.args...); err != nil {
			return fmt.Errorf("%s failed: %w", step.name, err)
		}
	}
	return nil
}

// SetupIni installs the php.ini template matching the build flavor. An
// existing php.ini is kept and a missing template is not an error.
func (b *ExecSourceBuilder) SetupIni(installation entities.Installation, dev bool) error {
	fs := osfs.New(installation.Path)

	template := "php.ini-production"
	if dev {
		template = "php.ini-development"
	}
	target := filepath.Join("dist", "lib", "php.ini")

	if _, err := fs.Stat(target); err == nil {
		logger.Infof("Keeping existing %q", installation.IniFile())
		return nil
	}
	content, err := util.ReadFile(fs, template)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warnf("No %s template in %q, skipping php.ini", template, installation.Path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", template, err)
	}

	if err = util.WriteFile(fs, target, content, iniFileMode); err != nil {
		return fmt.Errorf("failed to write %q: %w", installation.IniFile(), err)
	}
	logger.Infof("Installed %s as %q", template, installation.IniFile())
	return nil
}

func runCommand(ctx context.Context, dir string, verbose bool, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	if verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w\nOutput:\n%s", err, tail(string(output), outputTailLines))
	}
	return nil
}

func tail(output string, lines int) string {
	split := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(split) > lines {
		split = split[len(split)-lines:]
	}
	return strings.Join(split, "\n")
}

func countCPUs(ctx context.Context) int {
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}
	return count
}

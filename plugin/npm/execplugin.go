package npm

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/gencraft/gencraft/errors"
	"github.com/gencraft/gencraft/plugin"
)

// ExecPlugin is a generator plugin backed by a child process: the
// command a package manifest declares, run with structured options
// mapped to command-line flags.
type ExecPlugin struct {
	name    string
	version string
	dir     string
	command string
	schema  map[string]plugin.SchemaField
	logger  *zap.SugaredLogger
}

var (
	_ plugin.Plugin         = (*ExecPlugin)(nil)
	_ plugin.Validator      = (*ExecPlugin)(nil)
	_ plugin.SchemaProvider = (*ExecPlugin)(nil)
)

// NewExecPlugin creates an exec-backed plugin. dir is the working
// directory for the command (the package or manifest directory).
func NewExecPlugin(name, version, dir, command string, schema map[string]plugin.SchemaField, logger *zap.SugaredLogger) *ExecPlugin {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ExecPlugin{
		name:    name,
		version: version,
		dir:     dir,
		command: command,
		schema:  schema,
		logger:  logger,
	}
}

func (p *ExecPlugin) Name() string { return p.name }

// Version returns the manifest version, empty when unknown.
func (p *ExecPlugin) Version() string { return p.version }

// Dir returns the directory the plugin was loaded from.
func (p *ExecPlugin) Dir() string { return p.dir }

// Generate runs the backend command with the options mapped to flags.
func (p *ExecPlugin) Generate(ctx context.Context, opts plugin.GenerateOptions) error {
	words, err := shellquote.Split(p.command)
	if err != nil {
		return errors.Wrapf(err, "malformed run command for generator %q", p.name)
	}
	if len(words) == 0 {
		return errors.Newf("empty run command for generator %q", p.name)
	}

	args := append(words[1:], p.buildArgs(opts)...)

	cmd := exec.CommandContext(ctx, words[0], args...)
	cmd.Dir = p.dir
	cmd.Stdout = &lineWriter{logger: p.logger, plugin: p.name, level: "info"}
	cmd.Stderr = &lineWriter{logger: p.logger, plugin: p.name, level: "error"}

	p.logger.Debugw("Running generator", "plugin", p.name, "command", words[0], "args", args)

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "generator %q failed", p.name)
	}
	return nil
}

// Validate checks required schema fields are present before any work
// happens.
func (p *ExecPlugin) Validate(ctx context.Context, opts plugin.GenerateOptions) error {
	for _, field := range sortedFieldNames(p.schema) {
		spec := p.schema[field]
		if !spec.Required {
			continue
		}
		if _, ok := opts.Options[field]; ok {
			continue
		}
		if coveredByBuiltinFlag(field, opts) {
			continue
		}
		return plugin.NewValidationError(p.name, field, "required option is missing")
	}
	return nil
}

// Schema returns a copy of the plugin's option schema.
func (p *ExecPlugin) Schema() map[string]plugin.SchemaField {
	out := make(map[string]plugin.SchemaField, len(p.schema))
	for k, v := range p.schema {
		out[k] = v
	}
	return out
}

// buildArgs maps the structured options to flags: well-known context
// first, then backend-specific options in sorted order for deterministic
// command lines.
func (p *ExecPlugin) buildArgs(opts plugin.GenerateOptions) []string {
	var args []string
	if opts.InputSpec != "" {
		args = append(args, "--input", opts.InputSpec)
	}
	if opts.OutputDir != "" {
		args = append(args, "--output", opts.OutputDir)
	}
	if opts.Project != "" {
		args = append(args, "--project", opts.Project)
	}
	for _, key := range sortedOptionNames(opts.Options) {
		args = append(args, "--"+key, fmt.Sprint(opts.Options[key]))
	}
	return args
}

// coveredByBuiltinFlag maps reserved option names onto the structured
// GenerateOptions fields.
func coveredByBuiltinFlag(field string, opts plugin.GenerateOptions) bool {
	switch field {
	case "input":
		return opts.InputSpec != ""
	case "output":
		return opts.OutputDir != ""
	case "project":
		return opts.Project != ""
	default:
		return false
	}
}

func sortedFieldNames(schema map[string]plugin.SchemaField) []string {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedOptionNames(options map[string]any) []string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lineWriter forwards child-process output to the logger line by line.
type lineWriter struct {
	logger *zap.SugaredLogger
	plugin string
	level  string
	buf    strings.Builder
}

func (w *lineWriter) Write(p []byte) (n int, err error) {
	w.buf.Write(p)
	for {
		line, rest, found := strings.Cut(w.buf.String(), "\n")
		if !found {
			break
		}
		w.buf.Reset()
		w.buf.WriteString(rest)

		if line = strings.TrimSpace(line); line != "" {
			if w.level == "error" {
				w.logger.Errorw("Generator output", "plugin", w.plugin, "message", line)
			} else {
				w.logger.Infow("Generator output", "plugin", w.plugin, "message", line)
			}
		}
	}
	return len(p), nil
}

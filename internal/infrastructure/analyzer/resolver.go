package analyzer

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"printlab/pkg/errors"
	"printlab/pkg/logger"
)

// scriptTable maps a lowercase file extension to its analyzer script.
var scriptTable = map[string]string{
	"step": "analyze_step.py",
	"stp":  "analyze_step.py",
	"stl":  "analyze_stl.py",
	"dxf":  "analyze_dxf.py",
	"dwg":  "analyze_dxf.py",
	"ai":   "analyze_vector.py",
	"eps":  "analyze_vector.py",
}

// typeTable maps the extension to the analyzer type tag stored on results.
var typeTable = map[string]string{
	"step": "step",
	"stp":  "step",
	"stl":  "stl",
	"dxf":  "dxf",
	"dwg":  "dxf",
	"ai":   "vector",
	"eps":  "vector",
}

type ResolverConfig struct {
	AnalyzerDir   string
	RuntimePrefix string
	VenvPath      string
}

// Resolver selects the analyzer script for a file extension and locates a
// usable Python interpreter. All paths come from the injected config so tests
// can substitute fakes.
type Resolver struct {
	cfg ResolverConfig
}

func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

type Analyzer struct {
	Type        string
	ScriptPath  string
	Interpreter string
}

// Resolve returns the analyzer program and interpreter for the extension.
func (r *Resolver) Resolve(extension string) (*Analyzer, error) {
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))

	script, ok := scriptTable[ext]
	if !ok {
		return nil, errors.UnsupportedFileType(ext)
	}

	interpreter, err := r.resolveInterpreter()
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		Type:        typeTable[ext],
		ScriptPath:  filepath.Join(r.cfg.AnalyzerDir, script),
		Interpreter: interpreter,
	}, nil
}

// resolveInterpreter tries candidate locations in order: the environment
// runtime prefix (conda), the project-local venv, then the system PATH.
// Pinned runtimes come first for reproducibility across deployment hosts.
func (r *Resolver) resolveInterpreter() (string, error) {
	var candidates []string
	if r.cfg.RuntimePrefix != "" {
		candidates = append(candidates, filepath.Join(r.cfg.RuntimePrefix, "bin", "python3"))
	}
	if r.cfg.VenvPath != "" {
		candidates = append(candidates, filepath.Join(r.cfg.VenvPath, "bin", "python3"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			logger.Debug("Resolved interpreter: %s", candidate)
			return candidate, nil
		}
	}

	if path, err := exec.LookPath("python3"); err == nil {
		logger.Debug("Resolved system interpreter: %s", path)
		return path, nil
	}

	return "", errors.RuntimeNotFound("no python3 interpreter found in runtime prefix, venv, or system PATH")
}

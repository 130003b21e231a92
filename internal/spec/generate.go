package spec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/jsdoc2swagger/internal/annotation"
	"github.com/mark3labs/jsdoc2swagger/internal/discover"
)

// Options configures a Generate run.
type Options struct {
	// Definition seeds the document. RawDefinition is the same in decoded
	// YAML/JSON form; it is used when Definition is nil and is also scanned
	// for deprecated property names.
	Definition    *Document
	RawDefinition map[string]any

	// Files are glob patterns relative to BaseDir. Matches ending in .yaml,
	// .yml or .json are read as raw fragments; anything else is scanned for
	// comment blocks.
	Files   []string
	BaseDir string
	Exclude []string

	// Validate runs the document through the validator once assembled.
	// Failures are logged and the document is still returned.
	Validate bool

	Logger logrus.FieldLogger
}

// Generate discovers the configured files, translates every comment block
// and raw fragment, and folds the results into one document. Configuration
// problems fail before any file is read. A block that fails to translate is
// logged and skipped.
func Generate(ctx context.Context, opts Options) (*Document, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	seed := opts.Definition
	if seed == nil {
		decoded, err := DecodeDefinition(opts.RawDefinition)
		if err != nil {
			return nil, err
		}
		seed = decoded
	}

	files, err := discover.Files(opts.BaseDir, opts.Files, opts.Exclude)
	if err != nil {
		return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve files: %v", err), Location: opts.BaseDir, Cause: err}
	}
	log.WithField("count", len(files)).Debug("files discovered")

	doc := NewDocument(seed)
	raws := []any{}
	if opts.RawDefinition != nil {
		raws = append(raws, opts.RawDefinition)
	} else if opts.Definition != nil {
		raws = append(raws, opts.Definition)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", file, err), Location: file, Cause: err}
		}
		flog := log.WithField("file", file)

		if isFragmentFile(file) {
			var raw map[string]any
			if err := yaml.Unmarshal(content, &raw); err != nil {
				flog.WithError(err).Warn("unreadable fragment file, skipped")
				continue
			}
			frag, err := DecodeFragment(raw)
			if err != nil {
				flog.WithError(err).Warn("invalid fragment file, skipped")
				continue
			}
			raws = append(raws, raw)
			addFragment(doc, frag, flog)
			continue
		}

		for _, block := range annotation.Filter(annotation.Extract(string(content))) {
			frag, err := formatBlockSafe(block)
			if err != nil {
				flog.WithFields(logrus.Fields{
					"line":    block.Line,
					"comment": block.Raw,
				}).WithError(err).Warn("incorrect comment format, operation was not documented")
				continue
			}
			addFragment(doc, frag, flog.WithField("line", block.Line))
		}
	}

	for _, name := range FindDeprecated(raws...) {
		log.WithField("property", name).Warnf("deprecated property %q, use %q", name, NormalizeKey(name))
	}

	if opts.Validate {
		if err := Validate(ctx, doc); err != nil {
			entry := log.WithError(err)
			if se, ok := err.(*SpecError); ok && se.JSONPointer != "" {
				entry = entry.WithField("pointer", se.JSONPointer)
			}
			entry.Warn("generated document does not validate")
		}
	}
	return doc, nil
}

func checkOptions(opts Options) error {
	switch {
	case opts.Definition == nil && opts.RawDefinition == nil:
		return &SpecError{Code: InputError, Message: "'swaggerDefinition' is required."}
	case len(opts.Files) == 0:
		return &SpecError{Code: InputError, Message: "'files' is required."}
	case strings.TrimSpace(opts.BaseDir) == "":
		return &SpecError{Code: InputError, Message: "'basedir' is required."}
	}
	return nil
}

func addFragment(doc *Document, frag *Fragment, log logrus.FieldLogger) {
	for _, title := range frag.Unrecognized {
		log.WithField("tag", title).Debug("unrecognized tag ignored")
	}
	for _, key := range doc.AddData(frag) {
		log.WithField("key", key).Debug("already defined, first definition kept")
	}
}

// formatBlockSafe runs FormatBlock and turns a panic into an error so one
// bad block never aborts the run.
func formatBlockSafe(block annotation.Block) (frag *Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return FormatBlock(block)
}

func isFragmentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

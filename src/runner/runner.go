package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masnyjimmy/campaign-validator/src/validation"
)

var ErrContentDirNotFound = errors.New("content directory not found")

const separator = "========================================"

type Options struct {
	SchemaPath    string
	ContentDir    string
	SchemaOptions []validation.Option
}

// Runner performs one sequential validation run and prints its progress.
type Runner struct {
	options Options
	out     io.Writer
}

func New(out io.Writer, options Options) *Runner {
	return &Runner{
		options: options,
		out:     out,
	}
}

// Run validates every *.json file of the content directory. The returned
// error is non-nil only for fatal prerequisites (schema, content directory);
// per-file failures are recorded in the report.
func (r *Runner) Run() (*Report, error) {
	report := &Report{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
		Files:     make([]FileResult, 0),
	}

	r.printf("🔍 Campaign JSON Validator\n")
	r.printf("%s\n", separator)

	schema, err := validation.LoadSchema(r.options.SchemaPath, r.options.SchemaOptions...)
	if err != nil {
		r.printf("❌ Error: %s\n", describeSchemaError(r.options.SchemaPath, err))
		report.Fatal = err.Error()
		return report, err
	}

	r.printf("✅ Schema loaded successfully\n")

	files, err := r.discover()
	if err != nil {
		r.printf("❌ Error: %s/ directory not found\n", r.contentName())
		report.Fatal = err.Error()
		return report, err
	}

	if len(files) == 0 {
		r.printf("⚠️  Warning: No JSON files found in %s/ directory\n", r.contentName())
		return report, nil
	}

	r.printf("📁 Found %d JSON file(s) to validate\n\n", len(files))

	for _, file := range files {
		name := filepath.Base(file)
		r.printf("🔄 Validating %s...\n", name)

		result := schema.ValidateFile(file)
		report.add(name, result)

		if result.Valid() {
			r.printf("  ✅ Valid\n")
		} else {
			r.printf("  ❌ Invalid: %s\n", result.Message())
		}
		r.printf("\n")
	}

	r.printSummary(report.Summary)

	return report, nil
}

// discover lists regular *.json files directly inside the content directory,
// in lexicographic order. A content path that exists but is not a directory
// holds no files.
func (r *Runner) discover() ([]string, error) {
	info, err := os.Stat(r.options.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentDirNotFound, r.options.ContentDir)
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(r.options.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentDirNotFound, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(r.options.ContentDir, entry.Name()))
	}

	slices.Sort(files)

	return files, nil
}

func (r *Runner) printSummary(summary Summary) {
	r.printf("%s\n", separator)
	r.printf("📊 Summary:\n")
	r.printf("  ✅ Valid files: %d\n", summary.Valid)
	r.printf("  ❌ Invalid files: %d\n", summary.Invalid)
	r.printf("  📄 Total files: %d\n", summary.Total)

	if summary.Invalid > 0 {
		r.printf("\n⚠️  %d file(s) failed validation\n", summary.Invalid)
	} else {
		r.printf("\n🎉 All files are valid!\n")
	}
}

func (r *Runner) contentName() string {
	return strings.TrimSuffix(filepath.ToSlash(r.options.ContentDir), "/")
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func describeSchemaError(path string, err error) string {
	var notFound *validation.NotFoundError
	var parseErr *validation.ParseError

	switch {
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Invalid JSON in %s - %s (line %d, column %d)", path, parseErr.Msg, parseErr.Line, parseErr.Column)
	default:
		return err.Error()
	}
}

// ExitCode maps the outcome of Run to the process exit status.
func ExitCode(report *Report, err error) int {
	if err != nil {
		return 1
	}
	if report != nil && report.Summary.Invalid > 0 {
		return 1
	}
	return 0
}

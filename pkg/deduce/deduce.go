// Package deduce de-identifies Dutch clinical text. It runs the configured
// annotators over a document, resolves their annotations into a
// non-overlapping set and replaces each span with a numbered placeholder.
package deduce

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/deduce/internal/logger"
	"github.com/cognicore/deduce/pkg/deduce/annotate"
	"github.com/cognicore/deduce/pkg/deduce/config"
	"github.com/cognicore/deduce/pkg/deduce/document"
	"github.com/cognicore/deduce/pkg/deduce/ingest"
	"github.com/cognicore/deduce/pkg/deduce/redact"
	"github.com/cognicore/deduce/pkg/deduce/store"
)

// ExpansionStep names the context expansion in Result.Skipped.
const ExpansionStep = "context_expansion"

// Deduce is the de-identification engine facade. It is safe for
// concurrent use: all components are read-only after New.
type Deduce struct {
	comp   *config.Components
	store  store.Store
	log    *logger.Logger
	strict bool
}

// Options configures a Deduce instance.
type Options struct {
	// Config is used as is. When nil, ConfigPath is loaded, and when that is
	// empty too the built-in configuration is used.
	Config     *config.File
	ConfigPath string
	// Store is optional. Its lists extend the configured dictionaries and
	// every processed document is recorded in its audit trail.
	Store  store.Store
	Logger *logger.Logger
	// Strict makes the first annotator failure fail the document. The
	// configuration can enable strict mode as well.
	Strict bool
}

// New loads the configuration and builds every component.
func New(ctx context.Context, opts Options) (*Deduce, error) {
	loader := &config.Loader{
		Path:   opts.ConfigPath,
		File:   opts.Config,
		Logger: opts.Logger,
	}
	if opts.Store != nil {
		loader.Lists = opts.Store
	}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Deduce{
		comp:   comp,
		store:  opts.Store,
		log:    opts.Logger.Module("deduce"),
		strict: opts.Strict || comp.Strict,
	}, nil
}

// Close closes the store, if any.
func (d *Deduce) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// Components returns the built pipeline components.
func (d *Deduce) Components() *config.Components {
	return d.comp
}

// Result is the outcome of processing one document.
type Result struct {
	DocID       string
	Text        string
	Annotations []document.Annotation // sorted, non-overlapping
	Redacted    string
	// Skipped lists the annotators, and possibly ExpansionStep, whose
	// output was left out because they failed. Empty unless the engine
	// runs in degraded mode.
	Skipped []string
}

// Degraded reports whether parts of the pipeline were skipped.
func (r Result) Degraded() bool { return len(r.Skipped) > 0 }

// Inline returns the text with every annotation wrapped as <TAG>text</TAG>.
func (r Result) Inline() string {
	return redact.Inline(r.Text, r.Annotations)
}

// TagCounts returns the number of annotations per tag.
func (r Result) TagCounts() map[string]int {
	counts := make(map[string]int)
	for _, a := range r.Annotations {
		counts[a.Tag]++
	}
	return counts
}

// Annotate processes text. person is optional patient metadata.
func (d *Deduce) Annotate(ctx context.Context, text string, person *document.Person) (Result, error) {
	if err := ingest.ValidateText(text); err != nil {
		return Result{}, err
	}
	doc := document.New(text, d.comp.Tokenizer.Tokenize(text), person)
	res := Result{DocID: doc.ID.String(), Text: text}

	names, err := d.runAll(ctx, doc, d.comp.Names.Annotators(), &res)
	if err != nil {
		return Result{}, err
	}
	expanded, err := d.comp.Expander.Expand(doc, document.NewAnnotationSet(names...))
	if err != nil {
		if d.strict {
			return Result{}, err
		}
		d.log.Warnf("expand", "document %s: %v; using unexpanded names", res.DocID, err)
		res.Skipped = append(res.Skipped, ExpansionStep)
		expanded = document.NewAnnotationSet(names...)
	}
	all := d.comp.Persons.Convert(expanded)

	others, err := d.runAll(ctx, doc, d.comp.Annotators, &res)
	if err != nil {
		return Result{}, err
	}
	all.Add(others...)

	final := d.comp.Merger.Merge(text, d.comp.Resolver.Resolve(all))
	res.Annotations = final.Sorted()
	res.Redacted = d.comp.Redactor.Redact(text, res.Annotations)

	if err := d.record(ctx, doc, res); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Deidentify processes text and returns only the redacted text.
func (d *Deduce) Deidentify(ctx context.Context, text string, person *document.Person) (string, error) {
	res, err := d.Annotate(ctx, text, person)
	if err != nil {
		return "", err
	}
	return res.Redacted, nil
}

// AnnotateHTML extracts the visible text of an HTML document and processes
// it. Offsets in the result refer to the extracted text.
func (d *Deduce) AnnotateHTML(ctx context.Context, r io.Reader, person *document.Person) (Result, error) {
	text, err := ingest.ExtractText(r)
	if err != nil {
		return Result{}, fmt.Errorf("extract html text: %w", err)
	}
	return d.Annotate(ctx, text, person)
}

// runAll runs annotators in order. A failing annotator aborts the document
// in strict mode; otherwise its output is dropped and its name recorded in
// res.Skipped.
func (d *Deduce) runAll(ctx context.Context, doc *document.Document, annotators []annotate.Annotator, res *Result) ([]document.Annotation, error) {
	var out []document.Annotation
	for _, a := range annotators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		anns, err := a.Annotate(doc)
		if err != nil {
			if d.strict {
				return nil, fmt.Errorf("annotator %s: %w", a.Name(), err)
			}
			d.log.Warnf("annotate", "document %s: annotator %s failed, output omitted: %v", res.DocID, a.Name(), err)
			res.Skipped = append(res.Skipped, a.Name())
			continue
		}
		out = append(out, anns...)
	}
	return out, nil
}

// record writes the audit entry. Only tag counts are stored.
func (d *Deduce) record(ctx context.Context, doc *document.Document, res Result) error {
	if d.store == nil {
		return nil
	}
	run := store.Run{
		DocID:     res.DocID,
		CreatedAt: ulid.Time(doc.ID.Time()),
		TagCounts: res.TagCounts(),
		Skipped:   res.Skipped,
	}
	if err := d.store.RecordRun(ctx, run); err != nil {
		if d.strict || errors.Is(err, context.Canceled) {
			return fmt.Errorf("record run: %w", err)
		}
		d.log.Warnf("audit", "document %s: %v", res.DocID, err)
	}
	return nil
}

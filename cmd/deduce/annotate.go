package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/deduce/pkg/deduce"
	"github.com/cognicore/deduce/pkg/deduce/document"
)

// inputFlags select the input document and the patient metadata.
type inputFlags struct {
	html       bool
	firstNames string
	initials   string
	surname    string
	givenName  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.html, "html", false, "input is HTML; annotate its visible text")
	cmd.Flags().StringVar(&f.firstNames, "first-names", "", "patient first names, space separated")
	cmd.Flags().StringVar(&f.initials, "initials", "", "patient initials")
	cmd.Flags().StringVar(&f.surname, "surname", "", "patient surname")
	cmd.Flags().StringVar(&f.givenName, "given-name", "", "patient given name")
}

func (f *inputFlags) person() *document.Person {
	return document.PersonFromKeywords(f.firstNames, f.initials, f.surname, f.givenName)
}

// openInput returns the named file, or stdin for "" and "-".
func openInput(args []string, stdin io.Reader) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(args[0])
}

func process(cmd *cobra.Command, g *globalFlags, in *inputFlags, args []string) (deduce.Result, error) {
	ctx := cmd.Context()
	engine, cleanup, err := buildEngine(ctx, g)
	if err != nil {
		return deduce.Result{}, err
	}
	defer cleanup()

	r, err := openInput(args, cmd.InOrStdin())
	if err != nil {
		return deduce.Result{}, err
	}
	defer r.Close()

	if in.html {
		return engine.AnnotateHTML(ctx, r, in.person())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return deduce.Result{}, err
	}
	return engine.Annotate(ctx, string(data), in.person())
}

type annotationJSON struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
}

type resultJSON struct {
	DocID       string           `json:"doc_id"`
	Annotations []annotationJSON `json:"annotations"`
	Redacted    string           `json:"redacted"`
	Skipped     []string         `json:"skipped,omitempty"`
}

func toJSON(res deduce.Result) resultJSON {
	out := resultJSON{
		DocID:       res.DocID,
		Annotations: make([]annotationJSON, len(res.Annotations)),
		Redacted:    res.Redacted,
		Skipped:     res.Skipped,
	}
	for i, a := range res.Annotations {
		out.Annotations[i] = annotationJSON{Text: a.Text, Start: a.StartChar, End: a.EndChar, Tag: a.Tag}
	}
	return out
}

func newAnnotateCmd(g *globalFlags) *cobra.Command {
	in := &inputFlags{}
	var format string
	cmd := &cobra.Command{
		Use:   "annotate [file]",
		Short: "Print the annotations of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := process(cmd, g, in, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(toJSON(res))
			case "inline":
				_, err := fmt.Fprintln(w, res.Inline())
				return err
			case "text":
				for _, a := range res.Annotations {
					fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", a.StartChar, a.EndChar, a.Tag, a.Text)
				}
				return nil
			}
			return fmt.Errorf("unknown format %q (want json, inline or text)", format)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, inline, text")
	return cmd
}

func newRedactCmd(g *globalFlags) *cobra.Command {
	in := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "redact [file]",
		Short: "Print a document with identifying spans replaced by placeholders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := process(cmd, g, in, args)
			if err != nil {
				return err
			}
			if res.Degraded() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s\n", strings.Join(res.Skipped, ", "))
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), res.Redacted)
			return err
		},
	}
	in.register(cmd)
	return cmd
}

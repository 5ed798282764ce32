package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/artdeco"
)

// TargetOptions select and analyze a Go function.
type TargetOptions struct {
	Dir      string
	Resolved bool
	Receiver bool
	Defaults []string // name=value, value in YAML
}

func (o *TargetOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Dir, "dir", "C", "", "directory to load the package from")
	cmd.Flags().BoolVar(&o.Resolved, "resolved", false, "resolve parameter types with the type checker")
	cmd.Flags().BoolVar(&o.Receiver, "receiver", false, "include a method's receiver as the first parameter")
	cmd.Flags().StringArrayVar(&o.Defaults, "default", nil, "parameter default as name=value (repeatable)")
}

// ParamView is the JSON form of a parameter.
type ParamView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Type    string `json:"type,omitempty"`
	Default any    `json:"default,omitempty"`
}

// SignatureView is the JSON form of a signature.
type SignatureView struct {
	Name   string      `json:"name"`
	Text   string      `json:"text"`
	Params []ParamView `json:"params"`
}

func viewSignature(sig *artdeco.Signature) SignatureView {
	v := SignatureView{Name: sig.Name(), Text: sig.String(), Params: make([]ParamView, 0, sig.Len())}
	for _, p := range sig.Params() {
		pv := ParamView{Name: p.Name, Kind: p.Kind.String()}
		if a, ok := p.Annotation.Get(); ok {
			pv.Type = fmt.Sprint(a)
		}
		if d, ok := p.Default.Get(); ok {
			pv.Default = d
		}
		v.Params = append(v.Params, pv)
	}
	return v
}

// NewSigCommand creates the sig command.
func NewSigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TargetOptions{}

	cmd := &cobra.Command{
		Use:   "sig <package> <func>",
		Short: "Print the parameter signature of a Go function",
		Long: `Print the parameter signature of a function or method declared in a Go package.

Methods are named Type.Method. A leading context.Context is skipped, a final
variadic parameter collects extra positional values and a final artdeco.Kwargs
parameter collects extra keyword values.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			sig, err := analyzeTarget(cmd.Context(), f, opts, args[0], args[1])
			if err != nil {
				return err
			}
			return f.Success(sig.String(), viewSignature(sig))
		},
	}
	opts.register(cmd)

	return cmd
}

// analyzeTarget loads the function and reports failures through f.
func analyzeTarget(ctx context.Context, f *OutputFormatter, opts *TargetOptions, pattern, name string) (*artdeco.Signature, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defaults, err := parseAssignments(opts.Defaults)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeValue, "invalid --default", err)
	}

	srcOpts := []artdeco.SourceOption{artdeco.InDir(opts.Dir), artdeco.WithDefaults(defaults.Map())}
	if opts.Receiver {
		srcOpts = append(srcOpts, artdeco.IncludeReceiver())
	}
	target := artdeco.FromSource(pattern, name, srcOpts...)
	if _, err := target.Decls(); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeLoad, "cannot load "+name, err)
	}

	policy := artdeco.RawTypes
	if opts.Resolved {
		policy = artdeco.ResolvedTypes
	}
	f.VerboseLog("analyzing %s in %s (%s types)", name, pattern, policy)

	sig, err := artdeco.Analyze(ctx, target, policy)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeAnalyze, "cannot analyze "+name, err)
	}
	return sig, nil
}

// parseValue decodes a command line value as a YAML scalar or flow collection.
// Text that is not valid YAML is kept as a string.
func parseValue(text string) any {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	return v
}

// splitAssignment splits name=value. Names follow Go identifier rules.
func splitAssignment(token string) (string, string, bool) {
	name, value, ok := strings.Cut(token, "=")
	if !ok || !isIdent(name) {
		return "", "", false
	}
	return name, value, true
}

func parseAssignments(tokens []string) (artdeco.Kwargs, error) {
	var out artdeco.Kwargs
	for _, tok := range tokens {
		name, value, ok := splitAssignment(tok)
		if !ok {
			return nil, fmt.Errorf("%q is not name=value", tok)
		}
		out = out.Set(name, parseValue(value))
	}
	return out, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

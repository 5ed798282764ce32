package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/artdeco"
)

// ArgView is the JSON form of one bound argument.
type ArgView struct {
	Name    string `json:"name"`
	Value   any    `json:"value"`
	Keyword bool   `json:"keyword"`
	Param   string `json:"param"`
}

// BoundView is the JSON form of a bound call.
type BoundView struct {
	Signature string         `json:"signature"`
	Args      []ArgView      `json:"args"`
	Call      []any          `json:"call"`
	Kwargs    map[string]any `json:"kwargs,omitempty"`
}

func viewBound(b *artdeco.Bound) BoundView {
	v := BoundView{Signature: b.Signature().String(), Args: make([]ArgView, 0, b.Len())}
	for _, a := range b.Args() {
		v.Args = append(v.Args, ArgView{Name: a.Name, Value: a.Value, Keyword: a.Keyword, Param: a.Param.Name})
	}
	args, kwargs := b.Reconstruct()
	v.Call = append([]any{}, args...)
	if len(kwargs) > 0 {
		v.Kwargs = kwargs.Map()
	}
	return v
}

// NewBindCommand creates the bind command.
func NewBindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TargetOptions{}

	cmd := &cobra.Command{
		Use:   "bind <package> <func> [values...]",
		Short: "Bind command line values to a Go function's parameters",
		Long: `Bind values to the parameters of a Go function and print the bound call.

Values are decoded as YAML, so 3 is an int and "[1, 2]" a list. A value
written name=value is passed by keyword.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			sig, err := analyzeTarget(cmd.Context(), f, opts, args[0], args[1])
			if err != nil {
				return err
			}

			positional, kwargs := splitValues(args[2:])
			f.VerboseLog("binding %d positional and %d keyword values", len(positional), len(kwargs))

			b, err := artdeco.Bind(sig, positional, kwargs)
			if err != nil {
				var arity *artdeco.ArityError
				if errors.As(err, &arity) {
					if outErr := f.Error(ErrCodeBind, err.Error(), arity.Names); outErr != nil {
						return outErr
					}
					return WrapExitError(ExitFailure, "cannot bind "+args[1], err)
				}
				return f.Fail(ExitFailure, ErrCodeBind, "cannot bind "+args[1], err)
			}
			return f.Success(strings.TrimSuffix(b.String(), "\n"), viewBound(b))
		},
	}
	opts.register(cmd)

	return cmd
}

// splitValues separates name=value keyword tokens from positional ones.
func splitValues(tokens []string) ([]any, artdeco.Kwargs) {
	var (
		args   []any
		kwargs artdeco.Kwargs
	)
	for _, tok := range tokens {
		if name, value, ok := splitAssignment(tok); ok {
			kwargs = append(kwargs, artdeco.KW(name, parseValue(value)))
			continue
		}
		args = append(args, parseValue(tok))
	}
	return args, kwargs
}

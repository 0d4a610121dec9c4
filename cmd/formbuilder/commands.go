package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/page"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

func (a *app) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered input types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := formbuilder.NewStore(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDEFAULT\tVALIDATE\tOPTIONAL FIELDS")
			for _, typ := range store.InputTypes() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					typ.ID,
					typ.DisplayName,
					dash(typ.Default()),
					dash(typ.Meta(templates.MetaValidate)),
					dash(strings.Join(typ.OptionalFields, ", ")),
				)
			}
			return w.Flush()
		},
	}
}

type buildOptions struct {
	input       string
	adds        []string
	interactive bool
	output      string
	html        string
	title       string
}

func (a *app) buildCommand() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compose a form and print its state",
		Long: `build restores an optional saved state, adds the inputs named by --add,
optionally walks through the interactive setup panel and prints the
resulting state as JSON.

--add takes TYPE[:NAME[=VALUE]], for example --add number:Age=30.`,
		Example: `  formbuilder build --add text:Title --add number:Age=30
  formbuilder build --input state.json --interactive --html form.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBuild(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "saved state to restore (\"-\" reads stdin)")
	flags.StringArrayVarP(&opts.adds, "add", "a", nil, "add an input, TYPE[:NAME[=VALUE]] (repeatable)")
	flags.BoolVar(&opts.interactive, "interactive", false, "add inputs through terminal prompts")
	flags.StringVarP(&opts.output, "output", "o", "", "write the state to a file (stdout if empty)")
	flags.StringVar(&opts.html, "html", "", "also write the composed form as an HTML page")
	flags.StringVar(&opts.title, "title", "", "page title for --html")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, opts buildOptions) error {
	ctx := cmd.Context()
	b, err := a.builder(ctx, cmd)
	if err != nil {
		return err
	}
	manager := b.Manager

	if opts.input != "" {
		state, err := a.readInput(opts.input)
		if err != nil {
			return err
		}
		if err := manager.Deserialize(state); err != nil {
			return err
		}
	}

	for _, arg := range opts.adds {
		typ, name, value, err := parseAdd(arg)
		if err != nil {
			return err
		}
		if _, err := manager.Create(typ, name, value, nil); err != nil {
			return fmt.Errorf("add %q: %w", arg, err)
		}
	}

	if opts.interactive {
		sessionOpts := []prompt.Option{prompt.WithLogger(a.logger)}
		if a.driver != nil {
			sessionOpts = append(sessionOpts, prompt.WithPromptDriver(a.driver))
		}
		session, err := prompt.New(manager, sessionOpts...)
		if err != nil {
			return err
		}
		if _, err := session.Run(ctx); err != nil {
			return err
		}
	}

	state, err := manager.Serialize()
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = b.Config.Output
	}
	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), state)
	} else {
		if err := os.WriteFile(output, []byte(state+"\n"), 0o644); err != nil {
			return fmt.Errorf("write state: %w", err)
		}
		a.logger.Info("state written", zap.String("path", output), zap.Int("inputs", manager.Len()))
	}

	if opts.html != "" {
		if opts.title != "" {
			b.Config.Title = opts.title
		}
		if err := writePage(b, opts.html); err != nil {
			return err
		}
		a.logger.Info("page written", zap.String("path", opts.html))
	}
	return nil
}

func writePage(b *formbuilder.Builder, path string) error {
	p, err := b.Page()
	if err != nil {
		return err
	}
	renderer, err := page.New()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	if _, err := renderer.Render(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseAdd splits TYPE[:NAME[=VALUE]]. A nil value means the type default.
func parseAdd(arg string) (typ, name string, value *string, err error) {
	arg = strings.TrimSpace(arg)
	typ, rest, hasName := strings.Cut(arg, ":")
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return "", "", nil, fmt.Errorf("add %q: type is required", arg)
	}
	if !hasName {
		return typ, "", nil, nil
	}
	name, raw, hasValue := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	if hasValue {
		value = &raw
	}
	return typ, name, value, nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

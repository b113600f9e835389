package cli

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/caseoracle/caseoracle/pkg/store"
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cases in the corpus",
	Long: `list prints one line per case: id, method, url, and description. The
--filter flag takes an expression evaluated against each case's fields;
spaced field names get camelCase aliases, so both responseStatus and the
field name itself are usable:

    caseoracle list --filter 'method == "POST" && responseStatus >= 400'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		set, err := store.Load(cfg, log)
		if err != nil {
			return err
		}

		var program *vm.Program
		if listFilter != "" {
			program, err = expr.Compile(listFilter, expr.AllowUndefinedVariables(), expr.AsBool())
			if err != nil {
				return fmt.Errorf("invalid filter expression: %w", err)
			}
		}

		for _, c := range set.Cases() {
			if program != nil {
				keep, err := expr.Run(program, filterEnv(c))
				if err != nil {
					return fmt.Errorf("evaluate filter for case %s: %w", c.ID(), err)
				}
				if keep != true {
					continue
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\t%s\n",
				c.ID(), c.Method(), c.URL(), c.Description())
		}
		return nil
	},
}

// filterEnv builds the expression environment for one case: every field under
// its own name, plus a camelCase alias for names containing spaces.
func filterEnv(c *testcase.Case) map[string]any {
	env := make(map[string]any, 2*len(c.Fields)+1)
	for name, value := range c.Fields {
		env[name] = value
		if alias := camelAlias(name); alias != name {
			env[alias] = value
		}
	}
	env["id"] = c.ID()
	return env
}

func camelAlias(name string) string {
	words := strings.Fields(name)
	if len(words) < 2 {
		return name
	}
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "expression selecting cases to list")
	rootCmd.AddCommand(listCmd)
}

package cmdline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// escapePrefix marks tokens that are taken literally as positional arguments
// or option values even though they start with a dash.
const escapePrefix = "-:"

const helpTemplate = `usage: {{.Use}}
{{if .Long}}
{{.Long | trimTrailingWhitespaces}}
{{end}}
Options
=======
{{.Flags.FlagUsages | trimTrailingWhitespaces}}
`

// Parser is the per-command option table. Options are collected in
// definition order and materialized onto a cobra command when parsing.
// Redefining a long name replaces the earlier option; reusing a shorthand
// moves the shorthand to the newer option.
type Parser struct {
	prog    string
	name    string
	syntax  string
	long    string
	options []*pflag.Flag
	escapes map[string]string
	cmd     *cobra.Command
}

var _ command.Parser = (*Parser)(nil)

// NewParser builds the option table for one command invocation.
func NewParser(prog, name, syntax, long string) *Parser {
	return &Parser{
		prog:    prog,
		name:    name,
		syntax:  syntax,
		long:    long,
		escapes: map[string]string{},
	}
}

func (p *Parser) Var(value pflag.Value, name, shorthand, usage string) {
	p.define(name, func(fs *pflag.FlagSet) { fs.VarP(value, name, shorthand, usage) })
}

func (p *Parser) BoolVar(target *bool, name, shorthand string, value bool, usage string) {
	p.define(name, func(fs *pflag.FlagSet) { fs.BoolVarP(target, name, shorthand, value, usage) })
}

func (p *Parser) StringVar(target *string, name, shorthand, value, usage string) {
	p.define(name, func(fs *pflag.FlagSet) { fs.StringVarP(target, name, shorthand, value, usage) })
}

func (p *Parser) IntVar(target *int, name, shorthand string, value int, usage string) {
	p.define(name, func(fs *pflag.FlagSet) { fs.IntVarP(target, name, shorthand, value, usage) })
}

func (p *Parser) StringArrayVar(target *[]string, name, shorthand string, value []string, usage string) {
	p.define(name, func(fs *pflag.FlagSet) { fs.StringArrayVarP(target, name, shorthand, value, usage) })
}

// define builds the flag on a scratch set so pflag owns value construction
// and defaults, then resolves it against the table.
func (p *Parser) define(name string, register func(fs *pflag.FlagSet)) {
	scratch := pflag.NewFlagSet(name, pflag.ContinueOnError)
	register(scratch)
	flag := scratch.Lookup(name)
	if flag == nil {
		return
	}
	kept := make([]*pflag.Flag, 0, len(p.options)+1)
	for _, old := range p.options {
		if old.Name == flag.Name {
			continue
		}
		if flag.Shorthand != "" && old.Shorthand == flag.Shorthand {
			old.Shorthand = ""
		}
		kept = append(kept, old)
	}
	p.options = append(kept, flag)
	p.cmd = nil
}

// Lookup returns the option currently registered under the long name.
func (p *Parser) Lookup(name string) *pflag.Flag {
	for _, flag := range p.options {
		if flag.Name == name {
			return flag
		}
	}
	return nil
}

// LookupShorthand returns the option that owns shorthand.
func (p *Parser) LookupShorthand(shorthand string) *pflag.Flag {
	for _, flag := range p.options {
		if shorthand != "" && flag.Shorthand == shorthand {
			return flag
		}
	}
	return nil
}

// Usage is the one-line usage string.
func (p *Parser) Usage() string {
	parts := []string{p.prog, p.name}
	if strings.TrimSpace(p.syntax) != "" {
		parts = append(parts, p.syntax)
	}
	return strings.Join(parts, " ")
}

// Parse applies tokens to the option table and returns the positional
// arguments. Unknown options stay in the positional arguments, in place,
// without consuming the token after them. Tokens starting with "-:" and
// negative numbers are never treated as options.
func (p *Parser) Parse(tokens []string) ([]string, error) {
	escaped := make([]string, len(tokens))
	for i, token := range tokens {
		if strings.HasPrefix(token, escapePrefix) || p.isNegativeNumber(token) {
			key := fmt.Sprintf("\x00escaped:%d", i)
			p.escapes[key] = token
			escaped[i] = key
			continue
		}
		escaped[i] = token
	}

	cmd := p.command()
	if err := cmd.ParseFlags(p.hideUnknown(escaped)); err != nil {
		return nil, err
	}
	positional := cmd.Flags().Args()
	out := make([]string, len(positional))
	for i, arg := range positional {
		out[i] = p.unescape(arg)
	}
	return out, nil
}

// hideUnknown hides unknown option tokens behind placeholders so pflag
// takes them as positional arguments, and restores escaped tokens consumed
// as option values since pflag takes the next token verbatim.
func (p *Parser) hideUnknown(tokens []string) (known []string) {
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if token == "--" {
			known = append(known, tokens[i:]...)
			break
		}
		if len(token) < 2 || token[0] != '-' {
			known = append(known, token)
			continue
		}
		flag, inline := p.resolveToken(token)
		if flag == nil {
			key := fmt.Sprintf("\x00unknown:%d", i)
			p.escapes[key] = token
			known = append(known, key)
			continue
		}
		known = append(known, token)
		if !inline && flag.NoOptDefVal == "" && i+1 < len(tokens) {
			i++
			known = append(known, p.unescape(tokens[i]))
		}
	}
	return known
}

// resolveToken finds the option an option token refers to and reports
// whether the token carries its value inline.
func (p *Parser) resolveToken(token string) (*pflag.Flag, bool) {
	if strings.HasPrefix(token, "--") {
		name, _, inline := strings.Cut(token[2:], "=")
		return p.Lookup(name), inline
	}
	return p.LookupShorthand(token[1:2]), len(token) > 2
}

func (p *Parser) isNegativeNumber(token string) bool {
	if len(token) < 2 || token[0] != '-' {
		return false
	}
	if _, err := strconv.ParseFloat(token, 64); err != nil {
		return false
	}
	for _, flag := range p.options {
		if flag.Shorthand != "" && flag.Shorthand[0] >= '0' && flag.Shorthand[0] <= '9' {
			return false
		}
	}
	return true
}

// Flags returns the flag set of the last Parse.
func (p *Parser) Flags() *pflag.FlagSet {
	return p.command().Flags()
}

// PrintHelp writes the full help text.
func (p *Parser) PrintHelp(w io.Writer) error {
	cmd := p.command()
	cmd.SetOut(w)
	return cmd.Help()
}

// Error writes a parser error in the usage-then-message layout.
func (p *Parser) Error(w io.Writer, message string) {
	fmt.Fprintf(w, "usage: %s\n%s: error: %s\n", p.Usage(), p.prog, message)
}

func (p *Parser) command() *cobra.Command {
	if p.cmd != nil {
		return p.cmd
	}
	cmd := &cobra.Command{
		Use:                   p.Usage(),
		Long:                  p.long,
		DisableFlagsInUseLine: true,
		SilenceErrors:         true,
		SilenceUsage:          true,
		FParseErrWhitelist:    cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	cmd.SetHelpTemplate(helpTemplate)
	fs := cmd.Flags()
	fs.SortFlags = false
	for _, flag := range p.options {
		clone := *flag
		fs.AddFlag(&clone)
	}
	p.cmd = cmd
	return cmd
}

func (p *Parser) unescape(token string) string {
	if original, ok := p.escapes[token]; ok {
		return original
	}
	return token
}

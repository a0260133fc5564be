package command

import "github.com/spf13/pflag"

// flagSetParser adapts a pflag.FlagSet to Parser for tests. It does not
// resolve conflicting definitions.
type flagSetParser struct {
	fs *pflag.FlagSet
}

func newFlagSetParser() *flagSetParser {
	return &flagSetParser{fs: pflag.NewFlagSet("test", pflag.ContinueOnError)}
}

func (p *flagSetParser) Var(value pflag.Value, name, shorthand, usage string) {
	p.fs.VarP(value, name, shorthand, usage)
}

func (p *flagSetParser) BoolVar(target *bool, name, shorthand string, value bool, usage string) {
	p.fs.BoolVarP(target, name, shorthand, value, usage)
}

func (p *flagSetParser) StringVar(target *string, name, shorthand, value, usage string) {
	p.fs.StringVarP(target, name, shorthand, value, usage)
}

func (p *flagSetParser) IntVar(target *int, name, shorthand string, value int, usage string) {
	p.fs.IntVarP(target, name, shorthand, value, usage)
}

func (p *flagSetParser) StringArrayVar(target *[]string, name, shorthand string, value []string, usage string) {
	p.fs.StringArrayVarP(target, name, shorthand, value, usage)
}

// Package cmdgen writes the compiled-in table of built-in commands. It loads
// every package under the built-in root, finds the named types whose pointer
// implements command.Command, and renders one registry.Definition per type.
package cmdgen

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"go/types"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/tools/go/packages"
)

const (
	commandPackage = "github.com/louisbranch/scrapectl/internal/command"
	defaultRoot    = "github.com/louisbranch/scrapectl/internal/commands"
)

// sentinels are complete Command implementations that only exist to be
// embedded.
var sentinels = map[string]bool{
	commandPackage + ".Base":          true,
	commandPackage + ".RunSpiderBase": true,
}

// Config holds configuration for one generator run.
type Config struct {
	// Dir is the module directory packages are loaded from.
	Dir string
	// Root is the import path prefix scanned for commands.
	Root string
	// Out is the generated file path, relative to Dir when not absolute.
	Out string
	// Package is the package clause of the generated file.
	Package string
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Root: defaultRoot, Out: "internal/commands/builtins_gen.go", Package: "commands"}
	fs.StringVar(&cfg.Dir, "dir", "", "module directory (defaults to locating go.mod)")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "import path prefix to scan")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "output file")
	fs.StringVar(&cfg.Package, "package", cfg.Package, "package name of the output file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Entry is one discovered command type.
type Entry struct {
	Package string
	Type    string
}

// Alias is the import name used for the entry package in generated code.
func (e Entry) Alias() string {
	base := path.Base(e.Package)
	var b strings.Builder
	for _, r := range base {
		if r == '_' || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String() + "cmd"
}

// Run discovers the commands and writes the generated file.
func Run(cfg Config, log io.Writer) error {
	if strings.TrimSpace(cfg.Root) == "" {
		return errors.New("root is required")
	}
	if strings.TrimSpace(cfg.Package) == "" {
		return errors.New("package is required")
	}
	dir, err := resolveDir(cfg.Dir)
	if err != nil {
		return err
	}
	entries, err := Discover(dir, cfg.Root)
	if err != nil {
		return err
	}
	src, err := Render(cfg.Package, entries)
	if err != nil {
		return err
	}
	out := cfg.Out
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if log != nil {
		fmt.Fprintf(log, "wrote %d commands to %s\n", len(entries), out)
	}
	return nil
}

// Discover loads the packages under root and returns their command types
// sorted by package and type name.
func Discover(dir, root string) ([]Entry, error) {
	root = strings.TrimSuffix(root, "/")
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports | packages.NeedDeps,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, root+"/...")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", root, err)
	}
	var loadErrs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("load %s: %s", root, strings.Join(loadErrs, "; "))
	}

	var entries []Entry
	for _, pkg := range pkgs {
		if pkg.PkgPath != root && !strings.HasPrefix(pkg.PkgPath, root+"/") {
			continue
		}
		entries = append(entries, commandTypes(pkg)...)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Package != entries[j].Package {
			return entries[i].Package < entries[j].Package
		}
		return entries[i].Type < entries[j].Type
	})
	return entries, nil
}

func commandTypes(pkg *packages.Package) []Entry {
	imported, ok := pkg.Imports[commandPackage]
	if !ok || imported.Types == nil || pkg.Types == nil {
		return nil
	}
	obj := imported.Types.Scope().Lookup("Command")
	if obj == nil {
		return nil
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil
	}

	var out []Entry
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() || !tn.Exported() {
			continue
		}
		if sentinels[pkg.PkgPath+"."+name] {
			continue
		}
		if _, isIface := tn.Type().Underlying().(*types.Interface); isIface {
			continue
		}
		if !types.Implements(types.NewPointer(tn.Type()), iface) {
			continue
		}
		out = append(out, Entry{Package: pkg.PkgPath, Type: name})
	}
	return out
}

var fileTemplate = template.Must(template.New("builtins").Parse(`// Code generated by cmdgen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/louisbranch/scrapectl/internal/command"
{{- range .Imports}}
	{{.Alias}} "{{.Package}}"
{{- end}}
	"github.com/louisbranch/scrapectl/internal/registry"
)

func init() {
	registry.Declare(
{{- range .Entries}}
		registry.Definition{
			Package: "{{.Package}}",
			Type:    "{{.Type}}",
			New:     func() command.Command { return &{{.Alias}}.{{.Type}}{} },
		},
{{- end}}
	)
}
`))

// Render returns the formatted generated file for entries.
func Render(pkgName string, entries []Entry) ([]byte, error) {
	seen := map[string]bool{}
	var imports []Entry
	aliases := map[string]string{}
	for _, e := range entries {
		if seen[e.Package] {
			continue
		}
		seen[e.Package] = true
		if other, taken := aliases[e.Alias()]; taken {
			return nil, fmt.Errorf("packages %s and %s share import alias %s", other, e.Package, e.Alias())
		}
		aliases[e.Alias()] = e.Package
		imports = append(imports, e)
	}

	var buf bytes.Buffer
	data := struct {
		Package string
		Imports []Entry
		Entries []Entry
	}{pkgName, imports, entries}
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Clean(dir), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working dir: %w", err)
	}
	return findModuleRoot(wd)
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found above %s", start)
}

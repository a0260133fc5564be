// Package settings implements the "settings" command, which prints resolved
// setting values.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/louisbranch/scrapectl/internal/command"
)

// Command prints one setting value.
type Command struct {
	command.Base

	get      string
	getBool  string
	getInt   string
	getFloat string
	getList  string
}

func (c *Command) DefaultSettings() map[string]any {
	return map[string]any{"LOG_ENABLED": false}
}

func (c *Command) Syntax() string { return "[options]" }

func (c *Command) ShortDesc() string { return "Get settings values" }

func (c *Command) AddOptions(p command.Parser, opts *command.Options) {
	c.Base.AddOptions(p, opts)
	p.StringVar(&c.get, "get", "", "", "print raw setting value")
	p.StringVar(&c.getBool, "getbool", "", "", "print setting value, interpreted as a boolean")
	p.StringVar(&c.getInt, "getint", "", "", "print setting value, interpreted as an integer")
	p.StringVar(&c.getFloat, "getfloat", "", "", "print setting value, interpreted as a float")
	p.StringVar(&c.getList, "getlist", "", "", "print setting value, interpreted as a list")
}

func (c *Command) Run(_ context.Context, _ []string, opts *command.Options) error {
	s := c.Settings
	var out string
	switch {
	case c.get != "":
		value, _ := s.Get(c.get)
		rendered, err := render(value)
		if err != nil {
			return err
		}
		out = rendered
	case c.getBool != "":
		v, err := s.GetBool(c.getBool)
		if err != nil {
			return err
		}
		out = strconv.FormatBool(v)
	case c.getInt != "":
		v, err := s.GetInt(c.getInt)
		if err != nil {
			return err
		}
		out = fmt.Sprint(v)
	case c.getFloat != "":
		v, err := s.GetFloat(c.getFloat)
		if err != nil {
			return err
		}
		out = fmt.Sprint(v)
	case c.getList != "":
		rendered, err := render(s.GetList(c.getList))
		if err != nil {
			return err
		}
		out = rendered
	default:
		return nil
	}
	_, err := fmt.Fprintln(opts.Stdout, out)
	return err
}

// render prints maps and lists as JSON and scalars as text.
func render(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case map[string]any, []any, []string:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode setting: %w", err)
		}
		return string(data), nil
	}
	return fmt.Sprint(value), nil
}

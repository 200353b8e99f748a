// Command sfv parses, validates and serializes HTTP structured field values.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/shcv/sfv"
	"github.com/shcv/sfv/sfvcache"
)

const version = "0.1.0"

// CLI defines the command-line interface for sfv.
var CLI struct {
	Verbose   bool  `short:"v" help:"Enable debug logging"`
	MaxInput  int   `name:"max-input" env:"SFV_MAX_INPUT" help:"Maximum bytes per field line (0 = unlimited)"`
	MaxMember int   `name:"max-members" env:"SFV_MAX_MEMBERS" help:"Maximum list or dictionary members (0 = unlimited)"`
	MaxParams int   `name:"max-params" env:"SFV_MAX_PARAMS" help:"Maximum parameters per item (0 = unlimited)"`
	MaxInner  int   `name:"max-inner" env:"SFV_MAX_INNER" help:"Maximum inner list members (0 = unlimited)"`
	CacheSize int64 `name:"cache-size" env:"SFV_CACHE_SIZE" help:"Cache parsed values up to this many input bytes (0 = off)"`

	Parse     ParseCmd     `cmd:"" help:"Parse field lines and print the native form"`
	Serialize SerializeCmd `cmd:"" help:"Serialize a native form read from stdin"`
	Canon     CanonCmd     `cmd:"" help:"Print the canonical form of field lines"`
	Validate  ValidateCmd  `cmd:"" help:"Check that field lines parse"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// FieldArgs are shared by commands that read field lines.
type FieldArgs struct {
	Type  string   `short:"t" enum:"item,list,dictionary" default:"list" help:"Field type (item, list, dictionary)"`
	Lines []string `arg:"" optional:"" help:"Field lines; read from stdin, one per line, when omitted"`
}

// ParseCmd prints the parsed value.
type ParseCmd struct {
	FieldArgs
	Format string `short:"f" enum:"json,yaml,dump" default:"json" help:"Output format (json, yaml, dump)"`
}

// SerializeCmd converts a native form into canonical text.
type SerializeCmd struct {
	Type  string `short:"t" enum:"item,list,dictionary" default:"list" help:"Field type (item, list, dictionary)"`
	Input string `short:"i" enum:"json,yaml" default:"json" help:"Input format (json, yaml)"`
}

// CanonCmd parses then re-serializes.
type CanonCmd struct {
	FieldArgs
}

// ValidateCmd only parses.
type ValidateCmd struct {
	FieldArgs
}

// VersionCmd prints the version.
type VersionCmd struct{}

type runtime struct {
	log    *logrus.Logger
	parser *sfv.Parser
	cache  *sfvcache.Parser
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sfv"),
		kong.Description("HTTP Structured Field Values tool"),
		kong.UsageOnError(),
	)

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if CLI.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := sfv.Config{
		MaxInputLength:      CLI.MaxInput,
		MaxMembers:          CLI.MaxMember,
		MaxParameters:       CLI.MaxParams,
		MaxInnerListMembers: CLI.MaxInner,
	}
	log.WithFields(logrus.Fields{
		"max_input":   cfg.MaxInputLength,
		"max_members": cfg.MaxMembers,
		"max_params":  cfg.MaxParameters,
		"max_inner":   cfg.MaxInnerListMembers,
	}).Debug("parser configured")

	rt := &runtime{log: log, parser: sfv.NewParser(cfg)}
	if CLI.CacheSize > 0 {
		ccfg := sfvcache.DefaultConfig()
		ccfg.MaxCost = CLI.CacheSize
		ccfg.Metrics = CLI.Verbose
		c, err := sfvcache.New(rt.parser, ccfg)
		if err != nil {
			log.WithError(err).Fatal("creating cache")
		}
		rt.cache = c
	}

	err := ctx.Run(rt)
	rt.close()
	if err != nil {
		log.WithError(err).Error(ctx.Command())
		os.Exit(1)
	}
}

// close releases the cache, logging its hit rate first.
func (rt *runtime) close() {
	if rt.cache == nil {
		return
	}
	hits, misses := rt.cache.Stats()
	rt.log.WithFields(logrus.Fields{"hits": hits, "misses": misses}).Debug("cache stats")
	rt.cache.Close()
	rt.cache = nil
}

// Run parses and prints the native form.
func (c *ParseCmd) Run(rt *runtime) error {
	v, err := rt.parseLines(c.Type, c.Lines)
	if err != nil {
		return err
	}
	switch c.Format {
	case "yaml":
		out, err := yaml.Marshal(sfv.ToNative(v))
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		fmt.Print(string(out))
	case "dump":
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(os.Stdout, v)
	default:
		out, err := json.MarshalIndent(sfv.ToNative(v), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}

// Run reads a native form from stdin and prints canonical text.
func (c *SerializeCmd) Run(rt *runtime) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var native any
	if c.Input == "yaml" {
		err = yaml.Unmarshal(data, &native)
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&native)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", c.Input, err)
	}
	rt.log.WithField("type", c.Type).Debug("serializing native value")

	var v sfv.FieldValue
	switch c.Type {
	case "item":
		v, err = sfv.ItemFromNative(native)
	case "dictionary":
		v, err = sfv.DictionaryFromNative(native)
	default:
		v, err = sfv.ListFromNative(native)
	}
	if err != nil {
		return err
	}
	out, err := sfv.MarshalString(v)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// Run prints the canonical form.
func (c *CanonCmd) Run(rt *runtime) error {
	v, err := rt.parseLines(c.Type, c.Lines)
	if err != nil {
		return err
	}
	out, err := sfv.MarshalString(v)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// Run reports whether the field lines parse.
func (c *ValidateCmd) Run(rt *runtime) error {
	if _, err := rt.parseLines(c.Type, c.Lines); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func (c *VersionCmd) Run(rt *runtime) error {
	fmt.Printf("sfv %s\n", version)
	return nil
}

// parseLines parses lines (or stdin) as one field of type typ. Several lines
// are combined as repeated field lines.
func (rt *runtime) parseLines(typ string, lines []string) (sfv.FieldValue, error) {
	if len(lines) == 0 {
		var err error
		lines, err = readLines(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	}
	rt.log.WithFields(logrus.Fields{"type": typ, "lines": len(lines)}).Debug("parsing field")

	switch typ {
	case "item":
		if len(lines) != 1 {
			return nil, fmt.Errorf("an item field takes exactly one line, got %d", len(lines))
		}
		if rt.cache != nil {
			return rt.cache.ParseItem([]byte(lines[0]))
		}
		return rt.parser.ParseItem([]byte(lines[0]))
	case "dictionary":
		if rt.cache != nil && len(lines) == 1 {
			return rt.cache.ParseDictionary([]byte(lines[0]))
		}
		return rt.parser.ParseDictionaryLines(lines...)
	default:
		if rt.cache != nil && len(lines) == 1 {
			return rt.cache.ParseList([]byte(lines[0]))
		}
		return rt.parser.ParseListLines(lines...)
	}
}

// readLines splits r into lines without their terminators.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}

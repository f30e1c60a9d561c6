// abp2dnr is a command-line tool that reads Adblock-Plus-style filter list
// text and writes the equivalent declarativeNetRequest rules as a JSON array.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/jessevdk/go-flags"
	"github.com/kzar/abp2dnr"
	"github.com/kzar/abp2dnr/filterlist"
)

// Options -- console arguments
type Options struct {
	// Verbose - should we write debug-level log
	Verbose bool `short:"v" long:"verbose" description:"Verbose output (optional)." optional:"yes" optional-value:"true"`

	// LogOutput - path to the log file
	LogOutput string `short:"o" long:"output" description:"Path to the log file. If not set, it writes to stderr." default:""`

	// FirstID - the ID assigned to the first rule
	FirstID int `short:"i" long:"first-id" description:"ID assigned to the first generated rule." default:"1"`

	// Compress - enable the hostname-rule merging pass
	Compress bool `short:"z" long:"compress" description:"Merge hostname-only rules that share everything else into single rules." optional:"yes" optional-value:"true"`

	// FilterLists - paths to the filter lists
	FilterLists []string `short:"f" long:"filter" description:"Path to a filter list. Can be specified multiple times. Reads stdin when not set."`
}

func main() {
	var options Options
	parser := flags.NewParser(&options, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
	}

	os.Exit(run(options))
}

func run(options Options) (exitCode int) {
	logOutput := os.Stderr
	if options.LogOutput != "" {
		// nolint: gosec
		file, err := os.OpenFile(options.LogOutput, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot create a log file: %s\n", err)

			return 1
		}
		defer file.Close() //nolint
		logOutput = file
	}

	lvl := slog.LevelInfo
	if options.Verbose {
		lvl = slog.LevelDebug
	}

	logger := slogutil.New(&slogutil.Config{
		Output: logOutput,
		Format: slogutil.FormatDefault,
		Level:  lvl,
	})

	ruleset := abp2dnr.NewRuleset(&abp2dnr.Config{
		Logger:       logger,
		RegexChecker: abp2dnr.RE2Checker{},
	})

	if len(options.FilterLists) == 0 {
		err := convert(ruleset, os.Stdin, logger)
		if err != nil {
			logger.Error("converting stdin", slogutil.KeyError, err)

			return 1
		}
	}

	for _, path := range options.FilterLists {
		err := convertFile(ruleset, path, logger)
		if err != nil {
			logger.Error("converting filter list", "path", path, slogutil.KeyError, err)

			return 1
		}
	}

	out, err := ruleset.Finalize(options.FirstID, options.Compress)
	if err != nil {
		logger.Error("finalizing ruleset", slogutil.KeyError, err)

		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err = enc.Encode(out)
	if err != nil {
		logger.Error("writing rules", slogutil.KeyError, err)

		return 1
	}

	logger.Info("conversion done", "rules", len(out))

	return 0
}

// convertFile feeds one filter list file into the ruleset.
func convertFile(ruleset *abp2dnr.Ruleset, path string, logger *slog.Logger) (err error) {
	// nolint: gosec
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close() //nolint

	return convert(ruleset, file, logger)
}

// convert feeds filter list text into the ruleset.
func convert(ruleset *abp2dnr.Ruleset, reader io.Reader, logger *slog.Logger) (err error) {
	scanner := filterlist.NewRuleScanner(reader)
	for scanner.Scan() {
		rule, lineNo := scanner.Rule()

		added, handled, err := ruleset.AddFilter(rule)
		if err != nil {
			return err
		}

		if !handled {
			logger.Debug("filter produced no rules", "line", lineNo, "text", rule.Text())
		} else if added > 0 {
			logger.Debug("filter converted", "line", lineNo, "rules", added)
		}
	}

	return scanner.Err()
}

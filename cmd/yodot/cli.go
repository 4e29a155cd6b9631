package main

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/akorchak/yodot/internal/api"
	"github.com/akorchak/yodot/internal/config"
	"github.com/akorchak/yodot/internal/dictpack"
	"github.com/akorchak/yodot/internal/errors"
	"github.com/akorchak/yodot/internal/interact"
	"github.com/akorchak/yodot/internal/ops"
	"github.com/akorchak/yodot/internal/pipeline"
	"github.com/akorchak/yodot/internal/restore"
	"github.com/akorchak/yodot/internal/runlog"
	"github.com/akorchak/yodot/internal/yobase"
)

// maxInputBytes caps text read for a single run, matching the API body limit.
const maxInputBytes = 10 << 20

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "yodot",
		Usage:   "Restore the letter ё in Russian text",
		Version: Version,
		Commands: []*cli.Command{
			applyCmd(database, cfg, baseDir),
			reviewCmd(database, cfg, baseDir),
			wordsCmd(cfg, baseDir),
			historyCmd(database, cfg),
			dictCmd(cfg, baseDir),
			serveCmd(database, cfg, baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// applyCmd creates the apply command.
func applyCmd(database *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Restore ё for certain words only, no questions asked",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "Read text from FILE instead of stdin"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write result to FILE instead of stdout"},
			&cli.BoolFlag{Name: "markdown", Usage: "Treat input as CommonMark; code and raw HTML stay untouched"},
		},
		Action: func(c *cli.Context) error {
			tables, err := loadTables(cfg, baseDir)
			if err != nil {
				return outputError(err)
			}

			inPath := c.String("in")
			if inPath == "" && isTerminal() {
				return outputError(errors.NewInvalidRequest("no input: pass -i FILE or pipe text on stdin"))
			}

			text, err := readInput(inPath)
			if err != nil {
				return outputError(err)
			}

			pipe := pipeline.New(tables, cfg)
			start := time.Now()

			var (
				out   string
				count int
			)
			if c.Bool("markdown") {
				out, count, err = pipe.ApplySureMarkdown(text)
			} else {
				out, count, err = pipe.ApplySure(text)
			}
			if err != nil {
				return outputError(err)
			}

			if err := writeOutput(c.String("out"), out); err != nil {
				return outputError(errors.NewInternal(err))
			}

			recordRun(database, runlog.ModeApply, text, out, restore.Summary{SureReplacements: count}, time.Since(start))
			return nil
		},
	}
}

// reviewCmd creates the review command.
func reviewCmd(database *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Restore certain words, then confirm each uncertain occurrence",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "Read text from FILE instead of stdin"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write result to FILE instead of stdout"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Accept every uncertain occurrence without prompting"},
			&cli.IntFlag{Name: "width", Usage: "Context window size in runes", DefaultText: "from config"},
			&cli.StringFlag{Name: "token", Usage: "Reply that confirms a replacement", DefaultText: "ё"},
		},
		Action: func(c *cli.Context) error {
			tables, err := loadTables(cfg, baseDir)
			if err != nil {
				return outputError(err)
			}

			inPath := c.String("in")
			if inPath == "" && isTerminal() {
				return outputError(errors.NewInvalidRequest("no input: pass -i FILE or pipe text on stdin"))
			}
			// Text on stdin leaves no stream for verdicts.
			if inPath == "" && !c.Bool("yes") {
				return outputError(errors.NewInvalidRequest("stdin carries the text: pass -i FILE to keep it free for verdicts, or --yes"))
			}

			text, err := readInput(inPath)
			if err != nil {
				return outputError(err)
			}

			runCfg := *cfg
			if c.IsSet("width") {
				runCfg.PrintWidth = c.Int("width")
			}
			token := cfg.AcceptToken
			if c.IsSet("token") {
				token = c.String("token")
			}

			color := cfg.ColorEnabled(isatty.IsTerminal(os.Stderr.Fd()))
			var decider restore.Decider = interact.AcceptAll{}
			if !c.Bool("yes") {
				decider = interact.NewTerminal(interact.TerminalOptions{
					In:      os.Stdin,
					Out:     os.Stderr,
					Token:   token,
					Color:   color,
					Columns: stderrColumns,
				})
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			pipe := pipeline.New(tables, &runCfg)
			start := time.Now()
			out, sum, rerr := pipe.Review(ctx, text, decider)

			if out != "" || rerr == nil {
				if werr := writeOutput(c.String("out"), out); werr != nil {
					return outputError(errors.NewInternal(werr))
				}
				recordRun(database, runlog.ModeReview, text, out, sum, time.Since(start))
			}

			if rerr != nil {
				switch {
				case stderrors.Is(rerr, context.Canceled):
					return cli.Exit("review interrupted; partial result kept", 1)
				case stderrors.Is(rerr, io.EOF):
					return cli.Exit("verdict stream ended early; partial result kept", 1)
				default:
					return outputError(rerr)
				}
			}

			if !c.Bool("yes") {
				interact.CompletionNotice(os.Stderr, color)
			}
			return nil
		},
	}
}

// wordsCmd creates the words command.
func wordsCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "words",
		Usage: "List dictionary words found in the text without changing it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "Read text from FILE instead of stdin"},
		},
		Action: func(c *cli.Context) error {
			tables, err := loadTables(cfg, baseDir)
			if err != nil {
				return outputError(err)
			}

			inPath := c.String("in")
			if inPath == "" && isTerminal() {
				return outputError(errors.NewInvalidRequest("no input: pass -i FILE or pipe text on stdin"))
			}

			text, err := readInput(inPath)
			if err != nil {
				return outputError(err)
			}

			sure, unsure := pipeline.New(tables, cfg).Candidates(text)
			return outputJSON(struct {
				Sure   []string `json:"sure"`
				Unsure []string `json:"unsure"`
			}{sure, unsure})
		},
	}
}

// historyCmd creates the history command.
func historyCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List journaled restoration runs, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum runs to return", DefaultText: "from config"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Runs to skip"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Filter by run mode: apply|review"},
		},
		Subcommands: []*cli.Command{
			historyPurgeCmd(database),
		},
		Action: func(c *cli.Context) error {
			limit := c.Int("limit")
			if limit == 0 {
				limit = cfg.HistoryLimit
			}

			output, err := ops.ListRuns(database, ops.ListRunsInput{
				Mode:   c.String("mode"),
				Limit:  limit,
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// historyPurgeCmd creates the history purge subcommand.
func historyPurgeCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete journaled runs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge runs older than N days (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeRunsInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.PurgeRuns(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// dictCmd creates the dict command group.
func dictCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "dict",
		Usage: "Inspect and bundle the word tables",
		Subcommands: []*cli.Command{
			dictStatsCmd(cfg, baseDir),
			dictPackCmd(cfg, baseDir),
			dictVerifyCmd(),
			dictUnpackCmd(cfg, baseDir),
		},
	}
}

// dictStatsCmd creates the dict stats subcommand.
func dictStatsCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show per-table entry counts and file sizes",
		Action: func(c *cli.Context) error {
			tables, err := loadTables(cfg, baseDir)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.DictStats(tables)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// dictPackCmd creates the dict pack subcommand.
func dictPackCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "pack",
		Usage: "Bundle the dictionary directory into a verifiable .tar.xz",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "Bundle file path"},
		},
		Action: func(c *cli.Context) error {
			outPath := c.String("out")

			manifest, err := dictpack.Pack(cfg.DictPath(baseDir), outPath)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(struct {
				Path     string             `json:"path"`
				Manifest *dictpack.Manifest `json:"manifest"`
			}{outPath, manifest})
		},
	}
}

// dictVerifyCmd creates the dict verify subcommand.
func dictVerifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check a bundle's integrity without extracting it",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("bundle path is required"))
			}

			manifest, err := dictpack.Verify(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(struct {
				Status   string             `json:"status"`
				Manifest *dictpack.Manifest `json:"manifest"`
			}{"ok", manifest})
		},
	}
}

// dictUnpackCmd creates the dict unpack subcommand.
func dictUnpackCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "Verify a bundle and extract it into the dictionary directory",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Destination directory", DefaultText: "configured dictionary directory"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("bundle path is required"))
			}

			dest := c.String("dir")
			if dest == "" {
				dest = cfg.DictPath(baseDir)
			}

			manifest, err := dictpack.Unpack(c.Args().First(), dest)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(struct {
				Dest  string `json:"dest"`
				Files int    `json:"files"`
			}{dest, len(manifest.Files)})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(database *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the restoration API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Value: "127.0.0.1:8080", Usage: "Listen address"},
		},
		Action: func(c *cli.Context) error {
			tables, err := loadTables(cfg, baseDir)
			if err != nil {
				return outputError(err)
			}

			srv := api.NewServer(database, tables, cfg, Version, c.String("addr"))
			if err := api.Run(srv); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// loadTables loads the word tables from the configured dictionary directory.
func loadTables(cfg *config.Config, baseDir string) (*yobase.Tables, error) {
	return yobase.LoadTables(cfg.DictPath(baseDir))
}

// readInput reads the text to restore from a file, or from stdin when path
// is empty. Input over maxInputBytes is rejected, not truncated.
func readInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.NewInvalidRequest(err.Error())
		}
		if len(data) > maxInputBytes {
			return "", errors.NewTextTooLarge(maxInputBytes)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxInputBytes+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if len(data) > maxInputBytes {
		return "", errors.NewTextTooLarge(maxInputBytes)
	}
	return string(data), nil
}

// writeOutput writes the restored text to a file, or to stdout when path is
// empty.
func writeOutput(path, text string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// recordRun journals a finished run. The journal is advisory: a failed insert
// warns on stderr and the command still succeeds.
func recordRun(database *sql.DB, mode, in, out string, sum restore.Summary, took time.Duration) {
	if database == nil {
		return
	}

	_, err := ops.RecordRun(database, ops.RecordRunInput{
		Mode:             mode,
		Source:           runlog.SourceCLI,
		CharsIn:          runlog.CountChars(in),
		CharsOut:         runlog.CountChars(out),
		SureReplacements: sum.SureReplacements,
		Offered:          sum.Offered,
		Accepted:         sum.Accepted,
		Declined:         sum.Declined,
		Duration:         took,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: record run: %v\n", err)
	}
}

// stderrColumns reports the terminal width of stderr, where prompts are
// drawn. Zero means unknown.
func stderrColumns() int {
	w, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatError renders an error for stderr. Errors that carry a Russian
// rendering print it on a second line; the missing-dictionary error shows
// its path in bold when stderr is a terminal.
func formatError(err error) string {
	var yErr *errors.YodotError
	if !stderrors.As(err, &yErr) {
		return err.Error()
	}
	msg := fmt.Sprintf("[%s] %s", yErr.Code, yErr.Message)
	if yErr.MessageRu != "" {
		msg += "\n" + yErr.MessageRu
	}
	if yErr.Code == errors.ErrMissingDictionary && isatty.IsTerminal(os.Stderr.Fd()) {
		if path, ok := yErr.Details["path"].(string); ok && path != "" {
			msg = strings.ReplaceAll(msg, path, "\033[1m"+path+"\033[0m")
		}
	}
	return msg
}

// outputError formats error for CLI.
func outputError(err error) error {
	return cli.Exit(formatError(err), 1)
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}

// Command gagyebu-report prints the merchant group report of a ledger export
// without starting the dashboard.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"gagyebu/internal/cache"
	"gagyebu/internal/core"
	"gagyebu/internal/groups"
	"gagyebu/internal/groups/memory"
	"gagyebu/internal/ledger/gsheet"
	applog "gagyebu/internal/log"
	"gagyebu/internal/services"
	"gagyebu/internal/sheets/google"
	"gagyebu/internal/storage"
)

type cliArgs struct {
	File        string   `help:"Ledger export to read (.xlsx or .csv)."`
	Spreadsheet string   `help:"Google spreadsheet id to read the ledger sheet from instead of --file."`
	Sheet       string   `default:"가계부 내역" help:"Workbook sheet holding the ledger."`
	Preset      string   `help:"Date range preset ending today: month or week."`
	Start       string   `help:"First date of the range (YYYY-MM-DD)."`
	End         string   `help:"Last date of the range (YYYY-MM-DD)."`
	Today       string   `help:"Reference date for presets (YYYY-MM-DD), defaults to today."`
	Credit      []string `help:"Payment methods counted as credit."`
	Debit       []string `help:"Payment methods counted as debit or cash."`
	Include     []string `help:"Payment methods to keep when no credit/debit split is given."`
	Groups      string   `help:"YAML file with merchant groups and excluded payment methods."`
	DB          string   `name:"db" help:"SQLite database holding merchant groups; overrides --groups."`
	JSON        bool     `name:"json" help:"Print the report as JSON."`
	Verbose     bool     `short:"v" help:"Log debug output to stderr."`
}

func main() {
	var args cliArgs
	ctx := kong.Parse(&args,
		kong.Name("gagyebu-report"),
		kong.Description("Summarise a Bank Salad ledger export by merchant group."),
	)
	err := run(context.Background(), args, os.Stdout, os.Stderr)
	ctx.FatalIfErrorf(err)
}

func run(ctx context.Context, args cliArgs, stdout, stderr io.Writer) error {
	lc := applog.DefaultConfig()
	lc.Output = stderr
	lc.Level = applog.ParseLevel("warn")
	if args.Verbose {
		lc.Level = applog.ParseLevel("debug")
	}
	logger := applog.New(lc)

	if (args.File == "") == (args.Spreadsheet == "") {
		return errors.New("exactly one of --file or --spreadsheet is required")
	}

	now := time.Now()
	if args.Today != "" {
		t, err := time.Parse(core.DateLayout, args.Today)
		if err != nil {
			return fmt.Errorf("invalid --today %q: %w", args.Today, err)
		}
		now = t
	}
	rng, err := resolveRange(args, now)
	if err != nil {
		return err
	}

	store, closeStore, err := openGroups(args)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := services.NewReportService(
		cache.NewLRUCache[*services.Session](1, time.Hour),
		store,
		services.WithSheetName(args.Sheet),
		services.WithLogger(logger),
	)

	sess, err := ingest(ctx, svc, args)
	if err != nil {
		return err
	}
	if sess.Message != "" {
		fmt.Fprintln(stderr, sess.Message)
	}

	rep, err := svc.Build(ctx, services.ReportRequest{
		SessionID: sess.ID,
		Range:     rng,
		Partition: core.PaymentMethodPartition{
			Credit:      groups.Dedupe(args.Credit),
			DebitOrCash: groups.Dedupe(args.Debit),
		},
		Include: groups.Dedupe(args.Include),
	})
	if err != nil {
		return err
	}

	if args.JSON {
		return writeJSON(stdout, rep)
	}
	return writeText(stdout, rep)
}

func ingest(ctx context.Context, svc *services.ReportService, args cliArgs) (*services.Session, error) {
	if args.Spreadsheet != "" {
		client, err := google.New(ctx, args.Spreadsheet)
		if err != nil {
			return nil, err
		}
		return svc.IngestReader(ctx, args.Sheet, gsheet.New(client, args.Sheet))
	}

	f, err := os.Open(args.File)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()
	return svc.Ingest(ctx, filepath.Base(args.File), f)
}

func resolveRange(args cliArgs, now time.Time) (core.DateRange, error) {
	if args.Start != "" || args.End != "" {
		if args.Start == "" || args.End == "" {
			return core.DateRange{}, errors.New("--start and --end must be given together")
		}
		rng := core.DateRange{Start: args.Start, End: args.End}
		return rng, rng.Validate()
	}
	preset := args.Preset
	if preset == "" {
		preset = string(core.PresetMonth)
	}
	p, err := core.ParsePreset(preset)
	if err != nil {
		return core.DateRange{}, err
	}
	return core.PresetRange(p, now)
}

func openGroups(args cliArgs) (groups.Reader, func(), error) {
	if args.DB != "" {
		repo, err := storage.NewSQLiteRepository(args.DB)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	}
	store, err := memory.NewFromFile(args.Groups)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func writeJSON(w io.Writer, rep *services.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*services.Report
		Lines []string `json:"lines"`
	}{rep, rep.Aggregate.Lines()})
}

func writeText(w io.Writer, rep *services.Report) error {
	fmt.Fprintf(w, "%s (%s)\n\n", rep.Range, rep.Filename)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "날짜\t내용\t금액\t대분류\t결제수단\t")
	for _, tx := range rep.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			tx.Date, tx.Merchant, core.FormatAmount(tx.Amount), tx.Category, tx.PaymentMethod)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n := len(rep.Skipped); n > 0 {
		fmt.Fprintf(w, "\n날짜 오류로 제외된 행: %d\n", n)
	}

	fmt.Fprintln(w)
	for _, line := range rep.Aggregate.Lines() {
		fmt.Fprintln(w, line)
	}
	return nil
}

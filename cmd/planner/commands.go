package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/noah-isme/course-planner/internal/catalog"
	"github.com/noah-isme/course-planner/internal/dto"
	"github.com/noah-isme/course-planner/internal/models"
	"github.com/noah-isme/course-planner/internal/scheduler"
	"github.com/noah-isme/course-planner/internal/service"
	"github.com/noah-isme/course-planner/pkg/config"
	"github.com/noah-isme/course-planner/pkg/export"
	"github.com/noah-isme/course-planner/pkg/storage"
)

var (
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log search progress",
	}
	catalogFlag = &cli.StringFlag{
		Name:     "catalog",
		Aliases:  []string{"c"},
		Usage:    "catalog file (.csv, .yaml or .yml)",
		Required: true,
	}
	dayOffFlag = &cli.StringFlag{
		Name:  "day-off",
		Usage: "preferred free weekday (Monday..Saturday)",
	}
	topFlag = &cli.IntFlag{
		Name:  "top",
		Usage: "number of ranked timetables to output",
		Value: 3,
	}
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "file format written with --out: csv, pdf or choices",
		Value: string(models.ExportFormatCSV),
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "directory receiving rendered timetables; prints a summary when empty",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print results as JSON",
	}
	delimiterFlag = &cli.StringFlag{
		Name:  "delimiter",
		Usage: "CSV catalog column separator (defaults to CATALOG_CSV_DELIMITER)",
	}
	olderThanFlag = &cli.DurationFlag{
		Name:  "older-than",
		Usage: "remove exports older than this (defaults to EXPORTS_RETENTION_TTL)",
	}
	dirFlag = &cli.StringFlag{
		Name:  "dir",
		Usage: "export directory (defaults to EXPORTS_STORAGE_DIR)",
	}
)

var generateCommand = cli.Command{
	Name:   "generate",
	Usage:  "Search a catalog and output the best timetables",
	Flags:  []cli.Flag{catalogFlag, dayOffFlag, topFlag, formatFlag, outFlag, jsonFlag, delimiterFlag},
	Action: generateAction,
}

var inspectCommand = cli.Command{
	Name:   "inspect",
	Usage:  "Validate a catalog and print its size",
	Flags:  []cli.Flag{catalogFlag, jsonFlag, delimiterFlag},
	Action: inspectAction,
}

var pruneCommand = cli.Command{
	Name:   "prune",
	Usage:  "Remove old rendered timetables",
	Flags:  []cli.Flag{dirFlag, olderThanFlag},
	Action: pruneAction,
}

func loadCatalog(ctx *cli.Context) (models.Catalog, error) {
	delim := config.ParseDelimiter(ctx.String(delimiterFlag.Name), cfg.Catalog.CSVDelimiter)
	return catalog.LoadFile(ctx.String(catalogFlag.Name), delim)
}

func generateAction(ctx *cli.Context) error {
	snapshot, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	format := models.ExportFormat(strings.ToLower(ctx.String(formatFlag.Name)))
	if !format.Valid() {
		return fmt.Errorf("invalid --format %q: use csv, pdf or choices", format)
	}
	top := ctx.Int(topFlag.Name)
	if top <= 0 {
		return fmt.Errorf("--top must be positive")
	}

	planner := service.NewPlannerService(scheduler.NewEngine(logr), nil, nil, nil, logr, service.PlannerConfig{
		DefaultDayOff: cfg.Planner.DefaultDayOff,
		SearchTimeout: cfg.Planner.SearchTimeout,
	})
	runCtx := ctx.Context
	if runCtx == nil {
		runCtx = context.Background()
	}
	session, err := planner.Generate(runCtx, dto.GenerateRequest{
		DayOff:  ctx.String(dayOffFlag.Name),
		Courses: catalog.Specs(snapshot),
	})
	if err != nil {
		return err
	}

	if top > session.Candidates {
		top = session.Candidates
	}
	views := make([]*dto.CandidateView, 0, top)
	for rank := 1; rank <= top; rank++ {
		view, err := planner.Candidate(runCtx, session.ID, rank)
		if err != nil {
			return err
		}
		views = append(views, view)
	}

	if out := ctx.String(outFlag.Name); out != "" {
		return writeViews(out, views, format)
	}
	if ctx.Bool(jsonFlag.Name) {
		return printJSON(struct {
			DayOff     string                `json:"dayOff"`
			Candidates int                   `json:"candidates"`
			Stats      scheduler.SearchStats `json:"stats"`
			Top        []*dto.CandidateView  `json:"top"`
		}{session.DayOff, session.Candidates, session.Stats, views})
	}

	fmt.Printf("day off: %s, %d timetables found in %s\n", session.DayOff, session.Candidates, session.Stats.Elapsed.Round(time.Millisecond))
	if session.Candidates == 0 {
		fmt.Println("no conflict-free timetable exists for this catalog")
		return nil
	}
	for _, view := range views {
		fmt.Printf("\n#%d  score %d\n", view.Rank, view.Score)
		for _, choice := range view.Choices {
			fmt.Printf("  %-12s %s\n", choice.Course, choice.CodeList())
		}
	}
	return nil
}

func writeViews(dir string, views []*dto.CandidateView, format models.ExportFormat) error {
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		return err
	}
	exports := service.NewExportService(store, nil, service.ExportConfig{}, logr,
		export.NewCSVExporter(','), export.NewPDFExporter(28))
	for _, view := range views {
		file, err := exports.Render(*view, format)
		if err != nil {
			return err
		}
		if _, err := store.Save(file.Filename, file.Payload); err != nil {
			return err
		}
		fmt.Println(store.Path(file.Filename))
	}
	return nil
}

func inspectAction(ctx *cli.Context) error {
	snapshot, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	summary := catalog.Summarize(snapshot)
	if ctx.Bool(jsonFlag.Name) {
		return printJSON(summary)
	}
	fmt.Printf("%d courses, %d sections\n", summary.Courses, summary.Sections)
	names := make([]string, 0, len(summary.PerCourse))
	for name := range summary.PerCourse {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-12s %d sections\n", name, summary.PerCourse[name])
	}
	return nil
}

func pruneAction(ctx *cli.Context) error {
	dir := ctx.String(dirFlag.Name)
	if dir == "" {
		dir = cfg.Exports.StorageDir
	}
	ttl := ctx.Duration(olderThanFlag.Name)
	if ttl <= 0 {
		ttl = cfg.Exports.RetentionTTL
	}
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		return err
	}
	removed, err := store.CleanupOlderThan(ttl)
	if err != nil {
		return err
	}
	for _, name := range removed {
		fmt.Println("removed", name)
	}
	fmt.Printf("%d files removed\n", len(removed))
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

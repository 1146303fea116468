package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/damon-houk/bond-curve-interpolation/internal/application/service"
	"github.com/damon-houk/bond-curve-interpolation/internal/config"
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/api"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/cache"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/db"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/fatih/color"
)

const (
	datePrompt     = "Enter date YYYY-MM-DD: "
	rateTypePrompt = "Enter rate type(Bid, Ask or Mid): "
	filePrompt     = "Enter full path of the csv file: "
)

var noticeColor = color.New(color.FgYellow, color.Bold)

type lookupOptions struct {
	date     string
	rateType string
	file     string
}

// resolveOptions prompts for every option not given on the command line. The
// file prompt is skipped when a default curve file is configured.
func resolveOptions(in *bufio.Reader, out io.Writer, opts lookupOptions, defaultFile string) (lookupOptions, error) {
	var err error

	if opts.date == "" {
		if opts.date, err = prompt(in, out, datePrompt); err != nil {
			return opts, err
		}
	}
	if opts.rateType == "" {
		if opts.rateType, err = prompt(in, out, rateTypePrompt); err != nil {
			return opts, err
		}
	}
	if opts.file == "" {
		opts.file = defaultFile
	}
	if opts.file == "" {
		if opts.file, err = prompt(in, out, filePrompt); err != nil {
			return opts, err
		}
	}

	return opts, nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)

	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %q: %w", strings.TrimSpace(label), err)
	}
	return strings.TrimSpace(line), nil
}

// newRateService builds the file/URL curve source chain used by the CLI
func newRateService(cfg *config.Config, log logger.Logger) *service.RateService {
	httpClient := &http.Client{Timeout: cfg.Source.Timeout}
	downloader := api.NewCurveDownloadClient(httpClient, cfg.Source.MaxRetries, log)

	source := db.NewCSVCurveSource(downloader, log)
	if cfg.Cache.TTL > 0 {
		source = db.NewCachedCurveSource(source, cache.NewCurveTableCache(cfg.Cache.TTL), log)
	}

	return service.NewRateService(source, log)
}

// runLookup answers one rate query and prints it
func runLookup(ctx context.Context, svc *service.RateService, opts lookupOptions, stdout, stderr io.Writer) error {
	query, err := entity.ParseRateQuery(opts.date, opts.rateType)
	if err != nil {
		return err
	}

	quote, err := svc.GetRate(ctx, opts.file, query)
	if err != nil {
		return err
	}

	if quote.Outcome == entity.OutcomeBeforeBaseDate {
		noticeColor.Fprintf(stderr, "This date is before the initial: %s\n", quote.BaseDate.Format(entity.DateLayout))
	}

	fmt.Fprintf(stdout, "The %s rate for %s is: %v\n",
		quote.RateType, quote.TargetDate.Format(entity.DateLayout), quote.Rate)
	return nil
}

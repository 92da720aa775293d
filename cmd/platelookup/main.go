package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"plate-lookup/internal/client"
	"plate-lookup/internal/config"
	"plate-lookup/internal/db"
	"plate-lookup/internal/history"
	"plate-lookup/internal/service"
)

const usage = `Usage: platelookup <command> [args]

Commands:
  scan <image>     detect a plate in an image and check violations
  batch <dir>      scan every image in a directory
  lookup <plate>   check violations for a typed plate number
  history          list past scans, most recent first
  delete <index>   delete one history entry by its listed position
  clear            wipe the scan history
  health           detection service health check
  gpu              detection service GPU info
  model            detection service model info
  results          list stored result images on the detection service
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	gdb, err := db.Open(cfg.History.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history store")
	}

	store := history.NewStore(gdb, cfg.History.MaxEntries, log)
	plates := client.NewPlateClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, cfg.Backend.DetectTimeout, log)
	detection := client.NewDetectionClient(cfg.Detection.BaseURL, cfg.Backend.RequestTimeout, cfg.Detection.PredictTimeout, log)
	svc := service.NewScanService(plates, store, log)

	ctx := context.Background()
	if err := run(ctx, args, cfg, svc, detection); err != nil {
		if errors.Is(err, service.ErrNoPlateFound) {
			fmt.Println("No plate found.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *config.Config, svc *service.ScanService, detection *client.DetectionClient) error {
	switch cmd := args[0]; cmd {
	case "scan":
		if len(args) < 2 {
			return fmt.Errorf("scan requires an image path")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		rec, err := svc.ScanImage(ctx, data, args[1])
		if err != nil {
			return err
		}
		return printJSON(rec)

	case "batch":
		if len(args) < 2 {
			return fmt.Errorf("batch requires a directory path")
		}
		outcomes, err := svc.ScanDirectory(ctx, args[1], cfg.Batch.Concurrency)
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			switch {
			case o.Err != nil:
				fmt.Printf("%s: %v\n", o.File, o.Err)
			default:
				fmt.Printf("%s: %s (%d violations)\n", o.File, o.Record.PlateNumber, o.Record.Violations.ViolationCount)
			}
		}
		return nil

	case "lookup":
		if len(args) < 2 {
			return fmt.Errorf("lookup requires a plate number")
		}
		rec, err := svc.LookupPlate(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(rec)

	case "history":
		entries, err := svc.History(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No scans recorded.")
			return nil
		}
		for i, e := range entries {
			fmt.Printf("%3d  %s  %-12s %-6s  %d violations\n",
				i, e.ScanTime.Format("2006-01-02 15:04:05"), e.PlateNumber, e.Source, e.ViolationCount)
		}
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("delete requires a history index")
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}
		return svc.DeleteHistoryEntry(ctx, index)

	case "clear":
		return svc.ClearHistory(ctx)

	case "health":
		status, err := detection.Health(ctx)
		if err != nil {
			return err
		}
		return printJSON(status)

	case "gpu":
		info, err := detection.GPUInfo(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)

	case "model":
		info, err := detection.ModelInfo(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)

	case "results":
		list, err := detection.ListResults(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"chessyui/config"
	"chessyui/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func main() {
	source := flag.String("source", config.EcoSourceStatic, "ECO table source: static, book or remote")
	backend := flag.String("backend", "http://localhost:5000", "backend base URL for the remote source")
	list := flag.Bool("list", false, "print the whole table instead of resolving codes")
	flag.Parse()

	log := logger.New("eco").Function("main")

	cfg := config.Config{BackendURL: *backend, EcoSource: *source}

	var fetcher services.EcoTableFetcher
	switch *source {
	case config.EcoSourceStatic, config.EcoSourceBook:
	case config.EcoSourceRemote:
		chessy, err := services.NewChessyService(cfg)
		if err != nil {
			log.Er("failed to create backend client", err)
			os.Exit(1)
		}
		fetcher = chessy
	default:
		log.Error("unknown ECO source", "source", *source)
		os.Exit(2)
	}

	resolver := services.NewEcoResolver(cfg, fetcher, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if *list {
		for _, entry := range resolver.Table(ctx).Entries() {
			fmt.Printf("%s\t%s\n", entry.Code, entry.Description)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: eco [-source static|book|remote] [-list] CODE...")
		os.Exit(2)
	}

	for _, code := range flag.Args() {
		fmt.Printf("%s\t%s\n", services.NormalizeEcoCode(code), resolver.Describe(ctx, code))
	}
}

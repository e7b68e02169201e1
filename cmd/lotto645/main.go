package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/lottostack/lotto645/internal/config"
	"github.com/lottostack/lotto645/internal/crawler"
	"github.com/lottostack/lotto645/internal/events"
	"github.com/lottostack/lotto645/internal/kvstore"
	"github.com/lottostack/lotto645/internal/logger"
	"github.com/lottostack/lotto645/internal/lotto"
	"github.com/lottostack/lotto645/internal/recommend"
	"github.com/lottostack/lotto645/internal/report"
	"github.com/lottostack/lotto645/internal/store"
)

var (
	configPath string
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:           "lotto645",
		Short:         "Lotto 6/45 draw crawler, statistics and recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.InitDefault(debug)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	root.AddCommand(crawlCmd(), analyzeCmd(), recommendCmd(), watchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (*store.DrawStore, error) {
	kv, err := kvstore.NewBadgerStore(cfg.Storage.Directory)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", cfg.Storage.Directory, err)
	}
	return store.NewDrawStore(kv), nil
}

func crawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Sync the local store with the latest published rounds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			drawStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer drawStore.Close()

			var emitter *events.Emitter
			if cfg.NATS.URL != "" {
				emitter, err = events.NewEmitter(cfg.NATS.URL, cfg.NATS.Subject)
				if err != nil {
					return err
				}
				defer emitter.Close()
			}

			client := crawler.NewClient(cfg.Crawler.BaseURL, cfg.Crawler.RequestTimeout)
			_, err = crawler.New(client, drawStore, emitter, cfg.Crawler).Sync(cmd.Context())
			return err
		},
	}
}

func analyzeCmd() *cobra.Command {
	var (
		fromRound, toRound int
		modulo, remainder  int
		interval           int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print aggregate statistics over stored rounds",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			drawStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer drawStore.Close()

			records, err := drawStore.ListDraws()
			if err != nil {
				return err
			}
			records = filterRounds(records, fromRound, toRound)
			if err := report.WriteAnalysis(os.Stdout, records); err != nil {
				return err
			}
			if len(records) == 0 {
				return nil
			}
			if modulo > 0 {
				if err := report.WriteModuloGroup(os.Stdout, records, modulo, remainder); err != nil {
					return err
				}
			}
			if interval > 0 {
				if err := report.WriteIntervalFlow(os.Stdout, records, interval); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&fromRound, "from", 0, "first round to include (0 = from the start)")
	cmd.Flags().IntVar(&toRound, "to", 0, "last round to include (0 = to the latest)")
	cmd.Flags().IntVar(&modulo, "modulo", 0, "cycle length for the round-cycle section (0 = off)")
	cmd.Flags().IntVar(&remainder, "remainder", 0, "round remainder selected by --modulo")
	cmd.Flags().IntVar(&interval, "interval", 0, "chunk size for the interval-flow section (0 = off)")
	return cmd
}

func recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Recommend number combinations for the next round",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			drawStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer drawStore.Close()

			records, err := drawStore.ListDraws()
			if err != nil {
				return err
			}
			latest, err := drawStore.LatestRound()
			if err != nil {
				return err
			}

			engine := recommend.NewEngine(records, recommend.Options{
				Quota:   cfg.Recommend.Quota,
				DrawCap: cfg.Recommend.DrawCap,
				PickCap: cfg.Recommend.PickCap,
			})
			recommendations, err := engine.Recommend()
			if err != nil {
				return err
			}
			return report.WriteRecommendations(os.Stdout, latest+1, recommendations)
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Subscribe to the NATS subject and print published draws",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.NATS.URL == "" {
				return fmt.Errorf("nats.url is not configured")
			}

			nc, err := nats.Connect(cfg.NATS.URL)
			if err != nil {
				return fmt.Errorf("NATS connect: %w", err)
			}
			defer nc.Close()

			_, err = nc.Subscribe(cfg.NATS.Subject, func(msg *nats.Msg) {
				var record lotto.DrawRecord
				if err := record.UnmarshalBinary(msg.Data); err != nil {
					logger.L().Error("Unmarshal error", "error", err)
					return
				}
				fmt.Println(record.String())
			})
			if err != nil {
				return fmt.Errorf("NATS subscribe: %w", err)
			}

			logger.L().Info("Subscribed", "subject", cfg.NATS.Subject)
			waitForShutdown()
			return nil
		},
	}
}

func filterRounds(records []lotto.DrawRecord, from, to int) []lotto.DrawRecord {
	if from == 0 && to == 0 {
		return records
	}
	filtered := make([]lotto.DrawRecord, 0, len(records))
	for _, record := range records {
		if from > 0 && record.Round < from {
			continue
		}
		if to > 0 && record.Round > to {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func waitForShutdown() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajstories/EmotionLLM/internal/config"
	"github.com/rajstories/EmotionLLM/internal/content"
	"github.com/rajstories/EmotionLLM/internal/detector"
	"github.com/rajstories/EmotionLLM/internal/journal"
	"github.com/rajstories/EmotionLLM/internal/logging"
	"github.com/rajstories/EmotionLLM/internal/pipeline"
	"github.com/rajstories/EmotionLLM/internal/server"
	"github.com/rajstories/EmotionLLM/internal/stats"
	"github.com/rajstories/EmotionLLM/internal/theme"
)

var (
	cfg         config.Config
	journalPath string
)

func main() {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:   "emotionllm",
		Short: "Emotion check-in journal with a local classifier",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(cmd.Name() == "serve", logging.ParseLevel(cfg.Log.Level))
		},
	}

	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", cfg.Journal.Path, "journal file path")

	rootCmd.AddCommand(checkinCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(journalCmd())
	rootCmd.AddCommand(repairCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getStore() *journal.Store {
	return journal.New(journalPath)
}

func getDetector() (*detector.ONNXDetector, error) {
	return detector.New(
		cfg.Model.ModelPath,
		cfg.Model.VocabPath,
		cfg.Model.LabelPath,
		cfg.Model.MaxSeqLen,
	)
}

func checkinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin [text]",
		Short: "Classify a check-in and append it to the journal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			det, err := getDetector()
			if err != nil {
				return err
			}
			defer det.Close()

			p := pipeline.New(det, getStore())
			event, cls, err := p.CheckIn(cmd.Context(), text)
			if err != nil {
				return err
			}

			th := theme.Lookup(event.Emotion)
			fmt.Printf("%s  %s (%.1f%% confident)\n", th.Emoji, event.Emotion, event.Confidence*100)
			fmt.Printf("%s\n\n", th.Message)

			labels := make([]string, 0, len(cls.Distribution))
			for label := range cls.Distribution {
				labels = append(labels, label)
			}
			sort.Slice(labels, func(i, j int) bool {
				return cls.Distribution[labels[i]] > cls.Distribution[labels[j]]
			})
			for _, label := range labels {
				fmt.Printf("  %-10s %5.1f%%\n", label, cls.Distribution[label]*100)
			}

			fmt.Printf("\n%s\n", content.Reframe(event.Emotion))
			fmt.Printf("Affirmation: %s\n", content.Affirmation(event.Emotion))
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := getStore()
			events, skipped, err := store.ReadAll()
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(os.Stderr, "warning: %d malformed rows skipped (run `emotionllm repair`)\n", skipped)
			}
			if len(events) == 0 {
				fmt.Println("No data yet — log your first check-in!")
				return nil
			}

			now := time.Now()
			today := stats.SummaryForDate(events, now)
			if today.HasData {
				fmt.Printf("Today: %d check-ins, dominant emotion %s\n", today.Count, today.Dominant)
			} else {
				fmt.Println("Today: no data")
			}

			dist := stats.Distribution(events)
			fmt.Printf("Total logs: %d across %d emotions\n", len(events), len(dist))

			if avg, ok := stats.AverageConfidence(events, now, window); ok {
				fmt.Printf("Average confidence (last %d days): %.1f%%\n", window, avg*100)
			}

			fmt.Println("\nEmotion distribution:")
			labels := make([]string, 0, len(dist))
			for label := range dist {
				labels = append(labels, label)
			}
			sort.Slice(labels, func(i, j int) bool { return dist[labels[i]] > dist[labels[j]] })
			for _, label := range labels {
				fmt.Printf("  %-10s %d\n", label, dist[label])
			}

			points := stats.Timeline(events, now, window)
			if len(points) > 0 {
				fmt.Printf("\nTimeline (last %d days):\n", window)
				for _, p := range points {
					fmt.Printf("  %s  %-10s %d\n", p.Date.Format("2006-01-02"), p.Emotion, p.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&window, "window", 30, "trend window in days")
	return cmd
}

func journalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent journal entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, skipped, err := getStore().ReadAll()
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(os.Stderr, "warning: %d malformed rows skipped (run `emotionllm repair`)\n", skipped)
			}
			if len(events) == 0 {
				fmt.Println("No data yet — log your first check-in!")
				return nil
			}

			shown := 0
			for i := len(events) - 1; i >= 0 && shown < limit; i-- {
				ev := events[i]
				fmt.Printf("%s  %s%-10s (%.1f%%)  %s\n",
					ev.Timestamp.Format("2006-01-02 15:04"),
					theme.Lookup(ev.Emotion).Emoji,
					ev.Emotion,
					ev.Confidence*100,
					truncate(ev.Text, 80),
				)
				shown++
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	return cmd
}

func repairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Normalize the journal file to the canonical 4-column schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := getStore().Normalize()
			if err != nil {
				return err
			}
			if !report.Changed() {
				fmt.Printf("Journal is canonical: %d rows, nothing to repair.\n", report.Rows)
				return nil
			}
			fmt.Printf("Repaired journal: %d rows kept, %d truncated, %d padded, %d dropped.\n",
				report.Rows, report.Truncated, report.Padded, report.Dropped)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the check-in and analytics HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			det, err := getDetector()
			if err != nil {
				return err
			}
			defer det.Close()

			store := getStore()
			p := pipeline.New(det, store)
			return server.New(p, store, addr).Run()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", cfg.Server.Addr, "listen address")
	return cmd
}

// truncate shortens s to at most n runes for display. Cutting on runes
// rather than bytes keeps multi-byte text intact.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pbaille/probtrack/internal/api"
	"github.com/pbaille/probtrack/internal/domain"
	"github.com/pbaille/probtrack/internal/fetcher"
	"github.com/pbaille/probtrack/internal/query"
	"github.com/pbaille/probtrack/internal/rating"
	"github.com/pbaille/probtrack/internal/store"
	"github.com/spf13/cobra"
)

var filePath string

// statusMarkers decorate list output the way the desktop tool did
var statusMarkers = map[domain.Status]string{
	domain.StatusUnsolved: "❌",
	domain.StatusSolving:  "🔄",
	domain.StatusSolved:   "✅",
	domain.StatusSnoozed:  "⭐",
}

func main() {
	// Default store location
	home, _ := os.UserHomeDir()
	defaultFile := filepath.Join(home, ".probtrack", "problems.json")

	rootCmd := &cobra.Command{
		Use:   "probtrack",
		Short: "Competitive-programming problem tracker",
	}

	rootCmd.PersistentFlags().StringVar(&filePath, "file", defaultFile, "problem store path")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(tagsCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getStore() *store.Store {
	return store.New(filePath)
}

func addCmd() *cobra.Command {
	var (
		platform  string
		link      string
		value     int
		scale     string
		tags      []string
		fetchName bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new problem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			// Prefill the name from the page title when asked
			if name == "" && fetchName {
				if !fetcher.IsURL(link) {
					return fmt.Errorf("--fetch-name needs a fetchable --link")
				}
				fmt.Print("Fetching title... ")
				title, err := fetcher.Title(link)
				if err != nil {
					fmt.Printf("failed: %v\n", err)
					return fmt.Errorf("could not fetch a name, pass one explicitly")
				}
				fmt.Printf("%s\n", title)
				name = title
			}

			s := getStore()
			problem, err := s.Add(store.AddRequest{
				Name:     name,
				Platform: platform,
				Link:     link,
				Value:    value,
				Scale:    domain.Scale(scale),
				Tags:     tags,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Added problem: %s\n", problem.Name)
			fmt.Printf("DMOJ difficulty: %d\n", problem.Difficulty)
			fmt.Printf("CF rating: %d\n", problem.CFRating)
			if len(problem.Tags) > 0 {
				fmt.Printf("Tags: %s\n", strings.Join(problem.Tags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "platform the problem is from")
	cmd.Flags().StringVarP(&link, "link", "l", "", "problem link (identifies the problem)")
	cmd.Flags().IntVarP(&value, "rating", "r", 0, "difficulty or rating as entered")
	cmd.Flags().StringVar(&scale, "scale", string(domain.ScaleDMOJ), "scale the rating was entered in (dmoj or cf)")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tags, comma separated")
	cmd.Flags().BoolVar(&fetchName, "fetch-name", false, "fetch the problem name from the link's page title")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [link] [new-status]",
		Short: "Change a problem's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := args[0]
			st := domain.Status(args[1])

			found, err := getStore().UpdateStatus(link, st)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no problem with link %s", link)
			}

			fmt.Printf("Status updated to %s.\n", st)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var (
		platform string
		status   string
		scale    string
		minStr   string
		maxStr   string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List problems with filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := getStore()
			problems, err := s.Load()
			if err != nil {
				return err
			}

			criteria := query.Criteria{
				Platform: platform,
				Scale:    domain.Scale(scale),
				Tags:     tags,
			}
			if status != "" && status != "all" {
				st := domain.Status(status)
				if !st.Valid() {
					return fmt.Errorf("unknown status: %q", status)
				}
				criteria.Status = st
			}
			if criteria.MinRating, err = query.ParseBound(minStr); err != nil {
				return err
			}
			if criteria.MaxRating, err = query.ParseBound(maxStr); err != nil {
				return err
			}

			filtered := query.Apply(problems, criteria)
			if len(filtered) == 0 {
				fmt.Println("No problems match. Use 'probtrack add' to track one.")
				return nil
			}

			valueHeader := "DMOJ"
			if criteria.Scale == domain.ScaleCF {
				valueHeader = "CF"
			}
			fmt.Printf("%-2s  %-5s  %-30s  %-12s  %s\n", "", valueHeader, "Name", "Platform", "Tags")
			for _, p := range filtered {
				marker := statusMarkers[p.Status]
				tagsStr := strings.Join(p.Tags, ", ")
				if tagsStr == "" {
					tagsStr = "-"
				}
				fmt.Printf("%-2s  %-5d  %-30s  %-12s  %s\n",
					marker, p.Value(criteria.Scale), truncate(p.Name, 30), p.Platform, tagsStr)
				fmt.Printf("           %s\n", p.Link)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "filter by platform substring")
	cmd.Flags().StringVarP(&status, "status", "s", "all", "filter by status")
	cmd.Flags().StringVar(&scale, "scale", string(domain.ScaleDMOJ), "scale to filter and sort on (dmoj or cf)")
	cmd.Flags().StringVar(&minStr, "min", "", "minimum rating on the selected scale")
	cmd.Flags().StringVar(&maxStr, "max", "", "maximum rating on the selected scale")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "only problems with at least one of these tags")
	return cmd
}

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tag vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := getStore().AllTags()
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Println(t)
			}
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "convert [value]",
		Short: "Convert between DMOJ difficulty and CF rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("value must be a number, got %q", args[0])
			}

			switch domain.Scale(from) {
			case domain.ScaleCF:
				fmt.Printf("CF %d ≈ DMOJ %d\n", value, rating.RatingToDifficulty(value))
			case domain.ScaleDMOJ:
				fmt.Printf("DMOJ %d ≈ CF %d\n", value, rating.DifficultyToRating(value))
			default:
				return fmt.Errorf("unknown scale: %q", from)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", string(domain.ScaleDMOJ), "scale the value is in (dmoj or cf)")
	return cmd
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.New(getStore(), addr)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}

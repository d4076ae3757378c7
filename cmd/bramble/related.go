package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FranksOps/bramble"
)

var relatedCmd = &cobra.Command{
	Use:   "related [text]",
	Short: "List the questions the results page suggests for a topic",
	Long: `Related prints the "people also ask" questions for the given text,
one per line in the order the page presents them.

By default one results page is fetched. With --max a traversal runs
instead, following suggestions of suggestions until more than max
questions have been gathered.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().Int("max", bramble.NoLimit, "traverse until more than this many questions are found (-1: single query)")
	relatedCmd.Flags().Bool("json", false, "emit a JSON array instead of plain lines")

	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	client, err := newClient(newLogger())
	if err != nil {
		return err
	}

	max, _ := cmd.Flags().GetInt("max")
	questions, err := client.CollectRelatedQuestions(cmd.Context(), args[0], viper.GetString("locale"), max)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(questions)
	}

	for _, q := range questions {
		fmt.Println(q)
	}
	return nil
}

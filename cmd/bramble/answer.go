package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var answerCmd = &cobra.Command{
	Use:   "answer [question]",
	Short: "Fetch the featured answer for a question",
	Long: `Answer fetches the results page for a question and prints its featured
answer box along with the related questions found on the same page.

With --simple only the short answer text is printed; adding --fallback
tries the first related question once when the page has no direct
answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnswer,
}

func init() {
	answerCmd.Flags().Bool("simple", false, "print only the answer text")
	answerCmd.Flags().Bool("fallback", false, "with --simple, try the first suggestion when there is no direct answer")
	answerCmd.Flags().Bool("json", false, "emit the full record as JSON")

	rootCmd.AddCommand(answerCmd)
}

func runAnswer(cmd *cobra.Command, args []string) error {
	client, err := newClient(newLogger())
	if err != nil {
		return err
	}

	locale := viper.GetString("locale")

	if simple, _ := cmd.Flags().GetBool("simple"); simple {
		fallback, _ := cmd.Flags().GetBool("fallback")
		text, err := client.SimpleAnswer(cmd.Context(), args[0], locale, fallback)
		if err != nil {
			return err
		}
		if text == "" {
			return fmt.Errorf("no answer found for %q", args[0])
		}
		fmt.Println(text)
		return nil
	}

	rec, err := client.Answer(cmd.Context(), args[0], locale)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	if rec.HasAnswer {
		fmt.Println(rec.Answer)
		if src := rec.Fields["source"]; src != "" {
			fmt.Printf("\nSource: %s %s\n", src, rec.Fields["source_url"])
		}
	} else {
		fmt.Println("No featured answer.")
	}

	if len(rec.Related) > 0 {
		fmt.Println("\nPeople also ask:")
		for _, q := range rec.Related {
			fmt.Println("  " + q)
		}
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List generated posts and their schedule",
	RunE:  runPosts,
}

func init() {
	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	posts, err := db.ListPosts(cmd.Context())
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No posts yet.")
		return nil
	}

	for _, post := range posts {
		date := post.ScheduledFor
		if date == "" {
			date = "unscheduled"
		}
		fmt.Printf("#%d  [%s/%s]  %s  %q\n", post.ID, post.Status, post.RenderStatus, date, post.Headline)
		if post.FinalVideoURL != "" {
			fmt.Printf("      video: %s\n", post.FinalVideoURL)
		}
		if post.ErrorMessage != "" {
			fmt.Printf("      error: %s\n", post.ErrorMessage)
		}
	}
	return nil
}
